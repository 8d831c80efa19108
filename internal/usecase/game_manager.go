package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-table/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
	"github.com/rocketscienceinc/tictactoe-table/internal/notify"
	"github.com/rocketscienceinc/tictactoe-table/internal/tictactoe"
)

type publisher interface {
	Publish(event notify.Event)
}

// outcome tells the loop which events a command calls for.
type outcome int

const (
	unchanged outcome = iota
	changed
	roundFinished
)

// command is applied to the game by the loop goroutine.
type command struct {
	method string
	apply  func(game *entity.Game) (outcome, error)
	reply  chan commandResult
}

type commandResult struct {
	game entity.Game
	err  error
}

// GameManager owns the table. Every interaction is handled by the Run loop, one at a time.
type GameManager struct {
	logger    *slog.Logger
	publisher publisher
	defaults  tictactoe.Defaults

	game     *entity.Game
	commands chan command
	done     chan struct{}
}

func NewGameManager(logger *slog.Logger, publisher publisher, defaults tictactoe.Defaults) *GameManager {
	return &GameManager{
		logger:    logger.With("component", "game_manager"),
		publisher: publisher,
		defaults:  defaults,

		game:     tictactoe.NewGame(defaults),
		commands: make(chan command),
		done:     make(chan struct{}),
	}
}

// Run - processes commands until ctx is canceled.
func (that *GameManager) Run(ctx context.Context) error {
	defer close(that.done)

	that.logger.Info("table opened")

	for {
		select {
		case <-ctx.Done():
			that.logger.Info("table closed")
			return nil
		case cmd := <-that.commands:
			cmd.reply <- that.handle(cmd)
		}
	}
}

// handle - applies the command and publishes what its outcome calls for.
func (that *GameManager) handle(cmd command) commandResult {
	result, err := cmd.apply(that.game)
	if err != nil {
		return commandResult{game: *that.game, err: err}
	}

	snapshot := *that.game

	switch result {
	case unchanged:
	case changed:
		that.publishState(snapshot)
	case roundFinished:
		that.publishState(snapshot)
		that.publishResult(cmd.method, snapshot)
	}

	return commandResult{game: snapshot}
}

func (that *GameManager) publishState(snapshot entity.Game) {
	that.publisher.Publish(notify.Event{
		Type:   notify.EventState,
		Game:   snapshot,
		Status: tictactoe.StatusLine(&snapshot),
	})
}

func (that *GameManager) publishResult(method string, snapshot entity.Game) {
	message := tictactoe.ResultMessage(&snapshot)

	that.logger.Info("round finished", "method", method, "result", message, "winner", snapshot.Winner)

	that.publisher.Publish(notify.Event{
		Type:    notify.EventResult,
		Game:    snapshot,
		Status:  message,
		Message: message,
	})
}

// do - sends the command to the loop and waits for the result.
func (that *GameManager) do(ctx context.Context, method string, apply func(game *entity.Game) (outcome, error)) (entity.Game, error) {
	cmd := command{
		method: method,
		apply:  apply,
		reply:  make(chan commandResult, 1),
	}

	select {
	case that.commands <- cmd:
	case <-that.done:
		return entity.Game{}, apperror.ErrTableClosed
	case <-ctx.Done():
		return entity.Game{}, fmt.Errorf("%s: %w", method, ctx.Err())
	}

	result := <-cmd.reply
	if result.err != nil {
		return result.game, fmt.Errorf("%s: %w", method, result.err)
	}

	return result.game, nil
}

// Snapshot - returns a copy of the current game.
func (that *GameManager) Snapshot(ctx context.Context) (entity.Game, error) {
	return that.do(ctx, "snapshot", func(*entity.Game) (outcome, error) {
		return unchanged, nil
	})
}

// MakeTurn - plays the active mark into the cell. Rejected moves are ignored.
func (that *GameManager) MakeTurn(ctx context.Context, cell int) (entity.Game, error) {
	return that.do(ctx, "makeTurn", func(game *entity.Game) (outcome, error) {
		if err := tictactoe.MakeTurn(game, cell); err != nil {
			return unchanged, nil //nolint: nilerr // rejected moves are no-ops
		}

		that.logger.Debug("move accepted", "method", "makeTurn", "cell", cell, "status", game.Status)

		if game.IsFinished() {
			return roundFinished, nil
		}

		return changed, nil
	})
}

// RenamePlayer - changes the display name of the player with the mark.
func (that *GameManager) RenamePlayer(ctx context.Context, mark entity.Mark, name string) (entity.Game, error) {
	return that.do(ctx, "renamePlayer", func(game *entity.Game) (outcome, error) {
		if err := tictactoe.RenamePlayer(game, that.defaults, mark, name); err != nil {
			return unchanged, err
		}
		return changed, nil
	})
}

// ResetRound - clears the board, keeping names and scores.
func (that *GameManager) ResetRound(ctx context.Context) (entity.Game, error) {
	return that.do(ctx, "resetRound", func(game *entity.Game) (outcome, error) {
		tictactoe.ResetRound(game)
		return changed, nil
	})
}

// ResetScores - zeroes the scores and starts a new round.
func (that *GameManager) ResetScores(ctx context.Context) (entity.Game, error) {
	return that.do(ctx, "resetScores", func(game *entity.Game) (outcome, error) {
		tictactoe.ResetScores(game)
		return changed, nil
	})
}

// AcknowledgeResult - closes the result alert, which starts a new round. Ignored while the round is still going.
func (that *GameManager) AcknowledgeResult(ctx context.Context) (entity.Game, error) {
	return that.do(ctx, "acknowledgeResult", func(game *entity.Game) (outcome, error) {
		if !game.IsFinished() {
			return unchanged, nil
		}

		tictactoe.ResetRound(game)
		return changed, nil
	})
}
