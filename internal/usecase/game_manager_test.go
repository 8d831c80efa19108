package usecase_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-table/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
	"github.com/rocketscienceinc/tictactoe-table/internal/notify"
	"github.com/rocketscienceinc/tictactoe-table/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-table/testing/suite"
)

func playMoves(ctx context.Context, t *testing.T, manager *usecase.GameManager, cells ...int) entity.Game {
	t.Helper()

	var game entity.Game
	for _, cell := range cells {
		var err error
		game, err = manager.MakeTurn(ctx, cell)
		require.NoError(t, err)
	}

	return game
}

func TestGameManager_MakeTurn(t *testing.T) {
	t.Run("Accepted move is published", func(t *testing.T) {
		ctx, st := suite.New(t)
		_, events := st.Broadcaster.Subscribe()

		// When: X plays the center
		game, err := st.Manager.MakeTurn(ctx, 4)

		// Then: the snapshot and the event both show the move
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.Board[4])
		assert.Equal(t, entity.PlayerO, game.Turn)

		event := st.NextEvent(events)
		assert.Equal(t, notify.EventState, event.Type)
		assert.Equal(t, game, event.Game)
		assert.Equal(t, "Turn: O", event.Status)
	})

	t.Run("Rejected move is a silent no-op", func(t *testing.T) {
		ctx, st := suite.New(t)
		before := playMoves(ctx, t, st.Manager, 4)
		_, events := st.Broadcaster.Subscribe()

		// When: O taps the occupied center and an out of range cell
		afterOccupied, err := st.Manager.MakeTurn(ctx, 4)
		require.NoError(t, err)
		afterOutOfRange, err := st.Manager.MakeTurn(ctx, 42)
		require.NoError(t, err)

		// Then: the game is unchanged and nothing is published
		assert.Equal(t, before, afterOccupied)
		assert.Equal(t, before, afterOutOfRange)
		assert.Empty(t, events)
	})

	t.Run("Winning move publishes state and result", func(t *testing.T) {
		ctx, st := suite.New(t)
		_, err := st.Manager.RenamePlayer(ctx, entity.PlayerX, "Alice")
		require.NoError(t, err)
		playMoves(ctx, t, st.Manager, 0, 3, 1, 4)
		_, events := st.Broadcaster.Subscribe()

		// When: X completes the top row
		game, err := st.Manager.MakeTurn(ctx, 2)
		require.NoError(t, err)

		// Then: a state event is followed by the result alert
		state := st.NextEvent(events)
		assert.Equal(t, notify.EventState, state.Type)
		assert.Equal(t, "Alice wins!", state.Status)

		result := st.NextEvent(events)
		assert.Equal(t, notify.EventResult, result.Type)
		assert.Equal(t, "Alice wins!", result.Message)
		assert.Equal(t, game, result.Game)

		require.NotNil(t, game.WinningLine)
		assert.Equal(t, entity.Line{0, 1, 2}, *game.WinningLine)
		assert.Equal(t, 1, game.Player(entity.PlayerX).Score)
		assert.Equal(t, 0, game.Player(entity.PlayerO).Score)

		// When: a move comes in after the win
		after, err := st.Manager.MakeTurn(ctx, 8)

		// Then: nothing changes
		require.NoError(t, err)
		assert.Equal(t, game, after)
	})

	t.Run("Draw publishes the draw alert", func(t *testing.T) {
		ctx, st := suite.New(t)
		_, events := st.Broadcaster.Subscribe()

		// When: the board fills up without a line
		game := playMoves(ctx, t, st.Manager, 0, 1, 2, 3, 5, 4, 6, 8, 7)

		// Then: the last event is a draw alert and scores stay at zero
		var last notify.Event
		for i := 0; i < 10; i++ {
			last = st.NextEvent(events)
		}
		assert.Equal(t, notify.EventResult, last.Type)
		assert.Equal(t, "It's a draw!", last.Message)
		assert.Equal(t, entity.StatusDraw, game.Status)
		assert.Nil(t, game.WinningLine)
		assert.Equal(t, 0, game.Players[0].Score+game.Players[1].Score)
	})
}

func TestGameManager_Resets(t *testing.T) {
	t.Run("AcknowledgeResult starts a new round and keeps the score", func(t *testing.T) {
		ctx, st := suite.New(t)
		playMoves(ctx, t, st.Manager, 0, 3, 1, 4, 2)

		// When: the alert is acknowledged
		game, err := st.Manager.AcknowledgeResult(ctx)

		// Then: the board is empty, X starts and X keeps its point
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, game.Board)
		assert.Equal(t, entity.PlayerX, game.Turn)
		assert.True(t, game.IsOngoing())
		assert.Equal(t, 1, game.Player(entity.PlayerX).Score)
	})

	t.Run("AcknowledgeResult is ignored mid round", func(t *testing.T) {
		ctx, st := suite.New(t)
		before := playMoves(ctx, t, st.Manager, 0)

		// When: an acknowledgement arrives while the round goes on
		game, err := st.Manager.AcknowledgeResult(ctx)

		// Then: nothing changes
		require.NoError(t, err)
		assert.Equal(t, before, game)
	})

	t.Run("ResetRound keeps names and scores", func(t *testing.T) {
		ctx, st := suite.New(t)
		_, err := st.Manager.RenamePlayer(ctx, entity.PlayerO, "Bob")
		require.NoError(t, err)
		playMoves(ctx, t, st.Manager, 0, 1, 2, 4, 3, 7)

		// When: the round is reset
		game, err := st.Manager.ResetRound(ctx)

		// Then: Bob keeps his name and point
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, game.Board)
		assert.Equal(t, "Bob", game.Player(entity.PlayerO).Name)
		assert.Equal(t, 1, game.Player(entity.PlayerO).Score)
	})

	t.Run("ResetScores zeroes both scores", func(t *testing.T) {
		ctx, st := suite.New(t)
		playMoves(ctx, t, st.Manager, 0, 3, 1, 4, 2)

		// When: scores are reset
		game, err := st.Manager.ResetScores(ctx)

		// Then: both scores are zero and the round restarted
		require.NoError(t, err)
		assert.Equal(t, 0, game.Player(entity.PlayerX).Score)
		assert.Equal(t, 0, game.Player(entity.PlayerO).Score)
		assert.Equal(t, entity.Board{}, game.Board)
		assert.Nil(t, game.WinningLine)
	})
}

func TestGameManager_RenamePlayer(t *testing.T) {
	ctx, st := suite.New(t)

	// When: an unknown mark is renamed
	game, err := st.Manager.RenamePlayer(ctx, entity.Mark("Z"), "Zed")

	// Then: ErrUnknownPlayer is returned with the unchanged game
	require.ErrorIs(t, err, apperror.ErrUnknownPlayer)
	assert.Equal(t, "X", game.Player(entity.PlayerX).Name)
}

func TestGameManager_ConcurrentTaps(t *testing.T) {
	ctx, st := suite.New(t)

	// When: many taps race for the same cell
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.Manager.MakeTurn(ctx, 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Then: exactly one of them was applied
	game, err := st.Manager.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.PlayerX, game.Board[0])
	assert.Equal(t, entity.PlayerO, game.Turn)
}

func TestGameManager_Closed(t *testing.T) {
	// Given: a manager whose loop already stopped
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	manager := usecase.NewGameManager(logger, notify.NewBroadcaster(1), suite.Defaults)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, manager.Run(ctx))

	// When: a command arrives
	_, err := manager.Snapshot(context.Background())

	// Then: ErrTableClosed is returned
	require.ErrorIs(t, err, apperror.ErrTableClosed)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (that *recordingPublisher) Publish(event notify.Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, event)
}

func (that *recordingPublisher) types() []notify.EventType {
	that.mu.Lock()
	defer that.mu.Unlock()

	types := make([]notify.EventType, 0, len(that.events))
	for _, event := range that.events {
		types = append(types, event.Type)
	}
	return types
}

func TestGameManager_PublishedEvents(t *testing.T) {
	// Given: a manager publishing into a recorder
	publisher := &recordingPublisher{}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	manager := usecase.NewGameManager(logger, publisher, suite.Defaults)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		assert.NoError(t, manager.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	// When: a round is won, a tap after the win is rejected and the result is acknowledged twice
	playMoves(ctx, t, manager, 0, 3, 1, 4, 2)
	_, err := manager.MakeTurn(ctx, 8)
	require.NoError(t, err)
	_, err = manager.AcknowledgeResult(ctx)
	require.NoError(t, err)
	_, err = manager.AcknowledgeResult(ctx)
	require.NoError(t, err)

	// Then: one state event per move, one result for the win and one state for the first acknowledgement
	assert.Equal(t, []notify.EventType{
		notify.EventState,
		notify.EventState,
		notify.EventState,
		notify.EventState,
		notify.EventState,
		notify.EventResult,
		notify.EventState,
	}, publisher.types())
}
