package tictactoe

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rocketscienceinc/tictactoe-table/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
)

const (
	StartingMark = entity.PlayerX

	// MaxNameLength - in runes, after trimming.
	MaxNameLength = 32

	drawMessage = "It's a draw!"
)

// WinCombos - rows, then columns, then diagonals.
var WinCombos = [8]entity.Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Defaults holds the names players fall back to when renamed to an empty string.
type Defaults struct {
	XName string
	OName string
}

func (that Defaults) nameFor(mark entity.Mark) string {
	if mark == entity.PlayerO {
		return that.OName
	}
	return that.XName
}

// NewGame - creates a game with the default player names.
func NewGame(defaults Defaults) *entity.Game {
	return entity.NewGame(defaults.XName, defaults.OName)
}

// MakeTurn - puts the active mark into the cell and settles the round.
// A rejected move returns an error and leaves the game untouched.
func MakeTurn(game *entity.Game, cell int) error {
	if game.IsFinished() {
		return apperror.ErrGameFinished
	}

	if err := validateMove(game, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	game.Board[cell] = game.Turn
	updateGameStatus(game)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(game *entity.Game, cell int) error {
	if cell < 0 || cell >= len(game.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if game.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(game *entity.Game) {
	if line, ok := FindWinningLine(game.Board); ok {
		winner := game.Board[line[0]]

		game.Status = entity.StatusWon
		game.Winner = winner
		game.WinningLine = &line

		if player := game.Player(winner); player != nil {
			player.Score++
		}
		return
	}

	if IsBoardFull(game.Board) {
		game.Status = entity.StatusDraw
		return
	}

	game.Turn = toggleMark(game.Turn)
}

func toggleMark(currentMark entity.Mark) entity.Mark {
	if currentMark == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}

// FindWinningLine - returns the first combo whose three cells hold the same mark.
func FindWinningLine(board entity.Board) (entity.Line, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return combo, true
		}
	}

	return entity.Line{}, false
}

func IsBoardFull(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

// ResetRound - clears the board for a new round, keeping names and scores.
func ResetRound(game *entity.Game) {
	game.Board = entity.Board{}
	game.Turn = StartingMark
	game.Status = entity.StatusOngoing
	game.Winner = entity.EmptyCell
	game.WinningLine = nil
}

// ResetScores - zeroes both scores and starts a new round.
func ResetScores(game *entity.Game) {
	for i := range game.Players {
		game.Players[i].Score = 0
	}

	ResetRound(game)
}

// RenamePlayer - sets the display name of the player with the mark.
// An empty name restores the default one.
func RenamePlayer(game *entity.Game, defaults Defaults, mark entity.Mark, name string) error {
	player := game.Player(mark)
	if player == nil {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownPlayer, mark)
	}

	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: max %d characters", apperror.ErrNameTooLong, MaxNameLength)
	}
	if name == "" {
		name = defaults.nameFor(mark)
	}

	player.Name = name

	return nil
}

// ResultMessage - the alert text for a finished round, empty while the round goes on.
func ResultMessage(game *entity.Game) string {
	switch game.Status {
	case entity.StatusWon:
		if player := game.Player(game.Winner); player != nil {
			return player.Name + " wins!"
		}
		return string(game.Winner) + " wins!"
	case entity.StatusDraw:
		return drawMessage
	default:
		return ""
	}
}

// StatusLine - the line shown above the board.
func StatusLine(game *entity.Game) string {
	if game.IsFinished() {
		return ResultMessage(game)
	}

	if player := game.TurnPlayer(); player != nil {
		return "Turn: " + player.Name
	}

	return "Turn: " + string(game.Turn)
}
