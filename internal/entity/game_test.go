package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsOngoing returns true for a new game", func(t *testing.T) {
		// Given: a new game
		game := NewGame("X", "O")

		// Then: it is ongoing and not finished
		assert.True(t, game.IsOngoing())
		assert.False(t, game.IsFinished())
	})

	t.Run("IsFinished returns true when game is won", func(t *testing.T) {
		// Given: a game with StatusWon
		game := &Game{Status: StatusWon}

		// Then: it should be finished but not a draw
		assert.True(t, game.IsFinished())
		assert.False(t, game.IsDraw())
	})

	t.Run("IsFinished returns true on a draw", func(t *testing.T) {
		// Given: a game with StatusDraw
		game := &Game{Status: StatusDraw}

		// Then: it should be finished and a draw
		assert.True(t, game.IsFinished())
		assert.True(t, game.IsDraw())
	})
}

func TestGame_Player(t *testing.T) {
	// Given: a new game
	game := NewGame("Alice", "Bob")

	// When: looking the players up by mark
	playerX := game.Player(PlayerX)
	playerO := game.Player(PlayerO)

	// Then: each mark resolves to its own player and unknown marks to nil
	require.NotNil(t, playerX)
	require.NotNil(t, playerO)
	assert.Equal(t, "Alice", playerX.Name)
	assert.Equal(t, "Bob", playerO.Name)
	assert.Nil(t, game.Player(EmptyCell))
	assert.Equal(t, playerX, game.TurnPlayer())

	// When: the returned player is modified
	playerO.Score = 3

	// Then: the game sees the change
	assert.Equal(t, 3, game.Players[1].Score)
	assert.Equal(t, "Bob Won - 3", game.Players[1].ScoreLine())
}

func TestGame_IsWinningCell(t *testing.T) {
	// Given: a game won on the diagonal
	game := &Game{Status: StatusWon, WinningLine: &Line{0, 4, 8}}

	// Then: only cells of the line are highlighted
	assert.True(t, game.IsWinningCell(4))
	assert.False(t, game.IsWinningCell(2))
	assert.False(t, NewGame("X", "O").IsWinningCell(0))
}

func TestParseMark(t *testing.T) {
	for input, expected := range map[string]Mark{"X": PlayerX, "x": PlayerX, "O": PlayerO, "o": PlayerO} {
		mark, ok := ParseMark(input)
		assert.True(t, ok, input)
		assert.Equal(t, expected, mark, input)
	}

	_, ok := ParseMark("Z")
	assert.False(t, ok)
}
