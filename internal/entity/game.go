package entity

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

// Mark is the symbol a player leaves in a cell.
type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

const BoardSize = 9

// Board holds the nine cells, row by row.
type Board [BoardSize]Mark

// Line is a triple of board indices.
type Line [3]int

// Contains reports whether the cell index is part of the line.
func (that Line) Contains(cell int) bool {
	for _, index := range that {
		if index == cell {
			return true
		}
	}
	return false
}

// Game is the state of a single table: the board, whose turn it is, the round result and the players.
type Game struct {
	Board       Board     `json:"board"`
	Turn        Mark      `json:"player_turn"`
	Status      string    `json:"status"`
	Winner      Mark      `json:"winner,omitempty"`
	WinningLine *Line     `json:"winning_line,omitempty"`
	Players     [2]Player `json:"players"`
}

// NewGame - creates a table with an empty board where X moves first.
func NewGame(xName, oName string) *Game {
	return &Game{
		Turn:   PlayerX,
		Status: StatusOngoing,
		Players: [2]Player{
			{Mark: PlayerX, Name: xName},
			{Mark: PlayerO, Name: oName},
		},
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsDraw() bool {
	return that.Status == StatusDraw
}

// IsWinningCell reports whether the cell belongs to the completed line, if any.
func (that *Game) IsWinningCell(cell int) bool {
	return that.WinningLine != nil && that.WinningLine.Contains(cell)
}

// Player - returns the player that owns the mark, or nil for an unknown mark.
func (that *Game) Player(mark Mark) *Player {
	for i := range that.Players {
		if that.Players[i].Mark == mark {
			return &that.Players[i]
		}
	}
	return nil
}

// TurnPlayer - returns the player whose mark is active.
func (that *Game) TurnPlayer() *Player {
	return that.Player(that.Turn)
}
