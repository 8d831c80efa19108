package entity

import "fmt"

type Player struct {
	Mark  Mark   `json:"mark"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ScoreLine - the score board text shown for the player.
func (that Player) ScoreLine() string {
	return fmt.Sprintf("%s Won - %d", that.Name, that.Score)
}

// ParseMark - converts user input into a player mark.
func ParseMark(value string) (Mark, bool) {
	switch Mark(value) {
	case PlayerX, PlayerO:
		return Mark(value), true
	case "x":
		return PlayerX, true
	case "o":
		return PlayerO, true
	default:
		return EmptyCell, false
	}
}
