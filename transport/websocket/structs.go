package websocket

import "encoding/json"

const (
	actionTurn        = "game:turn"
	actionRename      = "player:rename"
	actionResetRound  = "round:reset"
	actionResetScores = "scores:reset"
	actionAckResult   = "alert:ack"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TurnPayload - Cell is a pointer so a message without a cell is not read as a tap on cell 0.
type TurnPayload struct {
	Cell *int `json:"cell"`
}

type RenamePayload struct {
	Mark string `json:"mark"`
	Name string `json:"name"`
}
