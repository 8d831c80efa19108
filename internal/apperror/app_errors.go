package apperror

import "errors"

var (
	ErrGameFinished  = errors.New("game is already finished")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("invalid cell index")
	ErrUnknownPlayer = errors.New("unknown player mark")
	ErrNameTooLong   = errors.New("player name is too long")
	ErrTableClosed   = errors.New("table is closed")
)
