package apperror

import "errors"

var (
	ErrGameFull         = errors.New("both player slots are taken")
	ErrAlreadySeated    = errors.New("connection already holds a slot")
	ErrUnknownPlayer    = errors.New("connection holds no slot")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrCellOccupied     = errors.New("cell is already occupied")
)
