package apperror

import "errors"

var (
	ErrInvalidMove     = errors.New("invalid move")
	ErrGameFinished    = errors.New("game is already finished")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrOutOfRange      = errors.New("cell coordinate out of range")
	ErrSearchInvariant = errors.New("search invariant violated: non-terminal state without legal moves")
	ErrUnknownGameMode = errors.New("unknown game mode")
	ErrInvalidMark     = errors.New("invalid player mark")
)
