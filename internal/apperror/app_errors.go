package apperror

import "errors"

var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrInvalidState = errors.New("invalid board state")
	ErrNoMoves      = errors.New("no moves available on a terminal board")
	ErrInvalidMark  = errors.New("invalid player mark")

	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrGameNotFound = errors.New("game not found")
	ErrGameConflict = errors.New("game was changed concurrently")
)
