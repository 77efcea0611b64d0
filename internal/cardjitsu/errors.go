package cardjitsu

import "errors"

var (
	ErrAlreadyInGame     = errors.New("player already in a duel")
	ErrNotInGame         = errors.New("player not in a duel")
	ErrAlreadyMoved      = errors.New("move already chosen this turn")
	ErrInvalidHandIndex  = errors.New("hand index out of range")
	ErrTurnNotReady      = errors.New("turn not ready to score")
	ErrInsufficientCards = errors.New("not enough cards in deck")
	ErrSelfDuel          = errors.New("cannot duel yourself")
	ErrInvalidCard       = errors.New("invalid card")
)
