package challenge

import (
	"errors"
	"time"
)

// Challenge is a pending duel invitation stored as JSON under the target's key.
type Challenge struct {
	ID             string    `json:"id"`
	Room           string    `json:"room"`
	ChallengerID   string    `json:"challenger_id"`
	ChallengerName string    `json:"challenger_name"`
	TargetID       string    `json:"target_id"`
	TargetName     string    `json:"target_name"`
	CreatedAt      time.Time `json:"created_at"`
}

var (
	ErrInvalidArgs    = errors.New("invalid challenge arguments")
	ErrSelfChallenge  = errors.New("cannot challenge yourself")
	ErrAlreadyPending = errors.New("a challenge is already pending")
	ErrNoPending      = errors.New("no pending challenge")
)
