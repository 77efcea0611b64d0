package results

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Method is how a duel ended.
type Method string

const (
	MethodElementSweep Method = "element_sweep"
	MethodColorSpread  Method = "color_spread"
	MethodResign       Method = "resign"
	MethodTimeout      Method = "timeout"
	MethodAbandoned    Method = "abandoned"
)

var ErrInvalidRecord = errors.New("invalid duel record")

// Record is one finished duel. WinnerID is empty when nobody won.
type Record struct {
	GameID      string    `json:"game_id"`
	Room        string    `json:"room"`
	PlayerAID   string    `json:"player_a_id"`
	PlayerAName string    `json:"player_a_name"`
	PlayerBID   string    `json:"player_b_id"`
	PlayerBName string    `json:"player_b_name"`
	WinnerID    string    `json:"winner_id,omitempty"`
	Method      Method    `json:"method"`
	Turns       int       `json:"turns"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
}

func (r *Record) Validate() error {
	if r == nil || strings.TrimSpace(r.GameID) == "" || r.PlayerAID == "" || r.PlayerBID == "" {
		return ErrInvalidRecord
	}
	if r.WinnerID != "" && r.WinnerID != r.PlayerAID && r.WinnerID != r.PlayerBID {
		return ErrInvalidRecord
	}
	return nil
}

func (r *Record) Involves(userID string) bool {
	return r.PlayerAID == userID || r.PlayerBID == userID
}

// Opponent returns the other side's id and name from userID's point of view.
func (r *Record) Opponent(userID string) (string, string) {
	if r.PlayerAID == userID {
		return r.PlayerBID, r.PlayerBName
	}
	return r.PlayerAID, r.PlayerAName
}

func (r *Record) nameOf(userID string) string {
	if r.PlayerAID == userID {
		return r.PlayerAName
	}
	return r.PlayerBName
}

func (r *Record) Duration() time.Duration {
	d := r.EndedAt.Sub(r.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Profile aggregates every recorded duel of one user.
type Profile struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Wins         int       `json:"wins"`
	Losses       int       `json:"losses"`
	Draws        int       `json:"draws"`
	LastPlayedAt time.Time `json:"last_played_at"`
}

func (p *Profile) Played() int { return p.Wins + p.Losses + p.Draws }

type Repository interface {
	SaveResult(ctx context.Context, rec *Record) error
	Recent(ctx context.Context, userID string, limit int) ([]*Record, error)
	// Profile returns nil, nil for users with no recorded duels.
	Profile(ctx context.Context, userID string) (*Profile, error)
}
