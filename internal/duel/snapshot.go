package duel

import (
	"time"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
	"github.com/park285/CardJitsu-KakaoTalk-bot/pkg/jitsudto"
)

// Side is one player's view of a duel at a point in time.
type Side struct {
	Identity cardjitsu.Identity
	Hand     []cardjitsu.Card
	Score    []cardjitsu.Card
	DeckSize int
	Moved    bool
}

// Snapshot is a copy of duel state; it never aliases the live game.
type Snapshot struct {
	GameID       string
	Room         string
	State        cardjitsu.State
	Turns        int
	StartedAt    time.Time
	LastActivity time.Time
	Sides        [2]Side
	LastTurn     *cardjitsu.TurnResult
}

// Side returns userID's side and the opponent's.
func (s *Snapshot) Side(userID string) (me, opp Side, ok bool) {
	switch userID {
	case s.Sides[0].Identity.ID:
		return s.Sides[0], s.Sides[1], true
	case s.Sides[1].Identity.ID:
		return s.Sides[1], s.Sides[0], true
	}
	return Side{}, Side{}, false
}

func takeSnapshot(d *duel) *Snapshot {
	g := d.game
	snap := &Snapshot{
		GameID:       g.ID(),
		Room:         d.room,
		State:        g.State(),
		Turns:        g.TurnsPlayed(),
		StartedAt:    d.startedAt,
		LastActivity: d.lastActivity,
	}
	for i, p := range g.Players() {
		snap.Sides[i] = Side{
			Identity: p.Identity(),
			Hand:     p.Hand(),
			Score:    p.Score(),
			DeckSize: len(p.DeckCards()),
			Moved:    p.HasMoved(),
		}
	}
	if h := g.History(); len(h) > 0 {
		last := h[len(h)-1]
		snap.LastTurn = &last
	}
	return snap
}

// Summary converts the snapshot to its public DTO; hands are omitted.
func (s *Snapshot) Summary(now time.Time) jitsudto.DuelSummary {
	out := jitsudto.DuelSummary{
		GameID:       s.GameID,
		Room:         s.Room,
		State:        string(s.State),
		Turns:        s.Turns,
		StartedAt:    s.StartedAt,
		LastActivity: s.LastActivity,
		IdleSeconds:  int64(now.Sub(s.LastActivity) / time.Second),
	}
	if out.IdleSeconds < 0 {
		out.IdleSeconds = 0
	}
	for _, side := range s.Sides {
		out.Players = append(out.Players, jitsudto.PlayerSummary{
			ID:       side.Identity.ID,
			Name:     side.Identity.DisplayName(),
			Moved:    side.Moved,
			DeckSize: side.DeckSize,
			Score:    CardViews(side.Score),
		})
	}
	return out
}

func CardViews(cards []cardjitsu.Card) []jitsudto.CardView {
	out := make([]jitsudto.CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, jitsudto.CardView{ID: c.ID, Element: c.Element.String(), Color: c.Color.String(), Value: c.Value})
	}
	return out
}
