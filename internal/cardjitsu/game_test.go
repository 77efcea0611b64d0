package cardjitsu

import (
	"errors"
	"math/rand"
	"testing"
)

var (
	alice = Identity{ID: "u1", Name: "Alice"}
	bob   = Identity{ID: "u2", Name: "Bob"}
)

func newTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	g, err := NewGame("g1", alice, bob, DefaultStarter(), rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func TestNewGameDealsBothPlayers(t *testing.T) {
	g := newTestGame(t, 1)
	for _, p := range g.Players() {
		if len(p.Hand()) != HandSize || len(p.DeckCards()) != 5 {
			t.Fatalf("%s: hand=%d deck=%d", p.Identity().ID, len(p.Hand()), len(p.DeckCards()))
		}
	}
	if g.State() != StateAwaitingMoves {
		t.Fatalf("state = %s", g.State())
	}
	if _, err := NewGame("g2", alice, alice, DefaultStarter(), nil); !errors.Is(err, ErrSelfDuel) {
		t.Fatalf("expected ErrSelfDuel, got %v", err)
	}
}

func TestScoreTurnNotReady(t *testing.T) {
	g := newTestGame(t, 1)
	if _, err := g.ScoreTurn(); !errors.Is(err, ErrTurnNotReady) {
		t.Fatalf("expected ErrTurnNotReady with no moves, got %v", err)
	}
	p1 := g.Players()[0]
	if _, err := p1.MakeMove(0); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if g.IsTurnOver() {
		t.Fatalf("turn should not be over with one move")
	}
	if _, err := g.ScoreTurn(); !errors.Is(err, ErrTurnNotReady) {
		t.Fatalf("expected ErrTurnNotReady with one move, got %v", err)
	}
	if !p1.HasMoved() {
		t.Fatalf("failed scoring must keep the pending move")
	}
}

// setMoves bypasses hands so a turn can be scored with chosen cards.
func setMoves(g *Game, a, b Card) {
	g.players[0].move = &a
	g.players[1].move = &b
}

func TestScoreTurnTie(t *testing.T) {
	g := newTestGame(t, 1)
	setMoves(g, c(Fire, Red, 4), c(Fire, Blue, 4))
	if g.State() != StateTurnReady {
		t.Fatalf("state = %s", g.State())
	}
	res, err := g.ScoreTurn()
	if err != nil {
		t.Fatalf("ScoreTurn: %v", err)
	}
	if !res.Tie || res.Winner != -1 {
		t.Fatalf("expected tie, got %+v", res)
	}
	for _, p := range g.Players() {
		if len(p.Score()) != 0 || p.HasMoved() {
			t.Fatalf("tie must award nothing and clear moves")
		}
	}
}

func TestScoreTurnWin(t *testing.T) {
	g := newTestGame(t, 1)
	setMoves(g, c(Snow, Red, 9), c(Fire, Blue, 2))
	res, err := g.ScoreTurn()
	if err != nil {
		t.Fatalf("ScoreTurn: %v", err)
	}
	if res.Tie || res.Winner != 1 || res.Won != c(Fire, Blue, 2) {
		t.Fatalf("fire should beat snow regardless of value: %+v", res)
	}
	p1, p2 := g.Players()[0], g.Players()[1]
	if len(p1.Score()) != 0 || len(p2.Score()) != 1 || p2.Score()[0] != c(Fire, Blue, 2) {
		t.Fatalf("unexpected score piles: %v / %v", p1.Score(), p2.Score())
	}
	if p1.HasMoved() || p2.HasMoved() {
		t.Fatalf("moves must be cleared")
	}
	if g.TurnsPlayed() != 1 || g.History()[0].Turn != 1 {
		t.Fatalf("turn history not recorded")
	}
}

func TestWinnerFixedOrder(t *testing.T) {
	g := newTestGame(t, 1)
	if p, kind := g.Winner(); p != nil || kind != WinNone || g.IsOver() {
		t.Fatalf("fresh game has no winner")
	}
	spread := pile(c(Fire, Red, 3), c(Water, Blue, 2), c(Snow, Green, 6))
	g.players[1].score = spread
	if p, kind := g.Winner(); p != g.players[1] || kind != WinColorSpread {
		t.Fatalf("second player should win, got %v %q", p, kind)
	}
	g.players[0].score = spread
	if p, _ := g.Winner(); p != g.players[0] {
		t.Fatalf("first player is checked first")
	}
	if g.State() != StateConcluded {
		t.Fatalf("state = %s", g.State())
	}
}

func TestGameLookups(t *testing.T) {
	g := newTestGame(t, 1)
	if p, ok := g.Player("u2"); !ok || p.Identity() != bob {
		t.Fatalf("Player(u2) lookup failed")
	}
	if p, ok := g.Opponent("u1"); !ok || p.Identity() != bob {
		t.Fatalf("Opponent(u1) lookup failed")
	}
	if _, ok := g.Opponent("u3"); ok {
		t.Fatalf("stranger has no opponent")
	}
}
