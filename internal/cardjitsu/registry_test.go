package cardjitsu

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"testing"
)

func newTestRegistry(t *testing.T, seed int64) *Registry {
	t.Helper()
	n := 0
	r, err := NewRegistry(DefaultStarter(),
		WithRand(rand.New(rand.NewSource(seed))),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("g%d", n) }),
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestStartDuelAlreadyInGame(t *testing.T) {
	r := newTestRegistry(t, 1)
	g, err := r.StartDuel(alice, bob)
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	if g.ID() != "g1" {
		t.Fatalf("id = %q", g.ID())
	}
	ga, _ := r.GameOf("u1")
	gb, _ := r.GameOf("u2")
	if ga != g || gb != g {
		t.Fatalf("both players must map to the same game")
	}
	carol := Identity{ID: "u3", Name: "Carol"}
	if _, err := r.StartDuel(carol, bob); !errors.Is(err, ErrAlreadyInGame) {
		t.Fatalf("expected ErrAlreadyInGame, got %v", err)
	}
	if _, ok := r.GameOf("u3"); ok {
		t.Fatalf("failed start must not register anyone")
	}
}

func TestSubmitMoveNotInGame(t *testing.T) {
	r := newTestRegistry(t, 1)
	if _, err := r.SubmitMove("ghost", 0); !errors.Is(err, ErrNotInGame) {
		t.Fatalf("expected ErrNotInGame, got %v", err)
	}
	if _, err := r.Play("ghost", 0); !errors.Is(err, ErrNotInGame) {
		t.Fatalf("expected ErrNotInGame from Play, got %v", err)
	}
}

func TestEndDuelReleasesBoth(t *testing.T) {
	r := newTestRegistry(t, 1)
	g, _ := r.StartDuel(alice, bob)
	r.EndDuel(g)
	r.EndDuel(g)
	if _, ok := r.GameOf("u1"); ok {
		t.Fatalf("u1 still registered")
	}
	if len(r.Games()) != 0 {
		t.Fatalf("registry should be empty")
	}
	if _, err := r.StartDuel(alice, bob); err != nil {
		t.Fatalf("players should be free again: %v", err)
	}
}

func TestEndToEndFirstTurn(t *testing.T) {
	r := newTestRegistry(t, 99)
	x := Identity{ID: "x", Name: "X"}
	y := Identity{ID: "y", Name: "Y"}
	g, err := r.StartDuel(x, y)
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	px, _ := g.Player("x")
	py, _ := g.Player("y")
	for _, p := range []*Player{px, py} {
		if len(p.Hand()) != 5 || len(p.DeckCards()) != 5 {
			t.Fatalf("expected 5/5 split after dealing")
		}
	}
	cx, cy := px.Hand()[0], py.Hand()[0]

	if _, err := r.SubmitMove("x", 0); err != nil {
		t.Fatalf("SubmitMove x: %v", err)
	}
	if _, err := r.SubmitMove("x", 1); !errors.Is(err, ErrAlreadyMoved) {
		t.Fatalf("expected ErrAlreadyMoved, got %v", err)
	}
	if _, err := r.SubmitMove("y", 0); err != nil {
		t.Fatalf("SubmitMove y: %v", err)
	}
	if !g.IsTurnOver() {
		t.Fatalf("turn should be over")
	}
	res, err := g.ScoreTurn()
	if err != nil {
		t.Fatalf("ScoreTurn: %v", err)
	}
	switch {
	case cx.Equals(cy):
		if !res.Tie {
			t.Fatalf("expected tie")
		}
	case cx.Beats(cy):
		if res.Winner != 0 || len(px.Score()) != 1 {
			t.Fatalf("x should have scored")
		}
	default:
		if res.Winner != 1 || len(py.Score()) != 1 {
			t.Fatalf("y should have scored")
		}
	}
	if len(px.Hand()) != 5 || len(py.Hand()) != 5 {
		t.Fatalf("hands must stay at 5")
	}
}

func poolIDs(p *Player) []int {
	return cardIDs(append(p.Hand(), p.DeckCards()...))
}

func TestPlayConservesCardsUntilWin(t *testing.T) {
	r := newTestRegistry(t, 7)
	g, err := r.StartDuel(alice, bob)
	if err != nil {
		t.Fatalf("StartDuel: %v", err)
	}
	starter := cardIDs(DefaultStarter())
	pick := rand.New(rand.NewSource(3))
	for turn := 0; turn < 500; turn++ {
		var last MoveResult
		for _, id := range []string{"u1", "u2"} {
			res, err := r.Play(id, pick.Intn(HandSize))
			if err != nil {
				t.Fatalf("turn %d Play(%s): %v", turn, id, err)
			}
			last = res
		}
		if last.Turn == nil {
			t.Fatalf("second move must score the turn")
		}
		for _, p := range g.Players() {
			if fmt.Sprint(poolIDs(p)) != fmt.Sprint(starter) {
				t.Fatalf("turn %d: %s card pool %v != starter %v", turn, p.Identity().ID, poolIDs(p), starter)
			}
			if p.HasMoved() {
				t.Fatalf("moves must be cleared after scoring")
			}
		}
		if last.Winner != nil {
			if last.WinKind == WinNone {
				t.Fatalf("winner without a kind")
			}
			r.EndDuel(g)
			return
		}
	}
	t.Fatalf("no winner after 500 turns")
}

func TestConcurrentStartDuelSingleRegistration(t *testing.T) {
	r := newTestRegistry(t, 1)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var started []string
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			other := Identity{ID: fmt.Sprintf("o%d", i)}
			if _, err := r.StartDuel(alice, other); err == nil {
				mu.Lock()
				started = append(started, other.ID)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if len(started) != 1 {
		sort.Strings(started)
		t.Fatalf("exactly one duel should start, got %s", strings.Join(started, ","))
	}
	if len(r.Games()) != 1 {
		t.Fatalf("games = %d", len(r.Games()))
	}
}

func TestNewRegistryRejectsBadStarter(t *testing.T) {
	if _, err := NewRegistry(DefaultStarter()[:4]); err == nil {
		t.Fatalf("expected error for short starter")
	}
	bad := DefaultStarter()
	bad[1].ID = bad[0].ID
	if _, err := NewRegistry(bad); !errors.Is(err, ErrInvalidCard) {
		t.Fatalf("expected ErrInvalidCard for duplicate ids, got %v", err)
	}
}
