package cardjitsu

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry maps users to the duel they are playing. Every method is safe for concurrent
// use; moves for all games are applied under the registry lock.
type Registry struct {
	mu      sync.Mutex
	games   map[string]*Game // user id -> game
	starter []Card
	rng     *rand.Rand
	newID   func() string
}

type Option func(*Registry)

// WithRand seeds every deck shuffle from r. Tests pass a fixed seed.
func WithRand(r *rand.Rand) Option {
	return func(reg *Registry) { reg.rng = r }
}

func WithIDGenerator(f func() string) Option {
	return func(reg *Registry) { reg.newID = f }
}

// NewRegistry validates the starter set every player's deck is copied from.
func NewRegistry(starter []Card, opts ...Option) (*Registry, error) {
	if err := ValidateStarter(starter); err != nil {
		return nil, err
	}
	r := &Registry{
		games:   make(map[string]*Game),
		starter: append([]Card(nil), starter...),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return r, nil
}

// Starter returns a copy of the starter set.
func (r *Registry) Starter() []Card { return append([]Card(nil), r.starter...) }

// StartDuel creates and registers a game for a and b.
func (r *Registry) StartDuel(a, b Identity) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range []string{a.ID, b.ID} {
		if _, busy := r.games[id]; busy {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyInGame, id)
		}
	}
	g, err := NewGame(r.newID(), a, b, r.starter, r.rng)
	if err != nil {
		return nil, err
	}
	r.games[a.ID] = g
	r.games[b.ID] = g
	return g, nil
}

// SubmitMove forwards a hand index to the user's player.
func (r *Registry) SubmitMove(userID string, handIndex int) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, p, err := r.lookup(userID)
	if err != nil {
		return nil, err
	}
	if _, err := p.MakeMove(handIndex); err != nil {
		return nil, err
	}
	return g, nil
}

// MoveResult is what Play observed while holding the lock.
type MoveResult struct {
	Game    *Game
	Played  Card
	Turn    *TurnResult // set when this move completed the turn
	Winner  *Player
	WinKind WinKind
}

// Play submits a move and, when it completes the turn, scores it and checks for a winner
// in the same critical section. The game stays registered; call EndDuel once it is over.
func (r *Registry) Play(userID string, handIndex int) (MoveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, p, err := r.lookup(userID)
	if err != nil {
		return MoveResult{}, err
	}
	card, err := p.MakeMove(handIndex)
	if err != nil {
		return MoveResult{}, err
	}
	res := MoveResult{Game: g, Played: card}
	if !g.IsTurnOver() {
		return res, nil
	}
	turn, err := g.ScoreTurn()
	if err != nil {
		return res, err
	}
	res.Turn = &turn
	res.Winner, res.WinKind = g.Winner()
	return res, nil
}

// View runs fn while holding the lock so reads do not race with moves.
func (r *Registry) View(userID string, fn func(g *Game, p *Player)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, p, err := r.lookup(userID)
	if err != nil {
		return err
	}
	fn(g, p)
	return nil
}

// EndDuel unregisters both players of g. Unknown games are ignored.
func (r *Registry) EndDuel(g *Game) {
	if g == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range g.players {
		if cur, ok := r.games[p.identity.ID]; ok && cur == g {
			delete(r.games, p.identity.ID)
		}
	}
}

func (r *Registry) GameOf(userID string) (*Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[userID]
	return g, ok
}

// Games lists each active game once.
func (r *Registry) Games() []*Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[*Game]struct{}, len(r.games)/2)
	out := make([]*Game, 0, len(r.games)/2)
	for _, g := range r.games {
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

func (r *Registry) lookup(userID string) (*Game, *Player, error) {
	g, ok := r.games[userID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotInGame, userID)
	}
	p, ok := g.Player(userID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotInGame, userID)
	}
	return g, p, nil
}
