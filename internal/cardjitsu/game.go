package cardjitsu

import (
	"fmt"
	"math/rand"
)

// State is the turn lifecycle of a Game.
type State string

const (
	StateAwaitingMoves State = "awaiting_moves"
	StateTurnReady     State = "turn_ready"
	StateConcluded     State = "concluded"
)

// TurnResult describes one scored turn.
type TurnResult struct {
	Turn   int
	Moves  [2]Card
	Tie    bool
	Winner int  // index into Players(); -1 on a tie
	Won    Card // card added to the winner's score pile
}

// Game is a two-player duel. It holds no lock; callers serialize access (see Registry).
type Game struct {
	id      string
	players [2]*Player
	turns   []TurnResult
}

// NewGame deals both players from independent copies of starter.
func NewGame(id string, a, b Identity, starter []Card, rng *rand.Rand) (*Game, error) {
	if a.ID == "" || b.ID == "" {
		return nil, fmt.Errorf("new game: empty player id")
	}
	if a.ID == b.ID {
		return nil, ErrSelfDuel
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	g := &Game{id: id}
	for i, ident := range []Identity{a, b} {
		deck := NewDeck(starter, rand.New(rand.NewSource(rng.Int63())))
		p := newPlayer(ident, deck)
		if err := p.deal(); err != nil {
			return nil, err
		}
		g.players[i] = p
	}
	return g, nil
}

func (g *Game) ID() string { return g.id }

// Players returns both players in seat order.
func (g *Game) Players() [2]*Player { return g.players }

// Player finds the side bound to a user id.
func (g *Game) Player(userID string) (*Player, bool) {
	for _, p := range g.players {
		if p.identity.ID == userID {
			return p, true
		}
	}
	return nil, false
}

func (g *Game) Opponent(userID string) (*Player, bool) {
	switch userID {
	case g.players[0].identity.ID:
		return g.players[1], true
	case g.players[1].identity.ID:
		return g.players[0], true
	}
	return nil, false
}

// TurnsPlayed counts scored turns, ties included.
func (g *Game) TurnsPlayed() int { return len(g.turns) }

func (g *Game) History() []TurnResult { return append([]TurnResult(nil), g.turns...) }

// IsTurnOver is true once both players hold a pending move.
func (g *Game) IsTurnOver() bool {
	moved := 0
	for _, p := range g.players {
		if p.HasMoved() {
			moved++
		}
	}
	return moved > 1
}

// ScoreTurn compares the pending moves, awards the higher card to its owner and clears
// both moves. Ties award nothing.
func (g *Game) ScoreTurn() (TurnResult, error) {
	if !g.IsTurnOver() {
		return TurnResult{}, ErrTurnNotReady
	}
	p1, p2 := g.players[0], g.players[1]
	m1, m2 := *p1.move, *p2.move
	res := TurnResult{Turn: len(g.turns) + 1, Moves: [2]Card{m1, m2}, Winner: -1}
	switch {
	case m1.Equals(m2):
		res.Tie = true
	case m1.Beats(m2):
		res.Winner, res.Won = 0, m1
		p1.award(m1)
	default:
		res.Winner, res.Won = 1, m2
		p2.award(m2)
	}
	p1.clearMove()
	p2.clearMove()
	g.turns = append(g.turns, res)
	return res, nil
}

// Winner checks players in seat order and returns the first whose pile wins.
func (g *Game) Winner() (*Player, WinKind) {
	for _, p := range g.players {
		if kind := CheckPile(p.score); kind != WinNone {
			return p, kind
		}
	}
	return nil, WinNone
}

func (g *Game) IsOver() bool {
	p, _ := g.Winner()
	return p != nil
}

func (g *Game) State() State {
	switch {
	case g.IsOver():
		return StateConcluded
	case g.IsTurnOver():
		return StateTurnReady
	default:
		return StateAwaitingMoves
	}
}
