package cardjitsu

import (
	"fmt"
	"strings"
)

// HandSize is the number of cards a player can choose from each turn.
const HandSize = 5

// Identity is the chat-side user a player is bound to. Only ID takes part in equality.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (i Identity) DisplayName() string {
	if n := strings.TrimSpace(i.Name); n != "" {
		return n
	}
	return i.ID
}

// Player is the per-duel state of one side.
type Player struct {
	identity Identity
	deck     *Deck
	hand     []Card
	move     *Card
	score    []Card
}

func newPlayer(id Identity, deck *Deck) *Player {
	return &Player{identity: id, deck: deck}
}

// deal shuffles the deck and fills the hand.
func (p *Player) deal() error {
	p.deck.Shuffle()
	cards, err := p.deck.Draw(HandSize)
	if err != nil {
		return fmt.Errorf("deal %s: %w", p.identity.ID, err)
	}
	p.hand = cards
	return nil
}

func (p *Player) Identity() Identity { return p.identity }

func (p *Player) Hand() []Card { return append([]Card(nil), p.hand...) }

// Score returns the cards won so far, oldest first.
func (p *Player) Score() []Card { return append([]Card(nil), p.score...) }

func (p *Player) DeckCards() []Card { return p.deck.Cards() }

// Move returns the pending move, if any.
func (p *Player) Move() (Card, bool) {
	if p.move == nil {
		return Card{}, false
	}
	return *p.move, true
}

func (p *Player) HasMoved() bool { return p.move != nil }

// MakeMove picks hand[index] as this turn's card. The card goes back to the bottom of the
// deck and the top card is drawn in its place, so the hand stays at HandSize.
func (p *Player) MakeMove(index int) (Card, error) {
	if p.move != nil {
		return Card{}, ErrAlreadyMoved
	}
	if index < 0 || index >= len(p.hand) {
		return Card{}, fmt.Errorf("%w: %d (hand has %d)", ErrInvalidHandIndex, index, len(p.hand))
	}
	card := p.hand[index]
	p.deck.Return(card)
	drawn, err := p.deck.Draw(1)
	if err != nil {
		return Card{}, err
	}
	hand := make([]Card, 0, len(p.hand))
	hand = append(hand, p.hand[:index]...)
	hand = append(hand, p.hand[index+1:]...)
	p.hand = append(hand, drawn...)
	p.move = &card
	return card, nil
}

func (p *Player) Equal(other *Player) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.identity.ID == other.identity.ID
}

func (p *Player) clearMove() { p.move = nil }

func (p *Player) award(c Card) { p.score = append(p.score, c) }
