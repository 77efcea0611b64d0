package cardjitsu

import (
	"fmt"
	"math/rand"
	"time"
)

// Deck is a player's private draw pile. Played cards come back to the bottom.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck copies cards so that decks built from the same starter set never share storage.
// A nil rng falls back to a time-seeded source.
func NewDeck(cards []Card, rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Deck{cards: append([]Card(nil), cards...), rng: rng}
}

func (d *Deck) Len() int { return len(d.cards) }

// Cards returns a copy of the current order, top first.
func (d *Deck) Cards() []Card { return append([]Card(nil), d.cards...) }

// Shuffle randomizes the order in place and returns the new order.
func (d *Deck) Shuffle() []Card {
	d.rng.Shuffle(len(d.cards), func(i, j int) { d.cards[i], d.cards[j] = d.cards[j], d.cards[i] })
	return d.Cards()
}

// Draw removes the top n cards. Asking for more than remain fails without touching the deck.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("draw %d: negative count", n)
	}
	if n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, len(d.cards))
	}
	out := append([]Card(nil), d.cards[:n]...)
	d.cards = append(d.cards[:0:0], d.cards[n:]...)
	return out, nil
}

// Return puts a card on the bottom of the deck.
func (d *Deck) Return(c Card) {
	d.cards = append(d.cards, c)
}
