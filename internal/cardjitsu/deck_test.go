package cardjitsu

import (
	"errors"
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func cardIDs(cards []Card) []int {
	ids := make([]int, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	sort.Ints(ids)
	return ids
}

func TestDeckShuffleDeterministic(t *testing.T) {
	a := NewDeck(DefaultStarter(), rand.New(rand.NewSource(42)))
	b := NewDeck(DefaultStarter(), rand.New(rand.NewSource(42)))
	if !reflect.DeepEqual(a.Shuffle(), b.Shuffle()) {
		t.Fatalf("same seed should give the same order")
	}
	if !reflect.DeepEqual(cardIDs(a.Cards()), cardIDs(DefaultStarter())) {
		t.Fatalf("shuffle must keep the same cards")
	}
}

func TestDeckCopiesInput(t *testing.T) {
	starter := DefaultStarter()
	d := NewDeck(starter, rand.New(rand.NewSource(1)))
	d.Shuffle()
	if starter[0].ID != 1 {
		t.Fatalf("shuffling a deck must not reorder the starter slice")
	}
}

func TestDeckDrawAndReturn(t *testing.T) {
	d := NewDeck(DefaultStarter(), rand.New(rand.NewSource(1)))
	before := d.Cards()
	got, err := d.Draw(3)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if !reflect.DeepEqual(got, before[:3]) {
		t.Fatalf("Draw should take from the top: got %v", got)
	}
	if !reflect.DeepEqual(d.Cards(), before[3:]) {
		t.Fatalf("remaining order changed")
	}
	d.Return(got[0])
	cards := d.Cards()
	if cards[len(cards)-1] != got[0] || d.Len() != 8 {
		t.Fatalf("Return should append to the bottom")
	}
}

func TestDeckDrawInsufficient(t *testing.T) {
	d := NewDeck(DefaultStarter()[:2], rand.New(rand.NewSource(1)))
	if _, err := d.Draw(3); !errors.Is(err, ErrInsufficientCards) {
		t.Fatalf("expected ErrInsufficientCards, got %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("failed draw must not remove cards, len=%d", d.Len())
	}
	if got, err := d.Draw(0); err != nil || len(got) != 0 {
		t.Fatalf("Draw(0) = %v, %v", got, err)
	}
	if _, err := d.Draw(-1); err == nil {
		t.Fatalf("expected error for negative draw")
	}
}
