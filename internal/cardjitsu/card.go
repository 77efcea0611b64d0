package cardjitsu

import "fmt"

const (
	MinValue = 1
	MaxValue = 10
)

// Card is an immutable value. Identity and color take no part in ranking.
type Card struct {
	ID      int     `json:"id" yaml:"id"`
	Element Element `json:"element" yaml:"element"`
	Color   Color   `json:"color" yaml:"color"`
	Value   int     `json:"value" yaml:"value"`
}

func NewCard(id int, element Element, color Color, value int) (Card, error) {
	c := Card{ID: id, Element: element, Color: color, Value: value}
	if err := c.Validate(); err != nil {
		return Card{}, err
	}
	return c, nil
}

func (c Card) Validate() error {
	if !c.Element.Valid() {
		return fmt.Errorf("%w: card %d has unknown element", ErrInvalidCard, c.ID)
	}
	if !c.Color.Valid() {
		return fmt.Errorf("%w: card %d has unknown color", ErrInvalidCard, c.ID)
	}
	if c.Value < MinValue || c.Value > MaxValue {
		return fmt.Errorf("%w: card %d value %d outside %d..%d", ErrInvalidCard, c.ID, c.Value, MinValue, MaxValue)
	}
	return nil
}

// Beats reports whether c outranks other: element first, value within an element.
func (c Card) Beats(other Card) bool {
	if c.Element != other.Element {
		return c.Element.Beats(other.Element)
	}
	return c.Value > other.Value
}

// Equals is a rank tie: same element and value.
func (c Card) Equals(other Card) bool {
	return c.Element == other.Element && c.Value == other.Value
}

func (c Card) String() string {
	return fmt.Sprintf("%s %s %d", c.Color, c.Element, c.Value)
}
