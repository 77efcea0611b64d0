package cardjitsu

import (
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"
)

// DefaultStarter is the ten-card set every new player's deck is copied from.
func DefaultStarter() []Card {
	return []Card{
		{ID: 1, Element: Fire, Color: Red, Value: 3},
		{ID: 2, Element: Water, Color: Blue, Value: 2},
		{ID: 3, Element: Snow, Color: Purple, Value: 4},
		{ID: 4, Element: Fire, Color: Orange, Value: 5},
		{ID: 5, Element: Water, Color: Green, Value: 4},
		{ID: 6, Element: Snow, Color: Yellow, Value: 3},
		{ID: 7, Element: Fire, Color: Blue, Value: 6},
		{ID: 8, Element: Water, Color: Red, Value: 5},
		{ID: 9, Element: Snow, Color: Green, Value: 6},
		{ID: 10, Element: Water, Color: Purple, Value: 3},
	}
}

type starterFile struct {
	Cards []Card `yaml:"cards"`
}

// LoadStarter reads a YAML document of the form `cards: [{id, element, color, value}, ...]`.
func LoadStarter(r io.Reader) ([]Card, error) {
	var f starterFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode starter deck: %w", err)
	}
	if err := ValidateStarter(f.Cards); err != nil {
		return nil, err
	}
	return f.Cards, nil
}

// ValidateStarter requires a full hand's worth of valid cards with unique ids.
func ValidateStarter(cards []Card) error {
	if len(cards) < HandSize {
		return fmt.Errorf("starter deck has %d cards, need at least %d", len(cards), HandSize)
	}
	seen := make(map[int]struct{}, len(cards))
	for _, c := range cards {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate card id %d", ErrInvalidCard, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
