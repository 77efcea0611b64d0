package cardjitsu

import (
	"fmt"
	"strings"
)

// Color only matters for win detection; the declared order is a plain tiebreak.
type Color int

const (
	Red Color = iota
	Blue
	Green
	Yellow
	Orange
	Purple
)

// Colors lists every color in order.
var Colors = []Color{Red, Blue, Green, Yellow, Orange, Purple}

var colorNames = map[Color]string{
	Red:    "red",
	Blue:   "blue",
	Green:  "green",
	Yellow: "yellow",
	Orange: "orange",
	Purple: "purple",
}

func (c Color) String() string {
	if n, ok := colorNames[c]; ok {
		return n
	}
	return fmt.Sprintf("color(%d)", int(c))
}

func (c Color) Valid() bool {
	_, ok := colorNames[c]
	return ok
}

// Less orders colors by declaration.
func (c Color) Less(other Color) bool { return c < other }

func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for c, name := range colorNames {
		if v == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
