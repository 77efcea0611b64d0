package cardjitsu

import (
	"fmt"
	"strings"
)

// Element is the rock-paper-scissors axis of a card.
type Element int

// Order matters: each element beats the one declared before it (cyclically).
const (
	Water Element = iota
	Snow
	Fire
)

// Elements lists every element in declaration order.
var Elements = []Element{Water, Snow, Fire}

var elementNames = map[Element]string{
	Water: "water",
	Snow:  "snow",
	Fire:  "fire",
}

func (e Element) String() string {
	if n, ok := elementNames[e]; ok {
		return n
	}
	return fmt.Sprintf("element(%d)", int(e))
}

// Valid reports whether e is one of the declared elements.
func (e Element) Valid() bool {
	_, ok := elementNames[e]
	return ok
}

// Beats reports whether e dominates other: fire > snow > water > fire.
func (e Element) Beats(other Element) bool {
	n := len(Elements)
	return (int(e)-1+n)%n == int(other)
}

// ParseElement accepts the English name or the first letter.
func ParseElement(s string) (Element, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for e, name := range elementNames {
		if v == name || (len(v) == 1 && v[0] == name[0]) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown element %q", s)
}

func (e Element) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid element %d", int(e))
	}
	return []byte(e.String()), nil
}

func (e *Element) UnmarshalText(b []byte) error {
	v, err := ParseElement(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
