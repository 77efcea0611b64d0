package cardjitsu

// WinKind names the victory condition a score pile satisfies.
type WinKind string

const (
	WinNone WinKind = ""
	// WinElementSweep: one element held in every color.
	WinElementSweep WinKind = "element_sweep"
	// WinColorSpread: enough distinct color groupings across all elements.
	WinColorSpread WinKind = "color_spread"
)

// CheckPile evaluates a score pile on its own. The sweep is checked first.
//
// The spread rule is min(distinct element sets over colors, distinct elements) >= len(Elements):
// group the pile by color, take the set of elements seen for each color, and count how many
// different sets there are.
func CheckPile(pile []Card) WinKind {
	if len(pile) == 0 {
		return WinNone
	}
	colorsByElement := make(map[Element]map[Color]struct{})
	elementsByColor := make(map[Color]uint)
	for _, c := range pile {
		set, ok := colorsByElement[c.Element]
		if !ok {
			set = make(map[Color]struct{})
			colorsByElement[c.Element] = set
		}
		set[c.Color] = struct{}{}
		elementsByColor[c.Color] |= 1 << uint(c.Element)
	}

	for _, colors := range colorsByElement {
		if len(colors) >= len(Colors) {
			return WinElementSweep
		}
	}

	distinctSets := make(map[uint]struct{}, len(elementsByColor))
	for _, mask := range elementsByColor {
		distinctSets[mask] = struct{}{}
	}
	if min(len(distinctSets), len(colorsByElement)) >= len(Elements) {
		return WinColorSpread
	}
	return WinNone
}
