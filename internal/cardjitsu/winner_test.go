package cardjitsu

import "testing"

func pile(cards ...Card) []Card { return cards }

func c(e Element, col Color, v int) Card { return Card{Element: e, Color: col, Value: v} }

func TestCheckPile(t *testing.T) {
	tests := []struct {
		name string
		pile []Card
		want WinKind
	}{
		{name: "empty", pile: nil, want: WinNone},
		{
			name: "fire in all six colors",
			pile: pile(c(Fire, Red, 1), c(Fire, Blue, 2), c(Fire, Green, 3), c(Fire, Yellow, 4), c(Fire, Orange, 5), c(Fire, Purple, 6)),
			want: WinElementSweep,
		},
		{
			name: "fire in five colors",
			pile: pile(c(Fire, Red, 1), c(Fire, Blue, 2), c(Fire, Green, 3), c(Fire, Yellow, 4), c(Fire, Orange, 5)),
			want: WinNone,
		},
		{
			name: "sweep with duplicates and noise",
			pile: pile(c(Water, Red, 1), c(Water, Red, 9), c(Water, Blue, 2), c(Water, Green, 3), c(Water, Yellow, 4), c(Water, Orange, 5), c(Water, Purple, 6), c(Snow, Red, 2)),
			want: WinElementSweep,
		},
		{
			name: "three elements three colors",
			pile: pile(c(Fire, Red, 3), c(Water, Blue, 2), c(Snow, Green, 6)),
			want: WinColorSpread,
		},
		{
			name: "three elements one color",
			pile: pile(c(Fire, Red, 3), c(Water, Red, 2), c(Snow, Red, 6)),
			want: WinNone,
		},
		{
			name: "three elements two color groups",
			pile: pile(c(Fire, Red, 3), c(Water, Blue, 2), c(Snow, Blue, 6)),
			want: WinNone,
		},
		{
			name: "three groupings but two elements",
			pile: pile(c(Fire, Red, 3), c(Water, Blue, 2), c(Fire, Green, 6), c(Water, Green, 4)),
			want: WinNone,
		},
		{
			name: "repeated singleton groups collapse",
			pile: pile(c(Fire, Red, 3), c(Fire, Blue, 4), c(Water, Green, 2), c(Snow, Yellow, 5)),
			want: WinColorSpread,
		},
		{
			name: "mixed groups still distinct",
			pile: pile(c(Fire, Red, 3), c(Water, Red, 4), c(Water, Blue, 2), c(Snow, Green, 5)),
			want: WinColorSpread,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPile(tt.pile); got != tt.want {
				t.Fatalf("CheckPile() = %q, want %q", got, tt.want)
			}
		})
	}
}
