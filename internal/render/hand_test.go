package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
)

func TestRenderHandProducesPNG(t *testing.T) {
	starter := cardjitsu.DefaultStarter()
	view := HandView{
		Title:         "Alice vs Bob",
		Hand:          starter[:5],
		Score:         starter[5:8],
		OpponentScore: starter[8:],
		Footer:        "turn 3",
	}
	raw, err := NewPNGRenderer().RenderHand(context.Background(), view)
	if err != nil {
		t.Fatalf("RenderHand: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	wantW := margin*2 + 5*cardW + 4*cardGap
	if img.Bounds().Dx() != wantW {
		t.Fatalf("width = %d, want %d", img.Bounds().Dx(), wantW)
	}
	// first card border carries its color fill
	x, y := margin+cardW/2, margin+titleH+sectionGap+2
	r, g, b, _ := img.At(x, y).RGBA()
	want := colorFills[starter[0].Color]
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Fatalf("card border at (%d,%d) = %v,%v,%v, want %v", x, y, r>>8, g>>8, b>>8, want)
	}
}

func TestRenderHandRejectsEmptyHand(t *testing.T) {
	if _, err := NewPNGRenderer().RenderHand(context.Background(), HandView{}); err == nil {
		t.Fatalf("expected error for empty hand")
	}
}

func TestRenderGlyphCached(t *testing.T) {
	for _, e := range cardjitsu.Elements {
		a, err := renderGlyph(e, 32)
		if err != nil {
			t.Fatalf("renderGlyph(%s): %v", e, err)
		}
		b, _ := renderGlyph(e, 32)
		if a != b {
			t.Fatalf("glyph for %s not cached", e)
		}
	}
}

func TestASCIILabel(t *testing.T) {
	if got := asciiLabel("카드 vs Bob", "X"); got != "vs Bob" {
		t.Fatalf("asciiLabel = %q", got)
	}
	if got := asciiLabel("카드", "X"); got != "X" {
		t.Fatalf("fallback not used: %q", got)
	}
}
