package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
)

// HandView is everything drawn for one player.
type HandView struct {
	Title         string
	Hand          []cardjitsu.Card
	Score         []cardjitsu.Card
	OpponentScore []cardjitsu.Card
	Footer        string
}

type HandRenderer interface {
	RenderHand(ctx context.Context, view HandView) ([]byte, error)
}

type pngRenderer struct{}

func NewPNGRenderer() HandRenderer { return pngRenderer{} }

const (
	cardW       = 120
	cardH       = 168
	cardGap     = 14
	margin      = 24
	titleH      = 40
	chipW       = 34
	chipH       = 44
	chipGap     = 6
	sectionGap  = 18
	labelH      = 18
	panelRadius = 10
	glyphSize   = 64
)

var (
	backgroundColor = color.RGBA{R: 0x1b, G: 0x23, B: 0x33, A: 0xff}
	panelColor      = color.RGBA{R: 0x2b, G: 0x36, B: 0x4d, A: 0xff}
	cardFaceColor   = color.RGBA{R: 0xfa, G: 0xf6, B: 0xec, A: 0xff}
	textLight       = color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
	textDark        = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}

	colorFills = map[cardjitsu.Color]color.RGBA{
		cardjitsu.Red:    {R: 0xd6, G: 0x2d, B: 0x2d, A: 0xff},
		cardjitsu.Blue:   {R: 0x2d, G: 0x5b, B: 0xd6, A: 0xff},
		cardjitsu.Green:  {R: 0x2f, G: 0xa8, B: 0x4f, A: 0xff},
		cardjitsu.Yellow: {R: 0xe8, G: 0xc5, B: 0x1e, A: 0xff},
		cardjitsu.Orange: {R: 0xee, G: 0x84, B: 0x1d, A: 0xff},
		cardjitsu.Purple: {R: 0x8a, G: 0x3f, B: 0xc7, A: 0xff},
	}
)

// RenderHand draws numbered hand cards and both score piles as PNG.
func (pngRenderer) RenderHand(ctx context.Context, view HandView) ([]byte, error) {
	if len(view.Hand) == 0 {
		return nil, fmt.Errorf("hand is empty")
	}
	slots := len(view.Hand)
	if slots < cardjitsu.HandSize {
		slots = cardjitsu.HandSize
	}
	width := margin*2 + slots*cardW + (slots-1)*cardGap
	perRow := (width - margin*2 + chipGap) / (chipW + chipGap)
	pileH := func(n int) int {
		rows := (n + perRow - 1) / perRow
		if rows == 0 {
			rows = 1
		}
		return labelH + rows*chipH + (rows-1)*chipGap
	}
	height := margin + titleH + sectionGap + cardH + sectionGap + pileH(len(view.Score)) + sectionGap + pileH(len(view.OpponentScore)) + margin
	if strings.TrimSpace(view.Footer) != "" {
		height += labelH + chipGap
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)
	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}

	y := margin
	titleRect := image.Rect(margin, y, width-margin, y+titleH)
	drawRoundedPanel(img, titleRect, panelRadius, panelColor)
	drawCenteredString(drawer, titleRect, asciiLabel(view.Title, "CARD-JITSU"), textLight)
	y += titleH + sectionGap

	for i, c := range view.Hand {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		x := margin + i*(cardW+cardGap)
		if err := drawCard(img, drawer, image.Rect(x, y, x+cardW, y+cardH), c, i+1); err != nil {
			return nil, err
		}
	}
	y += cardH + sectionGap

	y = drawPile(img, drawer, "YOUR SCORE", view.Score, y, width, perRow)
	y += sectionGap
	y = drawPile(img, drawer, "OPPONENT SCORE", view.OpponentScore, y, width, perRow)

	if footer := asciiLabel(view.Footer, ""); footer != "" {
		y += chipGap
		drawer.Src = image.NewUniform(textLight)
		drawer.Dot = fixed.P(margin, y+labelH-4)
		drawer.DrawString(footer)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode hand png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCard(img *image.RGBA, drawer *font.Drawer, rect image.Rectangle, c cardjitsu.Card, slot int) error {
	fill, ok := colorFills[c.Color]
	if !ok {
		return fmt.Errorf("no fill for color %s", c.Color)
	}
	drawRoundedPanel(img, rect, panelRadius, fill)
	face := image.Rect(rect.Min.X+8, rect.Min.Y+8, rect.Max.X-8, rect.Max.Y-8)
	drawRoundedPanel(img, face, panelRadius-4, cardFaceColor)

	glyph, err := renderGlyph(c.Element, glyphSize)
	if err != nil {
		return err
	}
	gx := face.Min.X + (face.Dx()-glyphSize)/2
	gy := face.Min.Y + 26
	imagedraw.Draw(img, image.Rect(gx, gy, gx+glyphSize, gy+glyphSize), glyph, image.Point{}, imagedraw.Over)

	// slot number top-left, value bottom
	drawer.Src = image.NewUniform(textDark)
	drawer.Dot = fixed.P(face.Min.X+6, face.Min.Y+15)
	drawer.DrawString(strconv.Itoa(slot))

	valueRect := image.Rect(face.Min.X, gy+glyphSize+4, face.Max.X, face.Max.Y-18)
	drawCenteredString(drawer, valueRect, strconv.Itoa(c.Value), textDark)
	nameRect := image.Rect(face.Min.X, face.Max.Y-20, face.Max.X, face.Max.Y-2)
	drawCenteredString(drawer, nameRect, strings.ToUpper(c.Element.String()), textDark)
	return nil
}

// drawPile returns the y coordinate just below the pile.
func drawPile(img *image.RGBA, drawer *font.Drawer, label string, pile []cardjitsu.Card, y, width, perRow int) int {
	drawer.Src = image.NewUniform(textLight)
	drawer.Dot = fixed.P(margin, y+labelH-5)
	drawer.DrawString(fmt.Sprintf("%s (%d)", label, len(pile)))
	y += labelH
	if len(pile) == 0 {
		return y + chipH
	}
	for i, c := range pile {
		row, col := i/perRow, i%perRow
		x := margin + col*(chipW+chipGap)
		cy := y + row*(chipH+chipGap)
		chip := image.Rect(x, cy, x+chipW, cy+chipH)
		drawRoundedPanel(img, chip, 6, colorFills[c.Color])
		inner := image.Rect(chip.Min.X+4, chip.Min.Y+4, chip.Max.X-4, chip.Max.Y-4)
		drawRoundedPanel(img, inner, 4, cardFaceColor)
		drawCenteredString(drawer, image.Rect(inner.Min.X, inner.Min.Y, inner.Max.X, inner.Min.Y+inner.Dy()/2), strings.ToUpper(c.Element.String()[:1]), textDark)
		drawCenteredString(drawer, image.Rect(inner.Min.X, inner.Min.Y+inner.Dy()/2, inner.Max.X, inner.Max.Y), strconv.Itoa(c.Value), textDark)
	}
	rows := (len(pile) + perRow - 1) / perRow
	return y + rows*chipH + (rows-1)*chipGap
}

// asciiLabel keeps printable ASCII only; the bitmap face has no other glyphs.
func asciiLabel(s, fallback string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r >= 0x20 && r < 0x7f {
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return fallback
	}
	return out
}
