package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
)

// Element glyphs on a 100x100 view box.
var elementPaths = map[cardjitsu.Element]string{
	cardjitsu.Water: `<path d="M50 8 C50 8 18 48 18 66 C18 84 32 94 50 94 C68 94 82 84 82 66 C82 48 50 8 50 8 Z" fill="#1e63c9" stroke="#0b2e63" stroke-width="4"/>
<path d="M34 66 C34 76 40 82 48 84" fill="none" stroke="#ffffff" stroke-width="5"/>`,
	cardjitsu.Snow: `<path d="M46 6 L54 6 L54 94 L46 94 Z" fill="#dff3ff" stroke="#4b7ea8" stroke-width="3"/>
<path d="M9 28 L13 21 L91 72 L87 79 Z" fill="#dff3ff" stroke="#4b7ea8" stroke-width="3"/>
<path d="M87 21 L91 28 L13 79 L9 72 Z" fill="#dff3ff" stroke="#4b7ea8" stroke-width="3"/>
<circle cx="50" cy="50" r="12" fill="#ffffff" stroke="#4b7ea8" stroke-width="3"/>`,
	cardjitsu.Fire: `<path d="M50 6 C62 30 84 42 80 66 C77 84 64 94 50 94 C36 94 23 84 20 66 C17 48 32 40 36 22 C42 34 46 38 50 42 C54 30 54 18 50 6 Z" fill="#f05a16" stroke="#7a1f00" stroke-width="4"/>
<path d="M50 54 C58 62 64 70 60 80 C58 86 54 88 50 88 C46 88 42 86 40 80 C38 72 44 64 50 54 Z" fill="#ffd23f"/>`,
}

type glyphKey struct {
	element cardjitsu.Element
	size    int
}

var (
	glyphCache   = map[glyphKey]image.Image{}
	glyphCacheMu sync.RWMutex
)

func renderGlyph(e cardjitsu.Element, size int) (image.Image, error) {
	key := glyphKey{element: e, size: size}
	glyphCacheMu.RLock()
	if img, ok := glyphCache[key]; ok {
		glyphCacheMu.RUnlock()
		return img, nil
	}
	glyphCacheMu.RUnlock()

	body, ok := elementPaths[e]
	if !ok {
		return nil, fmt.Errorf("no glyph for element %s", e)
	}
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" width="100" height="100">%s</svg>`, body)
	icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(svg)))
	if err != nil {
		return nil, fmt.Errorf("parse %s glyph: %w", e, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	glyphCacheMu.Lock()
	glyphCache[key] = img
	glyphCacheMu.Unlock()
	return img, nil
}
