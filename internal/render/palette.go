package render

import (
	"fmt"
	"image/color"
	"math/rand/v2"
)

var (
	colorBlack = color.RGBA{A: 255}
	colorWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Palette hands out random opaque colors from a seeded source.
type Palette struct {
	rng *rand.Rand
}

// NewPalette returns a palette whose sequence is fixed by seed.
func NewPalette(seed uint64) *Palette {
	return &Palette{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Next returns the next color.
func (p *Palette) Next() color.RGBA {
	v := p.rng.Uint32()
	return color.RGBA{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: 255}
}

// IsLight reports whether dark text reads better than light text on c.
func IsLight(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	brightness := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 0xffff
	return brightness > 0.5
}

// TextColor picks black or white to contrast with the fill.
func TextColor(fill color.Color) color.RGBA {
	if IsLight(fill) {
		return colorBlack
	}
	return colorWhite
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
