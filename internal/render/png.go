package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/eugenenazirov/chat-bubbles/internal/chat"
	"github.com/eugenenazirov/chat-bubbles/internal/packer"
)

// minFontSize is the smallest label, in supersampled pixels, worth drawing.
const minFontSize = 4.0

var (
	regularOnce sync.Once
	regular     *opentype.Font
	regularErr  error
)

func regularFont() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// canvas is a supersampled drawing surface in container coordinates.
type canvas struct {
	img    *image.RGBA
	origin packer.Point
	scale  float64
	font   *opentype.Font
}

// BubblePNG rasterizes result at one pixel per container unit and writes it as PNG.
// The layout is drawn at Supersample times the size and scaled down.
func BubblePNG(w io.Writer, result packer.Result, bounds packer.Bounds, opts ...Option) error {
	o := newOptions(opts)
	width := int(math.Ceil(bounds.Width()))
	height := int(math.Ceil(bounds.Height()))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render bubbles: %w", packer.ErrInvalidBounds)
	}

	fnt, err := regularFont()
	if err != nil {
		return fmt.Errorf("render bubbles: parse font: %w", err)
	}

	scale := o.Supersample
	large := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	draw.Draw(large, large.Bounds(), image.NewUniform(o.Background), image.Point{}, draw.Src)

	cv := &canvas{
		img:    large,
		origin: packer.Point{X: bounds.MinX, Y: bounds.MinY},
		scale:  float64(scale),
		font:   fnt,
	}

	palette := NewPalette(o.Seed)
	for _, c := range result.Circles {
		fill := palette.Next()
		if c.Radius <= 0 {
			continue
		}
		cv.fillCircle(c.Position, c.Radius, fill)
		if err := cv.drawLabel(c, chat.Truncate(c.Label, o.LabelLength), TextColor(fill)); err != nil {
			return fmt.Errorf("render bubbles: %w", err)
		}
	}

	final := large
	if scale > 1 {
		final = image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	}
	return png.Encode(w, final)
}

func (cv *canvas) toPixel(p packer.Point) (float64, float64) {
	return (p.X - cv.origin.X) * cv.scale, (p.Y - cv.origin.Y) * cv.scale
}

func (cv *canvas) fillCircle(center packer.Point, radius float64, c color.RGBA) {
	cx, cy := cv.toPixel(center)
	r := radius * cv.scale
	area := image.Rect(
		int(math.Floor(cx-r)), int(math.Floor(cy-r)),
		int(math.Ceil(cx+r))+1, int(math.Ceil(cy+r))+1,
	).Intersect(cv.img.Bounds())

	for y := area.Min.Y; y < area.Max.Y; y++ {
		dy := float64(y) + 0.5 - cy
		for x := area.Min.X; x < area.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r*r {
				cv.img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawLabel writes the label and the weight on two centered lines.
func (cv *canvas) drawLabel(c packer.Circle, label string, textColor color.RGBA) error {
	size := c.Radius / 2 * cv.scale
	if size < minFontSize {
		return nil
	}

	face, err := opentype.NewFace(cv.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("create face: %w", err)
	}
	defer face.Close()

	cx, cy := cv.toPixel(c.Position)
	ascent := face.Metrics().Ascent.Ceil()
	lineHeight := face.Metrics().Height.Ceil()

	cv.drawTextCentered(face, int(cx), int(cy)-lineHeight/8, label, textColor)
	cv.drawTextCentered(face, int(cx), int(cy)+ascent, strconv.Itoa(c.Weight), textColor)
	return nil
}

// drawTextCentered draws text horizontally centered on x with its baseline at y.
func (cv *canvas) drawTextCentered(face font.Face, x, y int, text string, c color.Color) {
	width := font.MeasureString(face, text).Ceil()
	d := &font.Drawer{
		Dst:  cv.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x - width/2),
			Y: fixed.I(y),
		},
	}
	d.DrawString(text)
}
