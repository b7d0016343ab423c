package render

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/chat-bubbles/internal/chat"
	"github.com/eugenenazirov/chat-bubbles/internal/packer"
)

func sampleResult() packer.Result {
	return packer.Result{
		Circles: []packer.Circle{
			{Label: "hello", Weight: 12, Radius: 40, Position: packer.Point{X: 50, Y: 50}},
			{Label: "<b>&co", Weight: 3, Radius: 20, Position: packer.Point{X: 140, Y: 60}},
			{Label: "gone", Weight: 0, Radius: 0, Position: packer.Point{X: 10, Y: 10}},
		},
		Status: packer.StatusConverged,
	}
}

func TestIsLight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    color.Color
		want bool
	}{
		{name: "White", c: color.RGBA{255, 255, 255, 255}, want: true},
		{name: "Black", c: color.RGBA{0, 0, 0, 255}, want: false},
		{name: "Green", c: color.RGBA{0, 255, 0, 255}, want: true},
		{name: "Red", c: color.RGBA{255, 0, 0, 255}, want: false},
		{name: "Blue", c: color.RGBA{0, 0, 255, 255}, want: false},
		{name: "MidGray", c: color.RGBA{128, 128, 128, 255}, want: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsLight(tc.c))
		})
	}
}

func TestTextColor(t *testing.T) {
	assert.Equal(t, colorBlack, TextColor(color.RGBA{250, 240, 200, 255}))
	assert.Equal(t, colorWhite, TextColor(color.RGBA{20, 30, 90, 255}))
}

func TestPaletteIsSeeded(t *testing.T) {
	a, b, c := NewPalette(5), NewPalette(5), NewPalette(6)

	var fromA, fromB, fromC []color.RGBA
	for i := 0; i < 8; i++ {
		fromA = append(fromA, a.Next())
		fromB = append(fromB, b.Next())
		fromC = append(fromC, c.Next())
	}

	assert.Equal(t, fromA, fromB)
	assert.NotEqual(t, fromA, fromC)
	for _, col := range fromA {
		assert.Equal(t, uint8(255), col.A)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" SVG ")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())
	assert.Equal(t, "image/png", FormatPNG.ContentType())

	_, err = ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestBubbleSVG(t *testing.T) {
	bounds := packer.Rect(0, 0, 200, 120)
	out := string(BubbleSVG(sampleResult(), bounds, WithSeed(3)))

	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, `viewBox="0.0 0.0 200.0 120.0"`)
	assert.Equal(t, 2, strings.Count(out, "<circle"), "zero radius circles are skipped")
	assert.Contains(t, out, `r="40.00"`)
	assert.Contains(t, out, `font-size="20.00"`)
	assert.Contains(t, out, `font-size="10.00"`)
	assert.Contains(t, out, "&lt;b&gt;&amp;co")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, ">12</tspan>")
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestBubbleSVGIsDeterministic(t *testing.T) {
	bounds := packer.Rect(0, 0, 200, 120)
	assert.Equal(t, BubbleSVG(sampleResult(), bounds, WithSeed(9)), BubbleSVG(sampleResult(), bounds, WithSeed(9)))
}

func TestBubblePNG(t *testing.T) {
	bounds := packer.Rect(0, 0, 200, 120)

	var buf bytes.Buffer
	require.NoError(t, BubblePNG(&buf, sampleResult(), bounds, WithSeed(3)))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())

	want := NewPalette(3).Next()
	r, g, b, _ := img.At(50, 15).RGBA()
	assert.InDelta(t, float64(want.R), float64(r>>8), 3)
	assert.InDelta(t, float64(want.G), float64(g>>8), 3)
	assert.InDelta(t, float64(want.B), float64(b>>8), 3)

	r, g, b, _ = img.At(198, 118).RGBA()
	assert.Equal(t, []uint32{255, 255, 255}, []uint32{r >> 8, g >> 8, b >> 8}, "corner keeps the background")
}

func TestBubblePNGWithoutSupersampling(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BubblePNG(&buf, sampleResult(), packer.Rect(10, 10, 64, 48), WithSupersample(1)))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestBubblePNGEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BubblePNG(&buf, packer.Result{}, packer.Rect(0, 0, 30, 20)))

	_, err := png.Decode(&buf)
	assert.NoError(t, err)
}

func TestBubblePNGRejectsEmptyBounds(t *testing.T) {
	var buf bytes.Buffer
	err := BubblePNG(&buf, sampleResult(), packer.Bounds{})
	assert.ErrorIs(t, err, packer.ErrInvalidBounds)
}

func TestBarChart(t *testing.T) {
	counts := []chat.Count{
		{Label: "Sunday", Count: 4},
		{Label: "Monday", Count: 9},
		{Label: "An unreasonably long sender name", Count: 1},
	}

	t.Run("PNG", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, BarChart(&buf, counts, FormatPNG, WithTitle("Week days")))
		_, err := png.Decode(&buf)
		assert.NoError(t, err)
	})

	t.Run("SVG", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, BarChart(&buf, counts, FormatSVG))
		assert.Contains(t, buf.String(), "<svg")
		assert.NotContains(t, buf.String(), "unreasonably long")
	})

	t.Run("AllZero", func(t *testing.T) {
		var buf bytes.Buffer
		zero := []chat.Count{{Label: "a"}, {Label: "b"}}
		assert.NoError(t, BarChart(&buf, zero, FormatSVG))
	})

	t.Run("Empty", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorIs(t, BarChart(&buf, nil, FormatPNG), ErrNoData)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorIs(t, BarChart(&buf, counts, Format("bmp")), ErrUnknownFormat)
	})
}
