package render

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/eugenenazirov/chat-bubbles/internal/chat"
)

const (
	barWidth   = 40
	barSpacing = 12
)

// BarChart draws counts as a vertical bar chart in the given format.
func BarChart(w io.Writer, counts []chat.Count, format Format, opts ...Option) error {
	if len(counts) == 0 {
		return ErrNoData
	}

	var provider chart.RendererProvider
	switch format {
	case FormatPNG:
		provider = chart.PNG
	case FormatSVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	o := newOptions(opts)
	palette := NewPalette(o.Seed)

	maxCount := 0
	bars := make([]chart.Value, len(counts))
	for i, c := range counts {
		fill := palette.Next()
		bars[i] = chart.Value{
			Label: chat.Truncate(c.Label, o.LabelLength),
			Value: float64(c.Count),
			Style: chart.Style{
				FillColor:   drawing.Color{R: fill.R, G: fill.G, B: fill.B, A: fill.A},
				StrokeColor: drawing.Color{R: fill.R, G: fill.G, B: fill.B, A: fill.A},
				StrokeWidth: 1,
			},
		}
		maxCount = max(maxCount, c.Count)
	}

	width := max(o.Width, len(bars)*(barWidth+barSpacing)+120)
	bc := chart.BarChart{
		Title:      o.Title,
		Width:      width,
		Height:     o.Height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			FillColor: drawing.Color{R: o.Background.R, G: o.Background.G, B: o.Background.B, A: o.Background.A},
			Padding:   chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(maxCount, 1))},
		},
		Bars: bars,
	}

	if err := bc.Render(provider, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}
