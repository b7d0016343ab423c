package render

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrUnknownFormat is returned for output formats other than PNG and SVG.
var ErrUnknownFormat = errors.New("unknown image format")

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = errors.New("nothing to render")

// Format is an image encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

const (
	defaultLabelLength = 10
	defaultSupersample = 2
	defaultChartWidth  = 800
	defaultChartHeight = 480
)

// Options controls how layouts and charts are drawn.
type Options struct {
	Seed        uint64
	Title       string
	Width       int
	Height      int
	LabelLength int
	Supersample int
	Background  color.RGBA
}

// Option adjusts Options.
type Option func(*Options)

// WithSeed fixes the bubble colors.
func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}

// WithTitle sets the chart heading.
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithSize sets the chart dimensions in pixels.
func WithSize(width, height int) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

// WithLabelLength sets how many runes of a label are drawn before it is truncated.
func WithLabelLength(n int) Option {
	return func(o *Options) {
		o.LabelLength = n
	}
}

// WithSupersample sets the PNG oversampling factor.
func WithSupersample(factor int) Option {
	return func(o *Options) {
		o.Supersample = factor
	}
}

// WithBackground sets the canvas color.
func WithBackground(c color.RGBA) Option {
	return func(o *Options) {
		o.Background = c
	}
}

func newOptions(opts []Option) Options {
	o := Options{
		Seed:        1,
		Width:       defaultChartWidth,
		Height:      defaultChartHeight,
		LabelLength: defaultLabelLength,
		Supersample: defaultSupersample,
		Background:  colorWhite,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Supersample < 1 {
		o.Supersample = 1
	}
	if o.Width <= 0 {
		o.Width = defaultChartWidth
	}
	if o.Height <= 0 {
		o.Height = defaultChartHeight
	}
	return o
}
