package packer

import "math"

// Item is a labelled weight that becomes one bubble.
type Item struct {
	Label  string
	Weight int
}

// Point is a position or velocity in container units.
type Point struct {
	X, Y float64
}

// Bounds is the axis-aligned rectangle circles are packed into.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Rect builds Bounds from an origin and a size.
func Rect(x, y, width, height float64) Bounds {
	return Bounds{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}

// Width returns the horizontal extent of the container.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the container.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the container.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

func (b Bounds) minDim() float64 { return min(b.Width(), b.Height()) }

func (b Bounds) area() float64 { return b.Width() * b.Height() }

// Circle is the final placement of one input item.
type Circle struct {
	Label    string
	Weight   int
	Radius   float64
	Position Point
}

// Status reports how the relaxation loop terminated.
type Status int

const (
	// StatusConverged means no circles overlap and all of them lie inside the bounds.
	StatusConverged Status = iota
	// StatusMaxIterations means the iteration cap was hit first; the layout is best effort.
	StatusMaxIterations
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxIterations:
		return "max_iterations"
	default:
		return "unknown"
	}
}

// Result is the outcome of a packing run. Circles are index-aligned with the input items.
type Result struct {
	Circles    []Circle
	Status     Status
	Iterations int
}

// Converged reports whether the layout settled before the iteration cap.
func (r Result) Converged() bool { return r.Status == StatusConverged }

// Overlapping reports whether any two circles are closer than the sum of their radii
// minus tolerance.
func (r Result) Overlapping(tolerance float64) bool {
	for i := range r.Circles {
		for j := i + 1; j < len(r.Circles); j++ {
			a, b := r.Circles[i], r.Circles[j]
			d := math.Hypot(b.Position.X-a.Position.X, b.Position.Y-a.Position.Y)
			if d < a.Radius+b.Radius-tolerance {
				return true
			}
		}
	}
	return false
}

// Packer describes the behaviour required from a bubble layout engine.
type Packer interface {
	Pack(items []Item, bounds Bounds, opts ...Option) (Result, error)
}
