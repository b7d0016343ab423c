package packer

import (
	"fmt"
	"math"
)

type forceRelaxation struct {
	defaults []Option
}

// New creates a Packer whose options are applied before the per-call options.
func New(opts ...Option) Packer {
	return &forceRelaxation{defaults: opts}
}

func (p *forceRelaxation) Pack(items []Item, bounds Bounds, opts ...Option) (Result, error) {
	all := make([]Option, 0, len(p.defaults)+len(opts))
	all = append(all, p.defaults...)
	all = append(all, opts...)
	return Pack(items, bounds, all...)
}

// Pack sizes one circle per item and relaxes them into a non-overlapping layout inside
// bounds. The returned circles keep the input order. Hitting the iteration cap is not an
// error: the result carries StatusMaxIterations and the best layout found.
func Pack(items []Item, bounds Bounds, opts ...Option) (Result, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if err := validateBounds(bounds); err != nil {
		return Result{}, err
	}
	if err := validateItems(items); err != nil {
		return Result{}, err
	}

	if len(items) == 0 {
		return Result{Circles: []Circle{}, Status: StatusConverged}, nil
	}

	radii := computeRadii(items, bounds, cfg)
	positions := initialPositions(radii, bounds, newRand(cfg.Seed))

	sim := newSimulator(radii, positions, bounds, cfg)
	status := sim.run()

	return Result{
		Circles:    sim.circles(items),
		Status:     status,
		Iterations: sim.iterations,
	}, nil
}

func validateBounds(b Bounds) error {
	for _, v := range []float64{b.MinX, b.MinY, b.MaxX, b.MaxY} {
		if !isFinite(v) {
			return fmt.Errorf("%w: bounds coordinate %v is not finite", ErrInvalidInput, v)
		}
	}
	if b.Width() <= 0 || b.Height() <= 0 {
		return fmt.Errorf("%w: got %vx%v", ErrInvalidBounds, b.Width(), b.Height())
	}
	return nil
}

// validateItems rejects negative weights and weight totals that do not fit in an int.
func validateItems(items []Item) error {
	total := 0
	for i, item := range items {
		if item.Weight < 0 {
			return fmt.Errorf("%w: item %d (%q) has weight %d", ErrInvalidInput, i, item.Label, item.Weight)
		}
		if item.Weight > math.MaxInt-total {
			return fmt.Errorf("%w: total weight overflows at item %d (%q)", ErrInvalidInput, i, item.Label)
		}
		total += item.Weight
	}
	return nil
}
