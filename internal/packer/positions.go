package packer

import "math/rand/v2"

// newRand returns the source used for initial placement.
func newRand(seed *uint64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(*seed, *seed^0xdeadbeef))
}

// initialPositions draws an in-bounds starting point for every circle.
// A lone circle goes to the center of the container.
func initialPositions(radii []float64, bounds Bounds, rng *rand.Rand) []Point {
	positions := make([]Point, len(radii))
	if len(radii) == 1 {
		positions[0] = bounds.Center()
		return positions
	}

	for i, r := range radii {
		positions[i] = Point{
			X: sampleAxis(bounds.MinX+r, bounds.MaxX-r, rng),
			Y: sampleAxis(bounds.MinY+r, bounds.MaxY-r, rng),
		}
	}
	return positions
}

// sampleAxis draws uniformly from [lo, hi]. A circle wider than the container on this
// axis produces an inverted range and is centered instead.
func sampleAxis(lo, hi float64, rng *rand.Rand) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return lo + rng.Float64()*(hi-lo)
}
