package packer

import "math"

// applyBoundary nudges circles that cross a container edge back inside. The impulse grows
// with the penetration depth and shrinks with the radius; minRadius floors the divisor.
// Positions are never clamped here.
func applyBoundary(bodies []body, bounds Bounds, scale, minRadius float64) bool {
	crossed := false
	for i := range bodies {
		b := &bodies[i]
		r := math.Max(b.radius, minRadius)

		if depth := penetration(b.position.X, b.radius, bounds.MinX, bounds.MaxX); depth != 0 {
			b.velocity.X += scale * depth / r
			crossed = true
		}
		if depth := penetration(b.position.Y, b.radius, bounds.MinY, bounds.MaxY); depth != 0 {
			b.velocity.Y += scale * depth / r
			crossed = true
		}
	}
	return crossed
}

// penetration returns how far a circle sticks out of [lo, hi] on one axis. The sign
// points back inside: positive past lo, negative past hi, zero when contained.
func penetration(center, radius, lo, hi float64) float64 {
	switch {
	case center-radius < lo:
		return lo - (center - radius)
	case center+radius > hi:
		return hi - (center + radius)
	default:
		return 0
	}
}

// anyCrossing reports whether some circle sticks out of bounds.
func anyCrossing(bodies []body, bounds Bounds) bool {
	for _, b := range bodies {
		if penetration(b.position.X, b.radius, bounds.MinX, bounds.MaxX) != 0 ||
			penetration(b.position.Y, b.radius, bounds.MinY, bounds.MaxY) != 0 {
			return true
		}
	}
	return false
}
