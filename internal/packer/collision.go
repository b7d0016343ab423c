package packer

import "math"

// goldenAngle spreads the fallback separation axes of coincident pairs around the circle.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// body is the mutable simulation state of one circle.
type body struct {
	radius   float64
	position Point
	velocity Point
}

// resolveCollisions runs one pass over every unordered pair and pushes overlapping
// circles apart with equal and opposite impulses. It reports whether any pair overlapped.
// The pass is O(n²), which is fine for a few hundred bubbles.
func resolveCollisions(bodies []body, padding float64) bool {
	overlapped := false
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := &bodies[i], &bodies[j]

			dx := b.position.X - a.position.X
			dy := b.position.Y - a.position.Y
			distance := math.Hypot(dx, dy)
			required := a.radius + b.radius + padding
			if distance >= required {
				continue
			}
			overlapped = true

			dirX, dirY := separationAxis(dx, dy, distance, i*len(bodies)+j)
			push := (required - distance) / 2

			a.velocity.X -= dirX * push
			a.velocity.Y -= dirY * push
			b.velocity.X += dirX * push
			b.velocity.Y += dirY * push
		}
	}
	return overlapped
}

// anyOverlap reports whether some pair is closer than the sum of its radii and padding.
func anyOverlap(bodies []body, padding float64) bool {
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			distance := math.Hypot(b.position.X-a.position.X, b.position.Y-a.position.Y)
			if distance < a.radius+b.radius+padding {
				return true
			}
		}
	}
	return false
}

// separationAxis returns the unit vector from the first circle towards the second.
// Coincident centers have no direction, so one is derived from the pair index.
func separationAxis(dx, dy, distance float64, pair int) (float64, float64) {
	if distance == 0 {
		angle := float64(pair) * goldenAngle
		return math.Cos(angle), math.Sin(angle)
	}
	return dx / distance, dy / distance
}
