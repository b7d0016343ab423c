package packer

import "math"

// radius sizes one circle from its share of the total weight and of the container area.
func radius(weight, total, count int, bounds Bounds, density float64) float64 {
	n := float64(count)
	scaleFactor := bounds.minDim() / (math.Sqrt(n) * density)
	ratio := float64(weight) / float64(total)
	area := ratio * bounds.area() / n
	return math.Sqrt(area/math.Pi) * scaleFactor
}

// fallbackRadius is the uniform radius used when the weights carry no information.
func fallbackRadius(count int, bounds Bounds, divisor float64) float64 {
	return bounds.minDim() / (float64(count) * divisor)
}

func computeRadii(items []Item, bounds Bounds, cfg Config) []float64 {
	total := 0
	for _, item := range items {
		total += item.Weight
	}

	radii := make([]float64, len(items))
	for i, item := range items {
		if total == 0 {
			radii[i] = fallbackRadius(len(items), bounds, cfg.FallbackDivisor)
			continue
		}
		radii[i] = radius(item.Weight, total, len(items), bounds, cfg.DensityFactor)
	}

	fitRadii(radii, bounds, cfg.MaxFill)
	return radii
}

// fitRadii scales every radius by one shared factor so that the circles cover at most
// maxFill of the container and the largest one fits with room to move.
func fitRadii(radii []float64, bounds Bounds, maxFill float64) {
	var covered, largest float64
	for _, r := range radii {
		covered += math.Pi * r * r
		largest = max(largest, r)
	}
	if largest == 0 {
		return
	}

	scale := 1.0
	if limit := maxFill * bounds.area(); covered > limit {
		scale = math.Sqrt(limit / covered)
	}
	if limit := maxRadiusShare * bounds.minDim(); largest*scale > limit {
		scale = limit / largest
	}
	if scale == 1 {
		return
	}
	for i := range radii {
		radii[i] *= scale
	}
}
