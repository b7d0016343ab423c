package packer

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialPositions_WithinInset(t *testing.T) {
	bounds := Rect(-50, 10, 200, 120)
	radii := []float64{5, 20, 40, 0, 12}

	positions := initialPositions(radii, bounds, newRand(ptr(uint64(8))))
	require.Len(t, positions, len(radii))

	for i, p := range positions {
		r := radii[i]
		assert.GreaterOrEqual(t, p.X, bounds.MinX+r)
		assert.LessOrEqual(t, p.X, bounds.MaxX-r)
		assert.GreaterOrEqual(t, p.Y, bounds.MinY+r)
		assert.LessOrEqual(t, p.Y, bounds.MaxY-r)
	}
}

func TestInitialPositions_SingleCircleIsCentered(t *testing.T) {
	bounds := Rect(0, 0, 80, 40)
	positions := initialPositions([]float64{10}, bounds, newRand(nil))
	assert.Equal(t, []Point{{X: 40, Y: 20}}, positions)
}

func TestInitialPositions_SameSeedSamePoints(t *testing.T) {
	radii := []float64{1, 2, 3, 4}
	bounds := Rect(0, 0, 100, 100)

	first := initialPositions(radii, bounds, newRand(ptr(uint64(77))))
	second := initialPositions(radii, bounds, newRand(ptr(uint64(77))))
	assert.Equal(t, first, second)
}

func TestSampleAxis(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	assert.Equal(t, 5.0, sampleAxis(8, 2, rng), "inverted range falls back to its midpoint")
	assert.Equal(t, 3.0, sampleAxis(3, 3, rng))

	for i := 0; i < 100; i++ {
		v := sampleAxis(-2, 7, rng)
		assert.True(t, v >= -2 && v <= 7, "sample %v out of range", v)
	}
}

func ptr[T any](v T) *T { return &v }
