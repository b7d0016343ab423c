package packer

import (
	"fmt"
	"math"
)

// Defaults for Config. The density and fallback constants were tuned by eye and are
// expected to be recalibrated per deployment.
const (
	DefaultPadding         = 0.1
	DefaultFriction        = 0.85
	DefaultVelocityScale   = 50.0
	DefaultMaxIterations   = 10000
	DefaultDensityFactor   = 4.5
	DefaultFallbackDivisor = 4.5
	DefaultMaxFill         = 0.5
)

// maxRadiusShare caps the largest radius relative to the shorter container side.
const maxRadiusShare = 0.45

// Config holds the tuning parameters of the relaxation.
type Config struct {
	// Padding is the minimum gap kept between neighbouring circles.
	Padding float64
	// Friction multiplies every velocity once per iteration; must be in (0, 1).
	Friction float64
	// InitialVelocityScale weights the boundary correction impulse.
	InitialVelocityScale float64
	// MaxIterations bounds the work done by one Pack call.
	MaxIterations int
	// DensityFactor is the K constant of the radius formula; larger values give smaller bubbles.
	DensityFactor float64
	// FallbackDivisor sizes the uniform radius used when every weight is zero.
	FallbackDivisor float64
	// MaxFill is the largest share of the container area the circles may cover.
	MaxFill float64
	// Seed makes the initial placement reproducible. Nil draws a random seed.
	Seed *uint64
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Padding:              DefaultPadding,
		Friction:             DefaultFriction,
		InitialVelocityScale: DefaultVelocityScale,
		MaxIterations:        DefaultMaxIterations,
		DensityFactor:        DefaultDensityFactor,
		FallbackDivisor:      DefaultFallbackDivisor,
		MaxFill:              DefaultMaxFill,
	}
}

// Option adjusts the Config of a single Pack call.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithPadding sets the minimum gap between circles.
func WithPadding(padding float64) Option {
	return func(c *Config) {
		c.Padding = padding
	}
}

// WithFriction sets the per-iteration velocity damping.
func WithFriction(friction float64) Option {
	return func(c *Config) {
		c.Friction = friction
	}
}

// WithVelocityScale sets the boundary correction strength.
func WithVelocityScale(scale float64) Option {
	return func(c *Config) {
		c.InitialVelocityScale = scale
	}
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option {
	return func(c *Config) {
		c.MaxIterations = n
	}
}

// WithDensityFactor sets the K constant of the radius formula.
func WithDensityFactor(k float64) Option {
	return func(c *Config) {
		c.DensityFactor = k
	}
}

// WithFallbackDivisor sets the divisor of the uniform radius used for all-zero weights.
func WithFallbackDivisor(divisor float64) Option {
	return func(c *Config) {
		c.FallbackDivisor = divisor
	}
}

// WithMaxFill sets the largest share of the container covered by circles.
func WithMaxFill(fill float64) Option {
	return func(c *Config) {
		c.MaxFill = fill
	}
}

// WithSeed makes the initial placement deterministic.
func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Seed = &seed
	}
}

// Validate reports the first parameter outside its allowed range.
func (c Config) Validate() error {
	switch {
	case c.Padding < 0 || !isFinite(c.Padding):
		return fmt.Errorf("%w: padding must be a non-negative number, got %v", ErrInvalidConfig, c.Padding)
	case !(c.Friction > 0 && c.Friction < 1):
		return fmt.Errorf("%w: friction must be in (0, 1), got %v", ErrInvalidConfig, c.Friction)
	case !(c.InitialVelocityScale > 0) || !isFinite(c.InitialVelocityScale):
		return fmt.Errorf("%w: velocity scale must be positive, got %v", ErrInvalidConfig, c.InitialVelocityScale)
	case c.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	case !(c.DensityFactor > 0) || !isFinite(c.DensityFactor):
		return fmt.Errorf("%w: density factor must be positive, got %v", ErrInvalidConfig, c.DensityFactor)
	case !(c.FallbackDivisor > 0) || !isFinite(c.FallbackDivisor):
		return fmt.Errorf("%w: fallback divisor must be positive, got %v", ErrInvalidConfig, c.FallbackDivisor)
	case !(c.MaxFill > 0 && c.MaxFill <= 1):
		return fmt.Errorf("%w: max fill must be in (0, 1], got %v", ErrInvalidConfig, c.MaxFill)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
