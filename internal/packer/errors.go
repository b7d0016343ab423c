package packer

import "errors"

var (
	// ErrInvalidBounds is returned when the container has a non-positive width or height.
	ErrInvalidBounds = errors.New("bounds must have positive width and height")
	// ErrInvalidInput is returned for negative weights or non-finite coordinates.
	ErrInvalidInput = errors.New("items must have non-negative weights and finite coordinates")
	// ErrInvalidConfig is returned when a tuning parameter is outside its allowed range.
	ErrInvalidConfig = errors.New("invalid packing configuration")
)
