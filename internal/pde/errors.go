package pde

import "errors"

// Domain errors for parameter and grid construction.
var (
	// ErrInvalidParams indicates a parameter set that must not reach the
	// stepping loop (bad point count, non-positive step, unknown dimension).
	ErrInvalidParams = errors.New("pde: invalid parameters")

	// ErrGridTooSmall indicates a grid without at least one interior point.
	ErrGridTooSmall = errors.New("pde: grid needs at least 3 points")
)
