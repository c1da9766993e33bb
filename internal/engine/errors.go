package engine

import "errors"

var (
	// ErrNotConfigured indicates Step or Reset before a valid Configure,
	// or stepping a session invalidated by a grid-shape change.
	ErrNotConfigured = errors.New("engine: session not configured")

	// ErrCompleted indicates a Step call after t reached Tmax.
	ErrCompleted = errors.New("engine: simulation reached final time")
)
