package linker

import "errors"

var (
	// ErrNilIndex indicates a linker was created without an index.
	ErrNilIndex = errors.New("linker requires an entity index")

	// ErrInvalidThreshold indicates a fuzzy threshold outside (0,1].
	ErrInvalidThreshold = errors.New("fuzzy threshold must be in (0,1]")

	// ErrInvalidMargin indicates a negative or oversized tie margin.
	ErrInvalidMargin = errors.New("tie margin must be in [0,1)")
)
