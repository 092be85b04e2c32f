package extract

import "errors"

var (
	// ErrNilRegistry indicates a nil registry option.
	ErrNilRegistry = errors.New("registry cannot be nil")

	// ErrNilCatalog indicates a nil catalog option.
	ErrNilCatalog = errors.New("catalog cannot be nil")

	// ErrStrategyPanic indicates a strategy panicked and was treated as null.
	ErrStrategyPanic = errors.New("strategy panicked")
)
