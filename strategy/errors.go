package strategy

import "errors"

var (
	// ErrMalformed indicates a signal that is present but cannot be parsed.
	ErrMalformed = errors.New("malformed input")

	// ErrUnknownStrategy indicates a strategy ID missing from the catalog.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrDuplicateStrategy indicates two strategies registered under one ID.
	ErrDuplicateStrategy = errors.New("duplicate strategy")

	// ErrInvalidStrategy indicates a strategy definition with missing parts.
	ErrInvalidStrategy = errors.New("invalid strategy definition")
)
