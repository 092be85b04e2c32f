package registry

import "errors"

var (
	// ErrInvalidRow indicates a registry row that cannot be used.
	ErrInvalidRow = errors.New("invalid registry row")

	// ErrFieldMismatch indicates a strategy listed under a field it does not extract.
	ErrFieldMismatch = errors.New("strategy extracts a different field")

	// ErrUnknownField indicates a row for a field that is not extracted.
	ErrUnknownField = errors.New("unknown field")
)
