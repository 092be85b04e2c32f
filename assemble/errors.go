package assemble

import "errors"

var (
	// ErrNilDocument indicates an input without a document.
	ErrNilDocument = errors.New("document cannot be nil")

	// ErrInvalidRecord indicates the assembled record failed validation.
	ErrInvalidRecord = errors.New("assembled record is invalid")
)
