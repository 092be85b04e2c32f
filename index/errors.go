package index

import "errors"

var (
	// ErrIndexBuild indicates the index could not be built. A run must not
	// process any document after this error.
	ErrIndexBuild = errors.New("entity index build failed")

	// ErrEmptyIndex indicates that no entity was found in the inputs.
	ErrEmptyIndex = errors.New("no entities found")

	// ErrSeedFormat indicates a malformed seed file.
	ErrSeedFormat = errors.New("malformed seed file")
)
