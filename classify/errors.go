package classify

import "errors"

// ErrInvalidThresholds indicates a threshold value out of range.
var ErrInvalidThresholds = errors.New("invalid classifier thresholds")
