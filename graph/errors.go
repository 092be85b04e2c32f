package graph

import "errors"

// ErrNoHosts indicates an empty corpus host list.
var ErrNoHosts = errors.New("at least one corpus host is required")
