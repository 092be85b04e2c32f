package config

import "errors"

// Configuration validation errors.
var (
	ErrInvalidFuzzyThreshold = errors.New("linker.fuzzy_threshold must be in (0, 1]")
	ErrInvalidTieMargin      = errors.New("linker.tie_margin must be in [0, 1)")
	ErrInvalidPoolSize       = errors.New("pipeline.pool_size must be non-negative")
	ErrInvalidInterval       = errors.New("pipeline intervals must be at least 1")
	ErrInvalidMaxAttempts    = errors.New("pipeline.retry_attempts must be at least 1")
	ErrInvalidRetryDelay     = errors.New("pipeline.retry_delay must be non-negative")
	ErrMissingStoragePath    = errors.New("paths.records and paths.edges are required")
	ErrNoHosts               = errors.New("graph.hosts must not be empty")
	ErrEmptyRunName          = errors.New("pipeline.run_name must not be empty")
)
