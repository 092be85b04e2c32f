package ingestion

import "errors"

var (
	// ErrProcessorRequired is returned when a processor is not provided.
	ErrProcessorRequired = errors.New("processor required")

	// ErrRecordSinkRequired is returned when a record sink is not provided.
	ErrRecordSinkRequired = errors.New("record sink required")

	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrLinkerRequired is returned when a linker is not provided.
	ErrLinkerRequired = errors.New("linker required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidInterval is returned for a non-positive checkpoint or report interval.
	ErrInvalidInterval = errors.New("interval must be greater than 0")

	// ErrUnitPanic is returned for a document whose processing panicked.
	ErrUnitPanic = errors.New("document processing panicked")

	// ErrEmptyRunName is returned when the run name is empty.
	ErrEmptyRunName = errors.New("run name cannot be empty")
)
