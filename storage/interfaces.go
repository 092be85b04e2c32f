package storage

import (
	"context"

	"github.com/poiesic/archivist/core"
)

// RecordSink receives assembled document records. Emitting the same
// document twice replaces the earlier record, so reruns are safe.
// Implementations must be safe for concurrent use.
type RecordSink interface {
	Emit(ctx context.Context, record *core.DocumentMetadata) error
}

// EdgeSink receives the cross-reference edges of one document. Edges are
// keyed by (source, ordinal); re-emitting them is a no-op.
type EdgeSink interface {
	EmitEdges(ctx context.Context, edges []core.GraphEdge) error
}

// RecordRepository stores and reads document records.
type RecordRepository interface {
	RecordSink

	// GetRecord returns the record for a document ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, documentID string) (*core.DocumentMetadata, error)

	// CountRecords returns the number of stored records.
	CountRecords(ctx context.Context) (int, error)

	// ScanRecords calls fn for every record in key order until fn returns
	// false or an error.
	ScanRecords(ctx context.Context, fn func(*core.DocumentMetadata) (bool, error)) error
}

// EdgeRepository stores and queries cross-reference edges.
type EdgeRepository interface {
	EdgeSink

	// EdgesFrom returns the outgoing edges of a document ordered by ordinal.
	EdgesFrom(ctx context.Context, sourceID string) ([]core.GraphEdge, error)

	// EdgesTo returns the incoming edges of a target ordered by source and ordinal.
	EdgesTo(ctx context.Context, targetID string) ([]core.GraphEdge, error)

	// Close releases the underlying database.
	Close() error
}

// CheckpointRepository persists pipeline progress per run name.
type CheckpointRepository interface {
	// SaveCheckpoint stores cp, stamping UpdatedAt.
	SaveCheckpoint(ctx context.Context, cp *core.Checkpoint) error

	// LoadCheckpoint returns the checkpoint for run, or nil, nil if none exists.
	LoadCheckpoint(ctx context.Context, run string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for run, if any.
	DeleteCheckpoint(ctx context.Context, run string) error
}

// ReviewQueue holds ambiguous entity links for manual review.
type ReviewQueue interface {
	// EnqueueAmbiguities stores ambiguities. An identical ambiguity for the
	// same document is stored once.
	EnqueueAmbiguities(ctx context.Context, items ...core.Ambiguity) error

	// ListAmbiguities returns up to limit queued items in key order.
	// A limit <= 0 returns all of them.
	ListAmbiguities(ctx context.Context, limit int) ([]core.Ambiguity, error)
}

// EntityRepository persists the canonical entity index between runs.
type EntityRepository interface {
	// ReplaceEntities replaces the stored entity set.
	ReplaceEntities(ctx context.Context, entities []core.CanonicalEntity) error

	// LoadEntities returns every stored entity ordered by ID.
	LoadEntities(ctx context.Context) ([]core.CanonicalEntity, error)
}
