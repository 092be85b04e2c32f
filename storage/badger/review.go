package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/storage"
)

// ReviewQueue keeps ambiguous entity links for manual review, grouped by
// document.
type ReviewQueue struct {
	backend *Backend
}

var _ storage.ReviewQueue = (*ReviewQueue)(nil)

// NewReviewQueue creates a new ReviewQueue.
func NewReviewQueue(backend *Backend) *ReviewQueue {
	return &ReviewQueue{backend: backend}
}

// EnqueueAmbiguities stores items. Reprocessing a document overwrites its
// identical items in place.
func (q *ReviewQueue) EnqueueAmbiguities(ctx context.Context, items ...core.Ambiguity) error {
	if len(items) == 0 {
		return nil
	}
	return q.backend.WithTx(func(tx *badger.Txn) error {
		for i := range items {
			if err := tx.Set(makeAmbiguityKey(&items[i]), storage.MarshalAmbiguity(&items[i])); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ListAmbiguities returns up to limit items ordered by document.
func (q *ReviewQueue) ListAmbiguities(ctx context.Context, limit int) ([]core.Ambiguity, error) {
	var out []core.Ambiguity
	err := q.backend.scanPrefix(ctx, prefixOf(ambiguityPrefix), func(_, val []byte) (bool, error) {
		a, err := storage.UnmarshalAmbiguity(val)
		if err != nil {
			return false, err
		}
		out = append(out, *a)
		return limit <= 0 || len(out) < limit, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
