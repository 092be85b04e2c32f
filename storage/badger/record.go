package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/storage"
)

// RecordRepository stores document records keyed by document ID.
type RecordRepository struct {
	backend *Backend
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(backend *Backend) *RecordRepository {
	return &RecordRepository{backend: backend}
}

// Emit stores record, replacing any earlier record for the same document.
func (r *RecordRepository) Emit(ctx context.Context, record *core.DocumentMetadata) error {
	if record == nil || record.SourceURL == "" {
		return fmt.Errorf("%w: missing source url", storage.ErrInvalidRecord)
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeRecordKey(record.DocumentID()), storage.MarshalRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRecord returns the record of a document.
// Returns storage.ErrNotFound if the record doesn't exist.
func (r *RecordRepository) GetRecord(ctx context.Context, documentID string) (*core.DocumentMetadata, error) {
	var record *core.DocumentMetadata
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRecordKey(core.DocumentIDFromURL(documentID)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalRecord(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CountRecords returns the number of stored records.
func (r *RecordRepository) CountRecords(ctx context.Context) (int, error) {
	return r.backend.countPrefix(ctx, prefixOf(recordPrefix))
}

// ScanRecords calls fn for every record in document ID order.
func (r *RecordRepository) ScanRecords(ctx context.Context, fn func(*core.DocumentMetadata) (bool, error)) error {
	return r.backend.scanPrefix(ctx, prefixOf(recordPrefix), func(_, val []byte) (bool, error) {
		record, err := storage.UnmarshalRecord(val)
		if err != nil {
			return false, err
		}
		return fn(record)
	})
}
