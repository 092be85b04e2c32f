package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/storage"
)

// EntityRepository persists the canonical entity set between the index
// build and later runs.
type EntityRepository struct {
	backend *Backend
}

var _ storage.EntityRepository = (*EntityRepository)(nil)

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(backend *Backend) *EntityRepository {
	return &EntityRepository{backend: backend}
}

// ReplaceEntities drops the stored entities and writes entities in their
// place. Large sets are written in batches.
func (r *EntityRepository) ReplaceEntities(ctx context.Context, entities []core.CanonicalEntity) error {
	if err := r.backend.DropPrefix(prefixOf(entityPrefix)); err != nil {
		return err
	}
	return r.backend.WriteBatch(func(wb *badger.WriteBatch) error {
		for i := range entities {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := wb.Set(makeEntityKey(entities[i].ID), storage.MarshalEntity(&entities[i])); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadEntities returns all stored entities ordered by ID.
func (r *EntityRepository) LoadEntities(ctx context.Context) ([]core.CanonicalEntity, error) {
	var out []core.CanonicalEntity
	err := r.backend.scanPrefix(ctx, prefixOf(entityPrefix), func(_, val []byte) (bool, error) {
		e, err := storage.UnmarshalEntity(val)
		if err != nil {
			return false, err
		}
		out = append(out, *e)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
