package ingestion

import (
	"context"

	"github.com/poiesic/archivist/core"
)

// Source yields documents in a stable order. Walk calls fn once per
// document and stops at the first error fn returns.
type Source interface {
	Walk(ctx context.Context, fn func(ref core.DocumentRef) error) error
}

// SliceSource is a Source over documents already in memory.
type SliceSource []*core.RawDocument

var _ Source = SliceSource(nil)

// Walk yields the documents in slice order.
func (s SliceSource) Walk(ctx context.Context, fn func(ref core.DocumentRef) error) error {
	for _, doc := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc := doc
		if err := fn(core.DocumentRef{ID: doc.Path, Load: func() (*core.RawDocument, error) { return doc, nil }}); err != nil {
			return err
		}
	}
	return nil
}
