package index

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/archivist/core"
)

type key struct {
	kind core.EntityKind
	name string
}

// Index is the immutable canonical entity index. The zero value is an empty
// index; use Build or FromEntities to construct one.
//
// Returned entities are shared and must not be modified.
type Index struct {
	entities []*core.CanonicalEntity // sorted by ID
	byID     map[string]*core.CanonicalEntity
	byName   map[key][]*core.CanonicalEntity
	byAlias  map[key][]*core.CanonicalEntity
	byNorm   map[key][]*core.CanonicalEntity
	bySlug   map[string]*core.CanonicalEntity
	byAnchor map[key]*core.CanonicalEntity
	blocks   map[key][]*core.CanonicalEntity
}

// Option configures index construction.
type Option func(*builder) error

// WithSeeds merges seed entities into the glossary-derived entities.
func WithSeeds(seeds ...Seed) Option {
	return func(b *builder) error {
		b.seeds = append(b.seeds, seeds...)
		return nil
	}
}

// WithLogger sets the logger used during the build.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) error {
		if logger != nil {
			b.logger = logger
		}
		return nil
	}
}

type builder struct {
	seeds  []Seed
	logger *slog.Logger
}

// Build constructs an index from glossary documents plus any seeds. It fails
// with ErrIndexBuild when no entity results or any entity is invalid.
func Build(glossary []*core.RawDocument, opts ...Option) (*Index, error) {
	b := &builder{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIndexBuild, err)
		}
	}
	logger := b.logger.With("component", "index")

	entities := make(map[string]*core.CanonicalEntity)
	var order []string
	add := func(e *core.CanonicalEntity) {
		if existing, ok := entities[e.ID]; ok {
			mergeEntity(existing, e)
			return
		}
		entities[e.ID] = e
		order = append(order, e.ID)
	}

	for _, doc := range glossary {
		if doc == nil {
			continue
		}
		kind, ok := KindFromPath(doc.Path)
		if !ok {
			logger.Debug("skipping glossary page with unknown kind", "path", doc.Path)
			continue
		}
		for _, e := range entitiesFromTerms(kind, doc.Terms, entities) {
			add(e)
		}
	}
	for _, s := range b.seeds {
		e, err := s.Entity()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIndexBuild, err)
		}
		add(e)
	}

	list := make([]core.CanonicalEntity, 0, len(order))
	for _, id := range order {
		list = append(list, *entities[id])
	}
	idx, err := FromEntities(list)
	if err != nil {
		return nil, err
	}
	logger.Info("entity index built", "entities", idx.Len(), "glossary_pages", len(glossary), "seeds", len(b.seeds))
	return idx, nil
}

// FromEntities constructs an index from already-canonical entities, such as a
// stored snapshot. Entities are copied.
func FromEntities(list []core.CanonicalEntity) (*Index, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrIndexBuild, ErrEmptyIndex)
	}

	idx := &Index{
		byID:     make(map[string]*core.CanonicalEntity, len(list)),
		byName:   make(map[key][]*core.CanonicalEntity),
		byAlias:  make(map[key][]*core.CanonicalEntity),
		byNorm:   make(map[key][]*core.CanonicalEntity),
		bySlug:   make(map[string]*core.CanonicalEntity),
		byAnchor: make(map[key]*core.CanonicalEntity),
		blocks:   make(map[key][]*core.CanonicalEntity),
	}

	for i := range list {
		e := list[i]
		e.Aliases = append([]string(nil), e.Aliases...)
		if err := core.ValidateEntity(&e); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIndexBuild, err)
		}
		if existing, ok := idx.byID[e.ID]; ok {
			mergeEntity(existing, &e)
			continue
		}
		idx.byID[e.ID] = &e
		idx.entities = append(idx.entities, &e)
	}

	sort.Slice(idx.entities, func(i, j int) bool { return idx.entities[i].ID < idx.entities[j].ID })

	for _, e := range idx.entities {
		sort.Strings(e.Aliases)
		idx.byName[key{e.Kind, e.CanonicalName}] = append(idx.byName[key{e.Kind, e.CanonicalName}], e)

		names := append([]string{e.CanonicalName}, e.Aliases...)
		seenNorm := make(map[string]bool)
		seenBlock := make(map[string]bool)
		for i, n := range names {
			if i > 0 {
				idx.byAlias[key{e.Kind, n}] = append(idx.byAlias[key{e.Kind, n}], e)
			}
			if nn := Normalize(n); nn != "" && !seenNorm[nn] {
				seenNorm[nn] = true
				idx.byNorm[key{e.Kind, nn}] = append(idx.byNorm[key{e.Kind, nn}], e)
			}
			if bk := BlockKey(n); bk != "" && !seenBlock[bk] {
				seenBlock[bk] = true
				idx.blocks[key{e.Kind, bk}] = append(idx.blocks[key{e.Kind, bk}], e)
			}
		}
		if e.Slug != "" {
			if _, taken := idx.bySlug[e.Slug]; !taken {
				idx.bySlug[e.Slug] = e
			}
		}
		if e.Anchor != "" {
			idx.byAnchor[key{e.Kind, e.Anchor}] = e
		}
	}
	return idx, nil
}

// Len returns the number of entities.
func (x *Index) Len() int {
	return len(x.entities)
}

// Entities returns copies of all entities ordered by ID.
func (x *Index) Entities() []core.CanonicalEntity {
	out := make([]core.CanonicalEntity, len(x.entities))
	for i, e := range x.entities {
		out[i] = *e
		out[i].Aliases = append([]string(nil), e.Aliases...)
	}
	return out
}

// ByID returns the entity with the given ID.
func (x *Index) ByID(id string) (*core.CanonicalEntity, bool) {
	e, ok := x.byID[id]
	return e, ok
}

// ByName returns entities of kind whose canonical name is exactly name.
// Same-name entities with different senses are all returned, ordered by ID.
func (x *Index) ByName(kind core.EntityKind, name string) []*core.CanonicalEntity {
	return x.byName[key{kind, strings.TrimSpace(name)}]
}

// ByAlias returns entities of kind with an exact alias match.
func (x *Index) ByAlias(kind core.EntityKind, alias string) []*core.CanonicalEntity {
	return x.byAlias[key{kind, strings.TrimSpace(alias)}]
}

// ByNormalized returns entities of kind whose canonical name or an alias
// normalizes to the same form as s.
func (x *Index) ByNormalized(kind core.EntityKind, s string) []*core.CanonicalEntity {
	return x.byNorm[key{kind, Normalize(s)}]
}

// BySlug returns the entity registered for an archive author directory.
func (x *Index) BySlug(slug string) (*core.CanonicalEntity, bool) {
	e, ok := x.bySlug[slug]
	return e, ok
}

// ByAnchor returns the entity of kind defined at a glossary anchor.
func (x *Index) ByAnchor(kind core.EntityKind, anchor string) (*core.CanonicalEntity, bool) {
	e, ok := x.byAnchor[key{kind, anchor}]
	return e, ok
}

// Block returns the fuzzy candidates of kind sharing the blocking key.
func (x *Index) Block(kind core.EntityKind, blockKey string) []*core.CanonicalEntity {
	return x.blocks[key{kind, blockKey}]
}

func mergeEntity(dst, src *core.CanonicalEntity) {
	seen := make(map[string]bool, len(dst.Aliases))
	for _, a := range dst.Aliases {
		seen[a] = true
	}
	for _, a := range src.Aliases {
		if !seen[a] && a != dst.CanonicalName {
			seen[a] = true
			dst.Aliases = append(dst.Aliases, a)
		}
	}
	if src.CanonicalName != dst.CanonicalName && src.CanonicalName != "" && !seen[src.CanonicalName] {
		dst.Aliases = append(dst.Aliases, src.CanonicalName)
	}
	if dst.Slug == "" {
		dst.Slug = src.Slug
	}
	if dst.Anchor == "" {
		dst.Anchor = src.Anchor
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
}
