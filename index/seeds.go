package index

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/archivist/core"
)

// Seed is an entity supplied outside the glossary, such as the author and
// periodical lists published by the archive.
type Seed struct {
	ID          string   `yaml:"id"`
	Kind        string   `yaml:"kind"`
	Name        string   `yaml:"name"`
	Aliases     []string `yaml:"aliases"`
	Slug        string   `yaml:"slug"`
	Anchor      string   `yaml:"anchor"`
	Description string   `yaml:"description"`
}

type seedFile struct {
	Entities []Seed `yaml:"entities"`
}

// Entity converts the seed into a canonical entity, deriving an ID from the
// kind and name when none is given.
func (s Seed) Entity() (*core.CanonicalEntity, error) {
	kind := core.EntityKind(s.Kind)
	if err := core.ValidateEntityKind(kind); err != nil {
		return nil, fmt.Errorf("%w: seed %q: %w", ErrSeedFormat, s.Name, err)
	}
	id := s.ID
	if id == "" {
		id = fmt.Sprintf("%s:%s", kind, Slugify(s.Name))
	}
	return &core.CanonicalEntity{
		ID:            id,
		Kind:          kind,
		CanonicalName: s.Name,
		Aliases:       dedupe(append([]string(nil), s.Aliases...)),
		Slug:          s.Slug,
		Anchor:        s.Anchor,
		Description:   s.Description,
	}, nil
}

// ParseSeeds reads a YAML seed document with a top-level "entities" list.
func ParseSeeds(r io.Reader) ([]Seed, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrSeedFormat, err)
	}
	for i, s := range f.Entities {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: entity %d has no name", ErrSeedFormat, i)
		}
	}
	return f.Entities, nil
}

// LoadSeeds reads seed files from disk in order.
func LoadSeeds(paths ...string) ([]Seed, error) {
	var all []Seed
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open seed file: %w", err)
		}
		seeds, err := ParseSeeds(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		all = append(all, seeds...)
	}
	return all, nil
}
