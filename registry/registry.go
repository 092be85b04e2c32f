package registry

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/strategy"
)

// Row is one entry of the table.
type Row struct {
	Section    core.Section `yaml:"section"`
	Field      core.Field   `yaml:"field"`
	Strategies []string     `yaml:"strategies"`
}

type key struct {
	section core.Section
	field   core.Field
}

// Registry is a read-only (section, field) -> strategy chain table.
type Registry struct {
	rows map[key][]string
}

// New builds a registry from rows, validating every ID against catalog.
// A later row for the same pair replaces an earlier one.
func New(catalog *strategy.Catalog, rows ...Row) (*Registry, error) {
	r := &Registry{rows: make(map[key][]string, len(rows))}
	for _, row := range rows {
		if err := validateRow(catalog, row); err != nil {
			return nil, err
		}
		r.rows[key{row.Section, row.Field}] = append([]string(nil), row.Strategies...)
	}
	return r, nil
}

// Override returns a copy of r with rows replaced or added.
func (r *Registry) Override(catalog *strategy.Catalog, rows ...Row) (*Registry, error) {
	merged := r.Rows()
	merged = append(merged, rows...)
	return New(catalog, merged...)
}

// Lookup returns the strategy chain for a pair. Unknown pairs yield an empty
// chain, never an error.
func (r *Registry) Lookup(section core.Section, field core.Field) []string {
	return append([]string(nil), r.rows[key{section, field}]...)
}

// Rows returns the table ordered by section then field.
func (r *Registry) Rows() []Row {
	out := make([]Row, 0, len(r.rows))
	for k, ids := range r.rows {
		out = append(out, Row{Section: k.section, Field: k.field, Strategies: append([]string(nil), ids...)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		return out[i].Field < out[j].Field
	})
	return out
}

func validateRow(catalog *strategy.Catalog, row Row) error {
	if row.Section == "" {
		return fmt.Errorf("%w: empty section", ErrInvalidRow)
	}
	known := false
	for _, f := range core.Fields {
		if f == row.Field {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %s: %w: %q", ErrInvalidRow, row.Section, ErrUnknownField, row.Field)
	}
	for _, id := range row.Strategies {
		s, ok := catalog.Lookup(id)
		if !ok {
			return fmt.Errorf("%w: %s/%s: %w: %q", ErrInvalidRow, row.Section, row.Field, strategy.ErrUnknownStrategy, id)
		}
		if s.Field != row.Field {
			return fmt.Errorf("%w: %s/%s: %w: %q extracts %s", ErrInvalidRow, row.Section, row.Field, ErrFieldMismatch, id, s.Field)
		}
	}
	return nil
}

type rowsFile struct {
	Rules []Row `yaml:"rules"`
}

// ParseRows reads a YAML document with a top-level "rules" list.
func ParseRows(r io.Reader) ([]Row, error) {
	var f rowsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}
	return f.Rules, nil
}

// LoadRows reads a rules file from disk.
func LoadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rules file: %w", err)
	}
	defer f.Close()
	return ParseRows(f)
}

// FromConfig overlays the default table with the rows of rulesFile, when
// given, and then with rows. Each row replaces the default chain of its pair.
func FromConfig(catalog *strategy.Catalog, rulesFile string, rows ...Row) (*Registry, error) {
	var overlay []Row
	if rulesFile != "" {
		fileRows, err := LoadRows(rulesFile)
		if err != nil {
			return nil, err
		}
		overlay = append(overlay, fileRows...)
	}
	overlay = append(overlay, rows...)
	return Default().Override(catalog, overlay...)
}
