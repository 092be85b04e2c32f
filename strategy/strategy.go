package strategy

import (
	"fmt"
	"sort"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/linker"
)

// Input is what a strategy may read. Linker may be nil, in which case
// strategies that validate names against the index find nothing. Recorder,
// when set, receives the links a strategy refused as ambiguous.
type Input struct {
	Doc      *core.RawDocument
	Linker   *linker.Linker
	Denylist Denylist
	Recorder linker.Recorder

	field core.Field
}

// link resolves raw against kind and reports an ambiguous result to the
// recorder under the running strategy's field.
func (in *Input) link(raw string, kind core.EntityKind) linker.Match {
	m := in.Linker.Link(raw, kind)
	if m.Status == linker.StatusAmbiguous && in.Recorder != nil {
		in.Recorder.RecordAmbiguity(core.Ambiguity{
			DocumentID:   core.DocumentIDFromURL(in.Doc.Path),
			Field:        string(in.field),
			Raw:          raw,
			Kind:         kind,
			CandidateIDs: m.Candidates,
			Reason:       m.Reason,
		})
	}
	return m
}

// Func finds values for a field. It returns nil when the signal is absent.
type Func func(in *Input) ([]string, error)

// Strategy is a named, provenance-carrying extraction function.
type Strategy struct {
	ID         string
	Field      core.Field
	Source     core.FieldSource
	Confidence float64
	fn         Func
}

// New defines a strategy.
func New(id string, field core.Field, source core.FieldSource, confidence float64, fn Func) Strategy {
	return Strategy{ID: id, Field: field, Source: source, Confidence: confidence, fn: fn}
}

// Run applies the strategy. A nil candidate with a nil error means no signal.
func (s Strategy) Run(in *Input) (*core.FieldCandidate, error) {
	scoped := *in
	scoped.field = s.Field
	values, err := s.fn(&scoped)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.ID, err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return &core.FieldCandidate{
		Strategy:   s.ID,
		Value:      values,
		Source:     s.Source,
		Confidence: s.Confidence,
	}, nil
}

// Catalog maps strategy IDs to strategies. It is read-only after creation.
type Catalog struct {
	byID map[string]Strategy
}

// NewCatalog builds a catalog, rejecting duplicate or incomplete definitions.
func NewCatalog(strategies ...Strategy) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		if s.ID == "" || s.fn == nil || s.Source == "" || s.Source == core.SourceUnknown {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, s.ID)
		}
		if s.Confidence <= 0 || s.Confidence > 1 {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidStrategy, s.ID, core.ErrConfidenceRange)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStrategy, s.ID)
		}
		c.byID[s.ID] = s
	}
	return c, nil
}

// Lookup returns the strategy with the given ID.
func (c *Catalog) Lookup(id string) (Strategy, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// IDs returns all strategy IDs in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Builtin returns the built-in strategies.
func Builtin() []Strategy {
	return []Strategy{
		New("author.path", core.FieldAuthor, core.SourcePath, 1.0, authorFromPath),
		New("author.title", core.FieldAuthor, core.SourceTitle, 0.8, authorFromTitle),
		New("author.keyword", core.FieldAuthor, core.SourceKeyword, 0.7, authorFromKeyword),
		New("author.organization", core.FieldAuthor, core.SourceOrganizationInference, 0.9, organizationFromAcronym),
		New("author.tag", core.FieldAuthor, core.SourceTag, 0.6, authorFromTag),
		New("author.byline", core.FieldAuthor, core.SourceBodyPattern, 0.5, authorFromByline),

		New("date.path_year", core.FieldDate, core.SourcePath, 0.9, dateFromPathYear),
		New("date.title", core.FieldDate, core.SourceTitle, 0.8, dateFromTitle),
		New("date.filename", core.FieldDate, core.SourcePath, 0.7, dateFromFilename),
		New("date.tag", core.FieldDate, core.SourceTag, 0.6, dateFromTag),
		New("date.provenance", core.FieldDate, core.SourceBodyPattern, 0.5, dateFromProvenance),

		New("keywords.tag", core.FieldKeywords, core.SourceTag, 0.6, keywordsFromTag),
		New("classification.tag", core.FieldClassification, core.SourceTag, 0.6, classificationFromTag),
		New("organization.acronym", core.FieldOrganization, core.SourceOrganizationInference, 0.9, organizationFromAcronym),
		New("organization.tag", core.FieldOrganization, core.SourceTag, 0.6, organizationFromTag),
	}
}

var defaultCatalog = func() *Catalog {
	c, err := NewCatalog(Builtin()...)
	if err != nil {
		panic(err)
	}
	return c
}()

// Default returns the catalog of built-in strategies.
func Default() *Catalog {
	return defaultCatalog
}
