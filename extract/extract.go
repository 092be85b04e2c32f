package extract

import (
	"fmt"
	"log/slog"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/linker"
	"github.com/poiesic/archivist/registry"
	"github.com/poiesic/archivist/strategy"
)

// Attempt records one strategy invocation.
type Attempt struct {
	Strategy  string
	Candidate *core.FieldCandidate // nil when the strategy found nothing
	Err       error
}

// Result is the outcome for one field.
type Result struct {
	Field       core.Field
	Winner      *core.FieldCandidate // nil when every attempt was null
	Attempts    []Attempt
	Warnings    []core.Warning
	Ambiguities []core.Ambiguity // links the strategies refused as ambiguous
}

// Results holds one Result per field.
type Results map[core.Field]Result

// Winner returns the winning candidate for field, or nil.
func (r Results) Winner(field core.Field) *core.FieldCandidate {
	return r[field].Winner
}

// Warnings returns all warnings in field order.
func (r Results) Warnings() []core.Warning {
	var out []core.Warning
	for _, f := range core.Fields {
		out = append(out, r[f].Warnings...)
	}
	return out
}

// Ambiguities returns all ambiguities in field order.
func (r Results) Ambiguities() []core.Ambiguity {
	var out []core.Ambiguity
	for _, f := range core.Fields {
		out = append(out, r[f].Ambiguities...)
	}
	return out
}

// Extractor applies strategy chains. It is safe for concurrent use.
type Extractor struct {
	registry *registry.Registry
	catalog  *strategy.Catalog
	linker   *linker.Linker
	denylist strategy.Denylist
	logger   *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithRegistry sets the section rule registry.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Extractor) error {
		if r == nil {
			return ErrNilRegistry
		}
		e.registry = r
		return nil
	}
}

// WithCatalog sets the strategy catalog.
func WithCatalog(c *strategy.Catalog) Option {
	return func(e *Extractor) error {
		if c == nil {
			return ErrNilCatalog
		}
		e.catalog = c
		return nil
	}
}

// WithDenylist sets the author denylist.
func WithDenylist(names ...string) Option {
	return func(e *Extractor) error {
		e.denylist = strategy.NewDenylist(names...)
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// New creates an Extractor. The linker may be nil, in which case strategies
// that validate names against the index never match.
func New(l *linker.Linker, opts ...Option) (*Extractor, error) {
	e := &Extractor{
		registry: registry.Default(),
		catalog:  strategy.Default(),
		linker:   l,
		denylist: strategy.NewDenylist(strategy.DefaultDenylist...),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	for _, row := range e.registry.Rows() {
		for _, id := range row.Strategies {
			if _, ok := e.catalog.Lookup(id); !ok {
				return nil, fmt.Errorf("%w: %q in %s/%s", strategy.ErrUnknownStrategy, id, row.Section, row.Field)
			}
		}
	}
	e.logger = e.logger.With("component", "extractor")
	return e, nil
}

// Extract runs the chain for (doc.Section, field) and returns the first
// non-null candidate with every attempt considered.
func (e *Extractor) Extract(field core.Field, doc *core.RawDocument) Result {
	var rec linker.Collector
	res := Result{Field: field}
	in := &strategy.Input{Doc: doc, Linker: e.linker, Denylist: e.denylist, Recorder: &rec}

	for _, id := range e.registry.Lookup(doc.Section, field) {
		s, ok := e.catalog.Lookup(id)
		if !ok {
			res.Attempts = append(res.Attempts, Attempt{Strategy: id, Err: strategy.ErrUnknownStrategy})
			continue
		}

		c, err := e.run(s, in)
		res.Attempts = append(res.Attempts, Attempt{Strategy: id, Candidate: c, Err: err})
		if err != nil {
			e.logger.Warn("strategy failed", "document", doc.Path, "field", field, "strategy", id, "error", err)
			res.Warnings = append(res.Warnings, core.Warning{
				Field:  string(field),
				Code:   core.WarnMalformedInput,
				Detail: err.Error(),
			})
			continue
		}
		if !c.IsNull() {
			res.Winner = c
			break
		}
	}
	res.addAmbiguities(rec.Items())
	return res
}

// addAmbiguities keeps each distinct ambiguity once and warns about it.
func (r *Result) addAmbiguities(items []core.Ambiguity) {
	seen := make(map[string]bool, len(items))
	for _, a := range items {
		key := fmt.Sprintf("%s\x00%s\x00%v", a.Raw, a.Kind, a.CandidateIDs)
		if seen[key] {
			continue
		}
		seen[key] = true
		r.Ambiguities = append(r.Ambiguities, a)
		r.Warnings = append(r.Warnings, core.Warning{
			Field:  string(r.Field),
			Code:   core.WarnAmbiguousMatch,
			Detail: fmt.Sprintf("%q: %s", a.Raw, a.Reason),
		})
	}
}

// ExtractAll extracts every field.
func (e *Extractor) ExtractAll(doc *core.RawDocument) Results {
	out := make(Results, len(core.Fields))
	for _, f := range core.Fields {
		out[f] = e.Extract(f, doc)
	}
	return out
}

func (e *Extractor) run(s strategy.Strategy, in *strategy.Input) (c *core.FieldCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			c = nil
			err = fmt.Errorf("%w: %s: panic: %v", ErrStrategyPanic, s.ID, r)
		}
	}()
	return s.Run(in)
}
