package linker

import (
	"fmt"
	"sort"
	"sync"

	"github.com/poiesic/archivist/core"
)

// Recorder receives ambiguous links for external review.
type Recorder interface {
	RecordAmbiguity(a core.Ambiguity)
}

// Collector is a Recorder that keeps ambiguities in memory.
type Collector struct {
	mu    sync.Mutex
	items []core.Ambiguity
}

var _ Recorder = (*Collector)(nil)

// RecordAmbiguity appends a.
func (c *Collector) RecordAmbiguity(a core.Ambiguity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, a)
}

// Items returns the recorded ambiguities in arrival order.
func (c *Collector) Items() []core.Ambiguity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Ambiguity(nil), c.items...)
}

// FieldValues are the extracted strings of one document that name entities.
type FieldValues struct {
	DocumentID     string
	Authors        []string
	Organization   string
	Classification string
	Keywords       []string
	Context        []string // tie-break context, usually title and keywords
}

// LinkFields resolves every entity-bearing field value. It returns the linked
// canonical IDs per kind, sorted and deduplicated, plus one warning per
// ambiguous value. Ambiguities are also sent to rec when it is non-nil.
func (l *Linker) LinkFields(v FieldValues, rec Recorder) (map[core.EntityKind][]string, []core.Warning) {
	found := make(map[core.EntityKind]map[string]bool)
	var warnings []core.Warning

	handle := func(field, raw string, kind core.EntityKind, m Match) {
		switch m.Status {
		case StatusResolved:
			if found[m.Entity.Kind] == nil {
				found[m.Entity.Kind] = make(map[string]bool)
			}
			found[m.Entity.Kind][m.Entity.ID] = true
		case StatusAmbiguous:
			warnings = append(warnings, core.Warning{
				Field:  field,
				Code:   core.WarnAmbiguousMatch,
				Detail: fmt.Sprintf("%q: %s", raw, m.Reason),
			})
			if rec != nil {
				rec.RecordAmbiguity(core.Ambiguity{
					DocumentID:   v.DocumentID,
					Field:        field,
					Raw:          raw,
					Kind:         kind,
					CandidateIDs: m.Candidates,
					Reason:       m.Reason,
				})
			}
		}
	}

	for _, a := range v.Authors {
		handle(string(core.FieldAuthor), a, core.KindPerson, l.Link(a, core.KindPerson, v.Context...))
	}
	if v.Organization != "" {
		handle(string(core.FieldOrganization), v.Organization, core.KindOrganization,
			l.Link(v.Organization, core.KindOrganization, v.Context...))
	}
	if v.Classification != "" {
		handle(string(core.FieldClassification), v.Classification, "", l.LinkAny(v.Classification, v.Context...))
	}
	for _, k := range v.Keywords {
		handle(string(core.FieldKeywords), k, "", l.LinkAny(k, v.Context...))
	}

	if len(found) == 0 {
		return nil, warnings
	}
	out := make(map[core.EntityKind][]string, len(found))
	for kind, ids := range found {
		list := make([]string, 0, len(ids))
		for id := range ids {
			list = append(list, id)
		}
		sort.Strings(list)
		out[kind] = list
	}
	return out, warnings
}
