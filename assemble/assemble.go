package assemble

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/extract"
)

// Input is everything known about one document.
type Input struct {
	Doc       *core.RawDocument
	BaseURL   string
	DocType   core.DocType
	Structure core.DocumentStructure
	Fields    extract.Results
	Entities  map[core.EntityKind][]string
	Edges     []core.GraphEdge
	Warnings  []core.Warning // extraction, linking and graph warnings in that order
}

// Assemble builds the record for in.Doc and validates it.
func Assemble(in Input) (*core.DocumentMetadata, error) {
	if in.Doc == nil {
		return nil, ErrNilDocument
	}
	doc := in.Doc

	m := &core.DocumentMetadata{
		SourceURL:         core.SourceURL(in.BaseURL, doc.Path),
		Title:             title(doc),
		ContentHash:       core.ContentHash(doc.Text),
		SectionType:       doc.Section,
		DocType:           in.DocType,
		DocumentStructure: in.Structure,
	}
	if m.SectionType == "" {
		m.SectionType = core.SectionUnknown
	}

	if c := in.Fields.Winner(core.FieldAuthor); !c.IsNull() {
		m.Author = ptr(c.Value[0])
		if len(c.Value) > 1 {
			m.AuthorsAlt = slices.Clone(c.Value[1:])
		}
		m.AuthorSource, m.AuthorConfidence = c.Source, c.Confidence
	} else {
		m.AuthorSource = core.SourceUnknown
	}

	if c := in.Fields.Winner(core.FieldDate); !c.IsNull() {
		m.DateWritten = ptr(c.Value[0])
		m.DateSource, m.DateConfidence = c.Source, c.Confidence
	} else {
		m.DateSource = core.SourceUnknown
	}

	if c := in.Fields.Winner(core.FieldKeywords); !c.IsNull() {
		m.Keywords = slices.Clone(c.Value)
		m.KeywordsSource, m.KeywordsConfidence = c.Source, c.Confidence
	} else {
		m.KeywordsSource = core.SourceUnknown
	}

	if c := in.Fields.Winner(core.FieldClassification); !c.IsNull() {
		m.Classification = ptr(c.Value[0])
		m.ClassificationSource, m.ClassificationConfidence = c.Source, c.Confidence
	} else {
		m.ClassificationSource = core.SourceUnknown
	}

	if c := in.Fields.Winner(core.FieldOrganization); !c.IsNull() {
		m.Organization = ptr(c.Value[0])
		m.OrganizationSource, m.OrganizationConfidence = c.Source, c.Confidence
	} else {
		m.OrganizationSource = core.SourceUnknown
	}

	m.GlossaryEntities = entities(in.Entities)
	if len(in.Edges) > 0 {
		m.CrossReferences = slices.Clone(in.Edges)
		slices.SortStableFunc(m.CrossReferences, func(a, b core.GraphEdge) int { return a.Ordinal - b.Ordinal })
	}

	if len(in.Warnings) > 0 {
		m.Warnings = slices.Clone(in.Warnings)
	}
	if in.Structure.EncodingSuspect {
		m.Warnings = append(m.Warnings, core.Warning{
			Code:   core.WarnEncodingSuspect,
			Detail: "replacement characters or invalid UTF-8 in text",
		})
	}

	if err := core.ValidateMetadata(m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRecord, doc.Path, err)
	}
	return m, nil
}

// title falls back to the first heading, then the file name.
func title(doc *core.RawDocument) string {
	if t := strings.TrimSpace(doc.Title); t != "" {
		return t
	}
	for _, h := range doc.Headings {
		if t := strings.TrimSpace(h.Text); t != "" {
			return t
		}
	}
	return path.Base(doc.Path)
}

func entities(in map[core.EntityKind][]string) map[core.EntityKind][]string {
	var out map[core.EntityKind][]string
	for kind, ids := range in {
		if len(ids) == 0 {
			continue
		}
		if out == nil {
			out = make(map[core.EntityKind][]string, len(in))
		}
		sorted := slices.Clone(ids)
		slices.Sort(sorted)
		out[kind] = slices.Compact(sorted)
	}
	return out
}

func ptr(s string) *string {
	return &s
}
