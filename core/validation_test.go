package core

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func validMetadata() *DocumentMetadata {
	return &DocumentMetadata{
		SourceURL:            "https://www.marxists.org/archive/marx/works/1867-c1/ch01.htm",
		Title:                "Capital Vol. I, Chapter 1",
		ContentHash:          ContentHash("commodities"),
		SectionType:          SectionArchive,
		DocType:              DocTypeChapter,
		Author:               strPtr("Karl Marx"),
		AuthorSource:         SourcePath,
		AuthorConfidence:     1.0,
		DateSource:           SourceUnknown,
		KeywordsSource:       SourceUnknown,
		ClassificationSource: SourceUnknown,
		OrganizationSource:   SourceUnknown,
		CrossReferences:      []GraphEdge{{SourceID: "/a", TargetID: "/b", EdgeType: EdgeReferenceLink, TargetResolved: true}},
		GlossaryEntities:     map[EntityKind][]string{KindPerson: {"person:marx-karl"}},
	}
}

func TestValidateMetadata(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *DocumentMetadata)
		wantErr error
	}{
		{name: "valid record", mutate: func(m *DocumentMetadata) {}, wantErr: nil},
		{name: "missing title", mutate: func(m *DocumentMetadata) { m.Title = "" }, wantErr: ErrMissingRequired},
		{name: "missing content hash", mutate: func(m *DocumentMetadata) { m.ContentHash = "" }, wantErr: ErrMissingRequired},
		{name: "unknown doc type", mutate: func(m *DocumentMetadata) { m.DocType = "pamphlet" }, wantErr: ErrInvalidDocType},
		{
			name:    "author present with unknown source",
			mutate:  func(m *DocumentMetadata) { m.AuthorSource = SourceUnknown },
			wantErr: ErrProvenanceMismatch,
		},
		{
			name:    "author present with zero confidence",
			mutate:  func(m *DocumentMetadata) { m.AuthorConfidence = 0 },
			wantErr: ErrProvenanceMismatch,
		},
		{
			name:    "null date with nonzero confidence",
			mutate:  func(m *DocumentMetadata) { m.DateConfidence = 0.5 },
			wantErr: ErrProvenanceMismatch,
		},
		{
			name:    "confidence above one",
			mutate:  func(m *DocumentMetadata) { m.AuthorConfidence = 1.2 },
			wantErr: ErrConfidenceRange,
		},
		{
			name:    "empty keyword list is a value",
			mutate:  func(m *DocumentMetadata) { m.Keywords = []string{} },
			wantErr: ErrProvenanceMismatch,
		},
		{
			name: "co-authors without author",
			mutate: func(m *DocumentMetadata) {
				m.Author = nil
				m.AuthorSource = SourceUnknown
				m.AuthorConfidence = 0
				m.AuthorsAlt = []string{"Frederick Engels"}
			},
			wantErr: ErrProvenanceMismatch,
		},
		{
			name:    "bad entity kind",
			mutate:  func(m *DocumentMetadata) { m.GlossaryEntities["thing"] = []string{"x"} },
			wantErr: ErrInvalidEntityKind,
		},
		{
			name:    "bad edge type",
			mutate:  func(m *DocumentMetadata) { m.CrossReferences[0].EdgeType = "see_also" },
			wantErr: ErrInvalidEdgeType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMetadata()
			tt.mutate(m)
			err := ValidateMetadata(m)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateMetadata() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMetadata() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidMetadata) {
				t.Errorf("ValidateMetadata() error = %v, want wrapped %v", err, ErrInvalidMetadata)
			}
		})
	}
}

func TestValidateMetadata_Nil(t *testing.T) {
	if err := ValidateMetadata(nil); !errors.Is(err, ErrInvalidMetadata) {
		t.Errorf("ValidateMetadata(nil) error = %v", err)
	}
}

func TestValidateEntity(t *testing.T) {
	tests := []struct {
		name    string
		entity  *CanonicalEntity
		wantErr error
	}{
		{name: "valid", entity: &CanonicalEntity{ID: "person:marx-karl", Kind: KindPerson, CanonicalName: "Karl Marx"}},
		{name: "nil", entity: nil, wantErr: ErrInvalidEntity},
		{name: "missing id", entity: &CanonicalEntity{Kind: KindPerson, CanonicalName: "Karl Marx"}, wantErr: ErrMissingRequired},
		{name: "missing name", entity: &CanonicalEntity{ID: "x", Kind: KindTerm}, wantErr: ErrMissingRequired},
		{name: "bad kind", entity: &CanonicalEntity{ID: "x", Kind: "deity", CanonicalName: "Zeus"}, wantErr: ErrInvalidEntityKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntity(tt.entity)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEntity() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEntity() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    *GraphEdge
		wantErr error
	}{
		{name: "valid external", edge: &GraphEdge{SourceID: "/a", TargetID: "https://example.org/", EdgeType: EdgeExternal}},
		{name: "nil", edge: nil, wantErr: ErrInvalidEdge},
		{name: "missing target", edge: &GraphEdge{SourceID: "/a", EdgeType: EdgeCrossSubject}, wantErr: ErrMissingRequired},
		{name: "bad type", edge: &GraphEdge{SourceID: "/a", TargetID: "/b", EdgeType: "sibling"}, wantErr: ErrInvalidEdgeType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEdge(tt.edge)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEdge() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEdge() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
