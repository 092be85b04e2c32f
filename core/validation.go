// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
)

// ValidateMetadata checks required fields and the provenance invariant:
// a non-null field has a known source and confidence in (0,1]; a null field
// has confidence 0 and source "unknown".
func ValidateMetadata(m *DocumentMetadata) error {
	if m == nil {
		return fmt.Errorf("%w: metadata is nil", ErrInvalidMetadata)
	}

	required := map[string]string{
		"source_url":   m.SourceURL,
		"title":        m.Title,
		"content_hash": m.ContentHash,
		"section_type": string(m.SectionType),
		"doc_type":     string(m.DocType),
	}
	for _, name := range []string{"source_url", "title", "content_hash", "section_type", "doc_type"} {
		if required[name] == "" {
			return fmt.Errorf("%w: %w: %s", ErrInvalidMetadata, ErrMissingRequired, name)
		}
	}

	if err := ValidateDocType(m.DocType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}

	checks := []struct {
		name       string
		present    bool
		source     FieldSource
		confidence float64
	}{
		{"author", m.Author != nil, m.AuthorSource, m.AuthorConfidence},
		{"date_written", m.DateWritten != nil, m.DateSource, m.DateConfidence},
		{"keywords", m.Keywords != nil, m.KeywordsSource, m.KeywordsConfidence},
		{"classification", m.Classification != nil, m.ClassificationSource, m.ClassificationConfidence},
		{"organization", m.Organization != nil, m.OrganizationSource, m.OrganizationConfidence},
	}
	for _, c := range checks {
		if err := ValidateProvenance(c.present, c.source, c.confidence); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidMetadata, c.name, err)
		}
	}

	if m.Author == nil && len(m.AuthorsAlt) > 0 {
		return fmt.Errorf("%w: authors_alt without author: %w", ErrInvalidMetadata, ErrProvenanceMismatch)
	}

	for kind := range m.GlossaryEntities {
		if err := ValidateEntityKind(kind); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
		}
	}

	for i := range m.CrossReferences {
		if err := ValidateEdge(&m.CrossReferences[i]); err != nil {
			return fmt.Errorf("%w: cross_references[%d]: %w", ErrInvalidMetadata, i, err)
		}
	}

	return nil
}

// ValidateProvenance checks one field's value/source/confidence triple.
func ValidateProvenance(present bool, source FieldSource, confidence float64) error {
	if confidence < 0 || confidence > 1 {
		return fmt.Errorf("%w: %v", ErrConfidenceRange, confidence)
	}
	if present {
		if source == "" || source == SourceUnknown || confidence == 0 {
			return fmt.Errorf("%w: value present with source %q confidence %v", ErrProvenanceMismatch, source, confidence)
		}
		return nil
	}
	if source != SourceUnknown || confidence != 0 {
		return fmt.Errorf("%w: null value with source %q confidence %v", ErrProvenanceMismatch, source, confidence)
	}
	return nil
}

// ValidateEntity checks a canonical entity before it enters the index.
func ValidateEntity(e *CanonicalEntity) error {
	if e == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}
	if e.ID == "" {
		return fmt.Errorf("%w: %w: id", ErrInvalidEntity, ErrMissingRequired)
	}
	if e.CanonicalName == "" {
		return fmt.Errorf("%w: %w: canonical_name", ErrInvalidEntity, ErrMissingRequired)
	}
	if err := ValidateEntityKind(e.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return nil
}

// ValidateEdge checks a graph edge.
func ValidateEdge(e *GraphEdge) error {
	if e == nil {
		return fmt.Errorf("%w: edge is nil", ErrInvalidEdge)
	}
	if e.SourceID == "" || e.TargetID == "" {
		return fmt.Errorf("%w: %w: endpoint", ErrInvalidEdge, ErrMissingRequired)
	}
	switch e.EdgeType {
	case EdgeAuthorReference, EdgeCrossSubject, EdgeReferenceLink, EdgeHistoricalContext, EdgeExternal:
		return nil
	}
	return fmt.Errorf("%w: %w: %q", ErrInvalidEdge, ErrInvalidEdgeType, e.EdgeType)
}

// ValidateEntityKind checks an entity kind value.
func ValidateEntityKind(kind EntityKind) error {
	for _, k := range EntityKinds {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidEntityKind, kind)
}

// ValidateDocType checks a document type value.
func ValidateDocType(t DocType) error {
	switch t {
	case DocTypeIndex, DocTypeArticle, DocTypeChapter, DocTypeLetter, DocTypePeriodicalIssue,
		DocTypeGlossaryEntry, DocTypeLegalDocument, DocTypeMultimedia:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidDocType, t)
}
