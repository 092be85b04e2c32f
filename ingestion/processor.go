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


package ingestion

import (
	"fmt"
	"log/slog"

	"github.com/poiesic/archivist/assemble"
	"github.com/poiesic/archivist/classify"
	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/extract"
	"github.com/poiesic/archivist/graph"
	"github.com/poiesic/archivist/linker"
)

// Output is everything produced for one document.
type Output struct {
	Record      *core.DocumentMetadata
	Edges       []core.GraphEdge
	Ambiguities []core.Ambiguity
}

// Processor turns one RawDocument into an Output. It holds only immutable
// collaborators and is safe for concurrent use.
type Processor struct {
	extractor  *extract.Extractor
	linker     *linker.Linker
	graph      *graph.Builder
	thresholds classify.Thresholds
	baseURL    string
	logger     *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor) error

// WithThresholds sets the classifier thresholds.
func WithThresholds(t classify.Thresholds) ProcessorOption {
	return func(p *Processor) error {
		if err := t.Validate(); err != nil {
			return err
		}
		p.thresholds = t
		return nil
	}
}

// WithBaseURL sets the URL prefix of source_url.
func WithBaseURL(base string) ProcessorOption {
	return func(p *Processor) error {
		p.baseURL = base
		return nil
	}
}

// WithGraphBuilder replaces the default graph builder.
func WithGraphBuilder(b *graph.Builder) ProcessorOption {
	return func(p *Processor) error {
		if b != nil {
			p.graph = b
		}
		return nil
	}
}

// WithProcessorLogger sets the logger.
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// NewProcessor creates a Processor.
func NewProcessor(ex *extract.Extractor, l *linker.Linker, opts ...ProcessorOption) (*Processor, error) {
	if ex == nil {
		return nil, ErrExtractorRequired
	}
	if l == nil {
		return nil, ErrLinkerRequired
	}
	p := &Processor{
		extractor:  ex,
		linker:     l,
		thresholds: classify.DefaultThresholds(),
		baseURL:    core.DefaultBaseURL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.graph == nil {
		g, err := graph.New(graph.WithIndex(l.Index()), graph.WithLogger(p.logger))
		if err != nil {
			return nil, err
		}
		p.graph = g
	}
	p.logger = p.logger.With("component", "processor")
	return p, nil
}

// Process classifies, extracts, links, builds edges and assembles the
// record of doc. Problems with individual fields or links become warnings
// on the record; only an invalid record is an error.
func (p *Processor) Process(doc *core.RawDocument) (*Output, error) {
	if doc == nil {
		return nil, assemble.ErrNilDocument
	}
	docType, structure := classify.Classify(doc, p.thresholds)
	fields := p.extractor.ExtractAll(doc)

	var rec linker.Collector
	entities, linkWarnings := p.linker.LinkFields(fieldValues(doc, fields), &rec)
	edges, graphWarnings := p.graph.Build(doc)

	warnings := fields.Warnings()
	warnings = append(warnings, linkWarnings...)
	warnings = append(warnings, graphWarnings...)
	warnings = uniqueWarnings(warnings)
	ambiguities := uniqueAmbiguities(append(fields.Ambiguities(), rec.Items()...))

	record, err := assemble.Assemble(assemble.Input{
		Doc:       doc,
		BaseURL:   p.baseURL,
		DocType:   docType,
		Structure: structure,
		Fields:    fields,
		Entities:  entities,
		Edges:     edges,
		Warnings:  warnings,
	})
	if err != nil {
		return nil, fmt.Errorf("assemble %s: %w", doc.Path, err)
	}

	p.logger.Debug("processed document", "document", doc.Path, "doc_type", docType, "warnings", len(record.Warnings))
	return &Output{Record: record, Edges: edges, Ambiguities: ambiguities}, nil
}

// uniqueWarnings drops repeats, such as an ambiguous author reported by both
// a strategy and the field linker.
func uniqueWarnings(ws []core.Warning) []core.Warning {
	seen := make(map[core.Warning]bool, len(ws))
	out := ws[:0]
	for _, w := range ws {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func uniqueAmbiguities(as []core.Ambiguity) []core.Ambiguity {
	seen := make(map[string]bool, len(as))
	var out []core.Ambiguity
	for _, a := range as {
		key := fmt.Sprintf("%s\x00%s\x00%s\x00%v", a.Field, a.Raw, a.Kind, a.CandidateIDs)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// fieldValues collects the entity-bearing strings of the extraction.
func fieldValues(doc *core.RawDocument, fields extract.Results) linker.FieldValues {
	v := linker.FieldValues{DocumentID: core.DocumentIDFromURL(doc.Path), Context: []string{doc.Title}}
	if c := fields.Winner(core.FieldAuthor); !c.IsNull() {
		v.Authors = c.Value
	}
	if c := fields.Winner(core.FieldOrganization); !c.IsNull() {
		v.Organization = c.First()
	}
	if c := fields.Winner(core.FieldClassification); !c.IsNull() {
		v.Classification = c.First()
	}
	if c := fields.Winner(core.FieldKeywords); !c.IsNull() {
		v.Keywords = c.Value
		v.Context = append(v.Context, c.Value...)
	}
	return v
}
