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


package archivist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/archivist/config"
	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/extract"
	"github.com/poiesic/archivist/graph"
	"github.com/poiesic/archivist/htmldoc"
	"github.com/poiesic/archivist/index"
	"github.com/poiesic/archivist/ingestion"
	"github.com/poiesic/archivist/linker"
	"github.com/poiesic/archivist/storage"
	"github.com/poiesic/archivist/storage/badger"
	"github.com/poiesic/archivist/storage/sqlite"
)

var (
	// ErrNoIndex is returned by LoadIndex before any index has been saved.
	ErrNoIndex = errors.New("no entity index stored; run build-index first")

	// ErrNoGlossary indicates neither a glossary nor a corpus directory is configured.
	ErrNoGlossary = errors.New("no glossary directory configured")
)

// Archive owns the stores of one extraction deployment.
type Archive struct {
	cfg    *config.Config
	repos  *badger.Repositories
	edges  *sqlite.EdgeStore
	logger *slog.Logger
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveOptions)

type archiveOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// InMemory keeps every store in memory.
func InMemory() ArchiveOption {
	return func(o *archiveOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) ArchiveOption {
	return func(o *archiveOptions) {
		o.logger = logger
	}
}

// Open opens the record store and the edge store named by cfg.
func Open(cfg *config.Config, opts ...ArchiveOption) (*Archive, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	options := &archiveOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	recordsPath, edgesPath := cfg.Paths.Records, cfg.Paths.Edges
	if options.inMemory {
		recordsPath, edgesPath = "", sqlite.MemoryPath
	}

	backend, err := badger.OpenBackend(recordsPath, options.inMemory)
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}
	edges, err := sqlite.Open(edgesPath)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("opening edge store: %w", err)
	}

	return &Archive{
		cfg:    cfg,
		repos:  badger.NewRepositories(backend),
		edges:  edges,
		logger: options.logger,
	}, nil
}

// Close closes both stores.
func (a *Archive) Close() error {
	if err := a.edges.Close(); err != nil {
		a.logger.Error("error closing edge store", "err", err)
		return err
	}
	if err := a.repos.Close(); err != nil {
		a.logger.Error("error closing record store", "err", err)
		return err
	}
	return nil
}

// Config returns the configuration the archive was opened with.
func (a *Archive) Config() *config.Config {
	return a.cfg
}

func (a *Archive) Records() storage.RecordRepository {
	return a.repos.Records
}

func (a *Archive) Edges() storage.EdgeRepository {
	return a.edges
}

func (a *Archive) ReviewQueue() storage.ReviewQueue {
	return a.repos.Review
}

func (a *Archive) Checkpoints() storage.CheckpointRepository {
	return a.repos.Checkpoints
}

// BuildIndex builds the entity index from parsed glossary pages and seeds.
func BuildIndex(glossary []*core.RawDocument, seeds []index.Seed, opts ...index.Option) (*index.Index, error) {
	return index.Build(glossary, append([]index.Option{index.WithSeeds(seeds...)}, opts...)...)
}

// BuildIndex parses the configured glossary directory and seed files,
// builds the index and stores it for later runs.
func (a *Archive) BuildIndex(ctx context.Context) (*index.Index, error) {
	dir := a.cfg.Paths.Glossary
	if dir == "" && a.cfg.Paths.Corpus != "" {
		dir = filepath.Join(a.cfg.Paths.Corpus, "glossary")
	}
	if dir == "" {
		return nil, ErrNoGlossary
	}
	src, err := htmldoc.NewDirSource(dir, htmldoc.WithPrefix("glossary"), htmldoc.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	pages, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading glossary: %w", err)
	}
	seeds, err := index.LoadSeeds(a.cfg.Paths.Seeds...)
	if err != nil {
		return nil, err
	}

	idx, err := BuildIndex(pages, seeds, index.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	if err := a.SaveIndex(ctx, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// SaveIndex replaces the stored index with idx.
func (a *Archive) SaveIndex(ctx context.Context, idx *index.Index) error {
	if err := a.repos.Entities.ReplaceEntities(ctx, idx.Entities()); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	return nil
}

// LoadIndex rebuilds the index saved by BuildIndex or SaveIndex.
func (a *Archive) LoadIndex(ctx context.Context) (*index.Index, error) {
	entities, err := a.repos.Entities.LoadEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}
	if len(entities) == 0 {
		return nil, ErrNoIndex
	}
	return index.FromEntities(entities)
}

// NewProcessor wires the linker, extractor and graph builder for idx from
// the configuration. catalog may be nil, in which case every internal link
// inside the corpus root counts as resolved.
func (a *Archive) NewProcessor(idx *index.Index, catalog graph.Catalog) (*ingestion.Processor, error) {
	l, err := linker.New(idx,
		linker.WithFuzzyThreshold(a.cfg.Linker.FuzzyThreshold),
		linker.WithTieMargin(a.cfg.Linker.TieMargin),
		linker.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	reg, err := a.cfg.Registry()
	if err != nil {
		return nil, err
	}
	ex, err := extract.New(l,
		extract.WithRegistry(reg),
		extract.WithDenylist(a.cfg.Extraction.Denylist...),
		extract.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}

	graphOpts := []graph.Option{
		graph.WithHosts(a.cfg.Graph.Hosts...),
		graph.WithIndex(idx),
		graph.WithLogger(a.logger),
	}
	if catalog != nil {
		graphOpts = append(graphOpts, graph.WithCatalog(catalog))
	}
	g, err := graph.New(graphOpts...)
	if err != nil {
		return nil, err
	}

	return ingestion.NewProcessor(ex, l,
		ingestion.WithThresholds(a.cfg.Classifier),
		ingestion.WithBaseURL(a.cfg.Graph.BaseURL),
		ingestion.WithGraphBuilder(g),
		ingestion.WithProcessorLogger(a.logger),
	)
}

// NewPipeline creates a pipeline that stores records, edges, ambiguities
// and checkpoints in the archive. opts are applied after the configured
// settings.
func (a *Archive) NewPipeline(processor *ingestion.Processor, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	p := a.cfg.Pipeline
	base := []ingestion.Option{
		ingestion.WithEdgeSink(a.edges),
		ingestion.WithReviewQueue(a.repos.Review),
		ingestion.WithCheckpoints(a.repos.Checkpoints),
		ingestion.WithRunName(p.RunName),
		ingestion.WithCheckpointInterval(p.CheckpointInterval),
		ingestion.WithRetry(p.RetryAttempts, p.RetryDelay),
		ingestion.WithLogger(a.logger),
	}
	if p.PoolSize > 0 {
		base = append(base, ingestion.WithPoolSize(p.PoolSize))
	}
	return ingestion.NewPipeline(processor, a.repos.Records, append(base, opts...)...)
}
