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


package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/archivist"
	"github.com/poiesic/archivist/config"
	"github.com/poiesic/archivist/graph"
	"github.com/poiesic/archivist/htmldoc"
	"github.com/poiesic/archivist/ingestion"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "archivist",
		Usage: "Metadata extraction and entity resolution for the Marxists Internet Archive",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment overrides from this file if it exists",
				Value: ".env",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "build-index",
				Usage:  "Build the canonical entity index from the glossary and seed files",
				Action: buildIndexCommand,
				Flags:  []cli.Flag{configFlag()},
			},
			{
				Name:   "run",
				Usage:  "Extract metadata for every page of the corpus",
				Action: runCommand,
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "corpus",
						Usage: "Corpus directory (overrides paths.corpus)",
					},
					&cli.StringFlag{
						Name:  "run-name",
						Usage: "Checkpoint name of the run (overrides pipeline.run_name)",
					},
					&cli.BoolFlag{
						Name:  "restart",
						Usage: "Discard the run's checkpoint and process the corpus from the start",
					},
					&cli.BoolFlag{
						Name:  "no-catalog",
						Usage: "Do not check internal link targets against the corpus",
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Print the stored record and edges of a document",
				ArgsUsage: "<document path or URL>",
				Action:    showCommand,
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "review",
						Usage: "Instead list up to N ambiguous links awaiting review",
					},
				},
			},
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to YAML configuration file",
		EnvVars: []string{"ARCHIVIST_CONFIG"},
	}
}

func buildIndexCommand(c *cli.Context) error {
	a, err := openArchive(c)
	if err != nil {
		return err
	}
	defer a.Close()

	idx, err := a.BuildIndex(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Indexed %d entities\n", idx.Len())
	return nil
}

func runCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if corpus := c.String("corpus"); corpus != "" {
		cfg.Paths.Corpus = corpus
	}
	if name := c.String("run-name"); name != "" {
		cfg.Pipeline.RunName = name
	}
	if cfg.Paths.Corpus == "" {
		return fmt.Errorf("corpus directory is required (--corpus or paths.corpus)")
	}

	logger := slog.Default().With("run_id", uuid.NewString(), "run", cfg.Pipeline.RunName)
	a, err := archivist.Open(cfg, archivist.WithLogger(logger))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Bool("restart") {
		if err := a.Checkpoints().DeleteCheckpoint(ctx, cfg.Pipeline.RunName); err != nil {
			return fmt.Errorf("discarding checkpoint: %w", err)
		}
		logger.Info("checkpoint discarded")
	}

	idx, err := a.LoadIndex(ctx)
	if err != nil {
		return err
	}
	src, err := htmldoc.NewDirSource(cfg.Paths.Corpus, htmldoc.WithLogger(logger))
	if err != nil {
		return err
	}
	paths, err := src.Paths(ctx)
	if err != nil {
		return fmt.Errorf("listing corpus: %w", err)
	}

	var catalog graph.Catalog
	if !c.Bool("no-catalog") {
		catalog = graph.NewSetCatalog(paths...)
	}
	processor, err := a.NewProcessor(idx, catalog)
	if err != nil {
		return err
	}
	progress := ingestion.NewProgressTracker(os.Stderr, len(paths), cfg.Pipeline.ReportInterval)
	pipeline, err := a.NewPipeline(processor, ingestion.WithProgress(progress))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	logger.Info("starting run", "documents", len(paths), "entities", idx.Len())
	stats, err := pipeline.Run(ctx, src)
	fmt.Fprintf(c.App.Writer, "Processed %d, failed %d, skipped %d (resumed) in %s\n",
		stats.Processed, stats.Failed, stats.Resumed, progress.Elapsed().Round(time.Millisecond))
	if ingestion.IsInterrupted(err) {
		logger.Warn("run interrupted; rerun to resume", "watermark", stats.Watermark)
		return nil
	}
	return err
}

func showCommand(c *cli.Context) error {
	a, err := openArchive(c)
	if err != nil {
		return err
	}
	defer a.Close()

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")

	if n := c.Int("review"); n > 0 {
		items, err := a.ReviewQueue().ListAmbiguities(c.Context, n)
		if err != nil {
			return err
		}
		return enc.Encode(items)
	}

	if c.NArg() != 1 {
		return fmt.Errorf("expected one document path, got %d arguments", c.NArg())
	}
	record, err := a.Records().GetRecord(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	incoming, err := a.Edges().EdgesTo(c.Context, record.DocumentID())
	if err != nil {
		return err
	}
	return enc.Encode(struct {
		Record   any `json:"record"`
		LinkedBy any `json:"linked_by"`
	}{record, incoming})
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

func openArchive(c *cli.Context) (*archivist.Archive, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return archivist.Open(cfg)
}

func setup(c *cli.Context) error {
	if err := setupLogger(c); err != nil {
		return err
	}
	if file := c.String("env-file"); file != "" {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
