package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/archivist/classify"
	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/graph"
	"github.com/poiesic/archivist/linker"
	"github.com/poiesic/archivist/registry"
	"github.com/poiesic/archivist/strategy"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ARCHIVIST"

// Config is the complete runtime configuration.
type Config struct {
	Paths      Paths               `yaml:"paths" envconfig:"PATHS"`
	Linker     Linker              `yaml:"linker" envconfig:"LINKER"`
	Classifier classify.Thresholds `yaml:"classifier" envconfig:"CLASSIFIER"`
	Extraction Extraction          `yaml:"extraction" envconfig:"EXTRACTION"`
	Graph      Graph               `yaml:"graph" envconfig:"GRAPH"`
	Pipeline   Pipeline            `yaml:"pipeline" envconfig:"PIPELINE"`
}

// Paths locates inputs and stores.
type Paths struct {
	Corpus   string   `yaml:"corpus" envconfig:"CORPUS"`
	Glossary string   `yaml:"glossary" envconfig:"GLOSSARY"`
	Seeds    []string `yaml:"seeds" envconfig:"SEEDS"`
	Records  string   `yaml:"records" envconfig:"RECORDS"` // badger directory
	Edges    string   `yaml:"edges" envconfig:"EDGES"`     // sqlite file
}

// Linker tunes entity resolution.
type Linker struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" envconfig:"FUZZY_THRESHOLD"`
	TieMargin      float64 `yaml:"tie_margin" envconfig:"TIE_MARGIN"`
}

// Extraction tunes field extraction.
type Extraction struct {
	RulesFile string         `yaml:"rules_file" envconfig:"RULES_FILE"`
	Rules     []registry.Row `yaml:"rules" ignored:"true"`
	Denylist  []string       `yaml:"denylist" envconfig:"DENYLIST"`
}

// Graph tunes cross-reference extraction.
type Graph struct {
	BaseURL string   `yaml:"base_url" envconfig:"BASE_URL"`
	Hosts   []string `yaml:"hosts" envconfig:"HOSTS"`
}

// Pipeline tunes the worker pool and its bookkeeping.
type Pipeline struct {
	RunName            string        `yaml:"run_name" envconfig:"RUN_NAME"`
	PoolSize           int           `yaml:"pool_size" envconfig:"POOL_SIZE"` // 0 picks from the CPU count
	CheckpointInterval int           `yaml:"checkpoint_interval" envconfig:"CHECKPOINT_INTERVAL"`
	ReportInterval     int           `yaml:"report_interval" envconfig:"REPORT_INTERVAL"`
	RetryAttempts      int           `yaml:"retry_attempts" envconfig:"RETRY_ATTEMPTS"`
	RetryDelay         time.Duration `yaml:"retry_delay" envconfig:"RETRY_DELAY"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Paths: Paths{
			Records: "data/records",
			Edges:   "data/edges.db",
		},
		Linker: Linker{
			FuzzyThreshold: linker.DefaultFuzzyThreshold,
			TieMargin:      linker.DefaultTieMargin,
		},
		Classifier: classify.DefaultThresholds(),
		Extraction: Extraction{
			Denylist: append([]string(nil), strategy.DefaultDenylist...),
		},
		Graph: Graph{
			BaseURL: core.DefaultBaseURL,
			Hosts:   append([]string(nil), graph.DefaultHosts...),
		},
		Pipeline: Pipeline{
			RunName:            "corpus",
			CheckpointInterval: 500,
			ReportInterval:     100,
			RetryAttempts:      3,
			RetryDelay:         100 * time.Millisecond,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path, when path
// is not empty, and then with the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening config file: %w", err)
		}
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays YAML onto cfg. Unknown keys are errors.
func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.Paths.Records == "" || c.Paths.Edges == "" {
		return ErrMissingStoragePath
	}
	if c.Linker.FuzzyThreshold <= 0 || c.Linker.FuzzyThreshold > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidFuzzyThreshold, c.Linker.FuzzyThreshold)
	}
	if c.Linker.TieMargin < 0 || c.Linker.TieMargin >= 1 {
		return fmt.Errorf("%w: %v", ErrInvalidTieMargin, c.Linker.TieMargin)
	}
	if err := c.Classifier.Validate(); err != nil {
		return err
	}
	if len(c.Graph.Hosts) == 0 {
		return ErrNoHosts
	}

	p := c.Pipeline
	if p.RunName == "" {
		return ErrEmptyRunName
	}
	if p.PoolSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPoolSize, p.PoolSize)
	}
	if p.CheckpointInterval < 1 || p.ReportInterval < 1 {
		return fmt.Errorf("%w: checkpoint %d, report %d", ErrInvalidInterval, p.CheckpointInterval, p.ReportInterval)
	}
	if p.RetryAttempts < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxAttempts, p.RetryAttempts)
	}
	if p.RetryDelay < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRetryDelay, p.RetryDelay)
	}
	return nil
}

// Registry builds the section rule registry: the default table overlaid
// with the rules file and then the inline rules.
func (c *Config) Registry() (*registry.Registry, error) {
	return registry.FromConfig(strategy.Default(), c.Extraction.RulesFile, c.Extraction.Rules...)
}
