package htmldoc

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/graph"
	"github.com/poiesic/archivist/ingestion"
)

// DefaultExcludedDirs are the translated subtrees of the corpus.
var DefaultExcludedDirs = []string{
	"arabic", "catala", "chinese", "deutsch", "espanol", "farsi", "francais", "greek",
	"italiano", "japanese", "korean", "polski", "portugues", "russian", "svenska", "turkce",
}

// DirSource walks a corpus mirror on disk.
type DirSource struct {
	root     string
	prefix   string
	excluded map[string]bool
	logger   *slog.Logger
}

var _ ingestion.Source = (*DirSource)(nil)

// SourceOption configures a DirSource.
type SourceOption func(*DirSource) error

// WithExcludedDirs replaces the directory names that are skipped wherever
// they occur in a path.
func WithExcludedDirs(names ...string) SourceOption {
	return func(s *DirSource) error {
		s.excluded = make(map[string]bool, len(names))
		for _, n := range names {
			s.excluded[strings.ToLower(n)] = true
		}
		return nil
	}
}

// WithPrefix sets the corpus path the root directory is mounted at, for a
// mirror of only part of the corpus such as /glossary.
func WithPrefix(prefix string) SourceOption {
	return func(s *DirSource) error {
		s.prefix = "/" + strings.Trim(prefix, "/")
		if s.prefix == "/" {
			s.prefix = ""
		}
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SourceOption {
	return func(s *DirSource) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string, opts ...SourceOption) (*DirSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotDirectory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	s := &DirSource{root: dir, logger: slog.Default()}
	if err := WithExcludedDirs(DefaultExcludedDirs...)(s); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "dirsource", "root", dir)
	return s, nil
}

// Walk yields every HTML page under the root in lexical path order. Pages
// are read and parsed only when the ref is loaded.
func (s *DirSource) Walk(ctx context.Context, fn func(ref core.DocumentRef) error) error {
	return s.walk(ctx, func(docPath, file string) error {
		return fn(core.DocumentRef{
			ID:   docPath,
			Load: func() (*core.RawDocument, error) { return ParseFile(docPath, file) },
		})
	})
}

// Paths returns the corpus path of every page Walk would yield.
func (s *DirSource) Paths(ctx context.Context) ([]string, error) {
	var out []string
	err := s.walk(ctx, func(docPath, _ string) error {
		out = append(out, docPath)
		return nil
	})
	return out, err
}

// Catalog returns the set of pages under the root, for resolving
// cross-references.
func (s *DirSource) Catalog(ctx context.Context) (graph.SetCatalog, error) {
	paths, err := s.Paths(ctx)
	if err != nil {
		return nil, err
	}
	return graph.NewSetCatalog(paths...), nil
}

// Load parses every page under the root. It is meant for small subtrees
// such as the glossary.
func (s *DirSource) Load(ctx context.Context) ([]*core.RawDocument, error) {
	var docs []*core.RawDocument
	err := s.walk(ctx, func(docPath, file string) error {
		doc, err := ParseFile(docPath, file)
		if err != nil {
			s.logger.Warn("skipping unreadable page", "document", docPath, "error", err)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	return docs, err
}

func (s *DirSource) walk(ctx context.Context, fn func(docPath, file string) error) error {
	return filepath.WalkDir(s.root, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if file != s.root && s.excluded[strings.ToLower(d.Name())] {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsPage(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(s.root, file)
		if err != nil {
			return err
		}
		return fn(s.prefix+"/"+filepath.ToSlash(rel), file)
	})
}

// ParseFile parses the page stored at file as corpus path docPath.
func ParseFile(docPath, file string) (*core.RawDocument, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(docPath, f)
}

// IsPage reports whether name is an HTML page.
func IsPage(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".htm", ".html":
		return true
	}
	return false
}
