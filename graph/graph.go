package graph

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/index"
)

// DefaultHosts are the host names whose links stay inside the corpus.
var DefaultHosts = []string{"www.marxists.org", "marxists.org"}

var prefixTypes = []struct {
	prefix string
	edge   core.EdgeType
}{
	{"/archive/", core.EdgeAuthorReference},
	{"/subject/", core.EdgeCrossSubject},
	{"/history/", core.EdgeHistoricalContext},
}

// Builder extracts edges. It is immutable and safe for concurrent use.
type Builder struct {
	hosts   map[string]bool
	catalog Catalog
	idx     *index.Index
	logger  *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithHosts replaces the corpus host list.
func WithHosts(hosts ...string) Option {
	return func(b *Builder) error {
		if len(hosts) == 0 {
			return ErrNoHosts
		}
		b.hosts = make(map[string]bool, len(hosts))
		for _, h := range hosts {
			b.hosts[strings.ToLower(h)] = true
		}
		return nil
	}
}

// WithCatalog marks internal targets missing from c as unresolved.
func WithCatalog(c Catalog) Option {
	return func(b *Builder) error {
		b.catalog = c
		return nil
	}
}

// WithIndex resolves glossary anchors to entity IDs.
func WithIndex(idx *index.Index) Option {
	return func(b *Builder) error {
		b.idx = idx
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger != nil {
			b.logger = logger
		}
		return nil
	}
}

// New creates a Builder.
func New(opts ...Option) (*Builder, error) {
	b := &Builder{logger: slog.Default()}
	if err := WithHosts(DefaultHosts...)(b); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	b.logger = b.logger.With("component", "graph")
	return b, nil
}

// Build returns one edge per usable link of doc, ordered by link position.
// Same-document anchors, mailto: and javascript: links produce no edge.
// Unparseable hrefs and unresolved targets are reported as warnings.
func (b *Builder) Build(doc *core.RawDocument) ([]core.GraphEdge, []core.Warning) {
	var (
		edges      []core.GraphEdge
		warnings   []core.Warning
		unresolved int
		sourceID   = core.DocumentIDFromURL(doc.Path)
	)
	for i, link := range doc.Links {
		edge, ok, err := b.edge(doc.Path, sourceID, link.Href)
		if err != nil {
			warnings = append(warnings, core.Warning{
				Field:  "cross_references",
				Code:   core.WarnMalformedInput,
				Detail: fmt.Sprintf("link %d: %v", i, err),
			})
			continue
		}
		if !ok {
			continue
		}
		edge.Ordinal = i
		if !edge.TargetResolved && edge.EdgeType != core.EdgeExternal {
			unresolved++
		}
		edges = append(edges, edge)
	}
	if unresolved > 0 {
		b.logger.Debug("unresolved links", "document", doc.Path, "count", unresolved)
		warnings = append(warnings, core.Warning{
			Field:  "cross_references",
			Code:   core.WarnUnresolvedLink,
			Detail: fmt.Sprintf("%d internal links did not resolve", unresolved),
		})
	}
	return edges, warnings
}

// edge resolves href against docPath. sourceID is the cleaned document ID
// recorded on the edge.
func (b *Builder) edge(docPath, sourceID, href string) (core.GraphEdge, bool, error) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return core.GraphEdge{}, false, nil
	}
	u, err := url.Parse(href)
	if err != nil {
		return core.GraphEdge{}, false, err
	}
	switch strings.ToLower(u.Scheme) {
	case "mailto", "javascript":
		return core.GraphEdge{}, false, nil
	case "", "http", "https":
	default:
		return core.GraphEdge{SourceID: sourceID, TargetID: href, EdgeType: core.EdgeExternal}, true, nil
	}

	if u.Host != "" && !b.hosts[strings.ToLower(u.Hostname())] {
		target := *u
		target.Fragment = ""
		return core.GraphEdge{SourceID: sourceID, TargetID: target.String(), EdgeType: core.EdgeExternal}, true, nil
	}
	if u.Host == "" && u.Path == "" {
		// Query-only or fragment-only reference to the same document.
		return core.GraphEdge{}, false, nil
	}

	ref := u.Path
	if u.Host != "" && ref == "" {
		// Bare corpus host: the site root.
		ref = "/"
	}
	target, inside := Resolve(docPath, ref)
	e := core.GraphEdge{
		SourceID:       sourceID,
		TargetID:       target,
		EdgeType:       EdgeTypeFor(target),
		TargetResolved: inside,
	}
	if !inside {
		return e, true, nil
	}
	if id, ok := b.glossaryEntity(target, u.Fragment); ok {
		e.TargetID = id
		return e, true, nil
	}
	if b.catalog != nil {
		e.TargetResolved = b.catalog.Contains(target)
	}
	return e, true, nil
}

func (b *Builder) glossaryEntity(target, anchor string) (string, bool) {
	if b.idx == nil || anchor == "" {
		return "", false
	}
	kind, ok := index.KindFromPath(target)
	if !ok {
		return "", false
	}
	e, ok := b.idx.ByAnchor(kind, anchor)
	if !ok {
		return "", false
	}
	return e.ID, true
}

// Resolve resolves ref against the directory of docPath and returns the
// absolute corpus path. inside is false when ref climbs above the root.
func Resolve(docPath, ref string) (target string, inside bool) {
	var segs []string
	if !strings.HasPrefix(ref, "/") {
		segs = core.PathSegments(docPath)
		if !strings.HasSuffix(docPath, "/") && len(segs) > 0 {
			segs = segs[:len(segs)-1]
		}
	}
	inside = true
	for _, s := range strings.Split(ref, "/") {
		switch s {
		case "", ".":
		case "..":
			if len(segs) == 0 {
				inside = false
				continue
			}
			segs = segs[:len(segs)-1]
		default:
			segs = append(segs, s)
		}
	}
	target = "/" + strings.Join(segs, "/")
	if len(segs) > 0 && (strings.HasSuffix(ref, "/") || strings.HasSuffix(ref, "/.") || strings.HasSuffix(ref, "/..") || ref == "." || ref == "..") {
		target += "/"
	}
	return target, inside
}

// EdgeTypeFor classifies an internal target path by its section prefix.
func EdgeTypeFor(target string) core.EdgeType {
	for _, p := range prefixTypes {
		if strings.HasPrefix(target, p.prefix) {
			return p.edge
		}
	}
	return core.EdgeReferenceLink
}
