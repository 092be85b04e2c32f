package graph

import "strings"

// Catalog reports which document IDs exist in the corpus.
type Catalog interface {
	Contains(id string) bool
}

// SetCatalog is an in-memory Catalog.
type SetCatalog map[string]struct{}

var _ Catalog = SetCatalog(nil)

// NewSetCatalog returns a catalog of ids.
func NewSetCatalog(ids ...string) SetCatalog {
	c := make(SetCatalog, len(ids))
	for _, id := range ids {
		c.Add(id)
	}
	return c
}

// Add records id.
func (c SetCatalog) Add(id string) {
	c[id] = struct{}{}
}

// Contains reports whether id, or the index page of a directory id, exists.
func (c SetCatalog) Contains(id string) bool {
	if _, ok := c[id]; ok {
		return true
	}
	if strings.HasSuffix(id, "/") {
		for _, name := range []string{"index.htm", "index.html"} {
			if _, ok := c[id+name]; ok {
				return true
			}
		}
	}
	return false
}
