package strategy

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/poiesic/archivist/core"
)

// nameToken matches a capitalized name word or an initial such as "P." or "V.I.".
const nameToken = `[A-Z](?:[\p{L}'\-]+|\.(?:[A-Z]\.)*)`

var (
	bylinePattern  = regexp.MustCompile(`^\s*[Bb][Yy]\s+(` + nameToken + `(?:\s+(?:` + nameToken + `|de|van|von|la|le))*)`)
	acronymPattern = regexp.MustCompile(`\b[A-Z][A-Z&]{1,7}\b`)
	coauthorSplit  = regexp.MustCompile(`\s*(?:,|&|\band\b)\s*`)
)

// pathAuthorAnchors are segments whose successor is an author directory.
var pathAuthorAnchors = map[string]bool{"archive": true, "writers": true}

func authorFromPath(in *Input) ([]string, error) {
	if in.Linker == nil {
		return nil, nil
	}
	segs := core.PathSegments(in.Doc.Path)
	for i := 0; i+1 < len(segs); i++ {
		if !pathAuthorAnchors[segs[i]] {
			continue
		}
		if e, ok := in.Linker.Index().BySlug(segs[i+1]); ok && e.Kind == core.KindPerson {
			return []string{e.CanonicalName}, nil
		}
		return nil, nil
	}
	return nil, nil
}

// authorFromTitle reads "Name: Title" and "Name and Name: Title". Every name
// must validate as a person.
func authorFromTitle(in *Input) ([]string, error) {
	head, _, ok := strings.Cut(in.Doc.Title, ":")
	if !ok || in.Linker == nil {
		return nil, nil
	}
	head = strings.TrimSpace(head)
	if head == "" || len(strings.Fields(head)) > 8 {
		return nil, nil
	}
	return linkPersons(in, splitNames(head))
}

func authorFromKeyword(in *Input) ([]string, error) {
	if in.Linker == nil {
		return nil, nil
	}
	for _, k := range metaList(in.Doc, "keywords") {
		if m := in.link(k, core.KindPerson); m.Resolved() {
			return []string{m.Entity.CanonicalName}, nil
		}
	}
	return nil, nil
}

// organizationFromAcronym finds an organization acronym in the title or
// keywords that validates against the index.
func organizationFromAcronym(in *Input) ([]string, error) {
	if in.Linker == nil {
		return nil, nil
	}
	texts := append([]string{in.Doc.Title}, metaList(in.Doc, "keywords")...)
	for _, t := range texts {
		for _, acr := range acronymPattern.FindAllString(t, -1) {
			if m := in.link(acr, core.KindOrganization); m.Resolved() {
				return []string{m.Entity.CanonicalName}, nil
			}
		}
	}
	return nil, nil
}

func authorFromTag(in *Input) ([]string, error) {
	raw := in.Doc.MetaValue("author", "dc.creator", "creator")
	if raw == "" {
		return nil, nil
	}
	if !strings.ContainsFunc(raw, unicode.IsLetter) {
		return nil, ErrMalformed
	}
	var names []string
	for _, n := range splitNames(raw) {
		if in.Denylist.Rejects(n) {
			continue
		}
		names = append(names, canonicalPerson(in, n))
	}
	if len(names) == 0 {
		return nil, nil
	}
	return names, nil
}

func authorFromByline(in *Input) ([]string, error) {
	m := bylinePattern.FindStringSubmatch(in.Doc.LeadParagraph())
	if m == nil {
		return nil, nil
	}
	name := strings.TrimRight(strings.TrimSpace(m[1]), ".,")
	if name == "" || in.Denylist.Rejects(name) {
		return nil, nil
	}
	return []string{canonicalPerson(in, name)}, nil
}

// linkPersons resolves every name as a person, failing as a whole when any
// name does not resolve.
func linkPersons(in *Input, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		m := in.link(n, core.KindPerson)
		if !m.Resolved() {
			return nil, nil
		}
		out = append(out, m.Entity.CanonicalName)
	}
	return out, nil
}

// canonicalPerson returns the canonical name when n resolves, else n.
func canonicalPerson(in *Input, n string) string {
	if in.Linker != nil {
		if m := in.link(n, core.KindPerson); m.Resolved() {
			return m.Entity.CanonicalName
		}
	}
	return n
}

// splitNames splits "Marx and Engels" or "Marx & Engels" into names. A single
// comma is left alone since it usually marks an inverted name.
func splitNames(s string) []string {
	if strings.Count(s, ",") == 1 && !strings.Contains(s, "&") && !strings.Contains(strings.ToLower(s), " and ") {
		return []string{strings.TrimSpace(s)}
	}
	var out []string
	for _, p := range coauthorSplit.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
