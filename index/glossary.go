package index

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/poiesic/archivist/core"
)

var (
	akaPattern     = regexp.MustCompile(`(?i)\b(?:a\.k\.a\.?|also known as|pseudonyms?:?|better known as)\s+["“']?([^,;()"”\n]+)`)
	slugPattern    = regexp.MustCompile(`(?:^|/)archive/([A-Za-z0-9_\-.]+)/`)
	parenPattern   = regexp.MustCompile(`\s*\(([^)]*)\)`)
	kindBySegments = map[string]core.EntityKind{
		"people":        core.KindPerson,
		"terms":         core.KindTerm,
		"orgs":          core.KindOrganization,
		"organisations": core.KindOrganization,
		"organizations": core.KindOrganization,
		"events":        core.KindEvent,
		"periodicals":   core.KindPeriodical,
		"places":        core.KindPlace,
	}
)

// KindFromPath maps a glossary page path such as /glossary/people/m/a.htm to
// the kind of entity it defines.
func KindFromPath(p string) (core.EntityKind, bool) {
	segs := core.PathSegments(p)
	for i, s := range segs {
		if s != "glossary" || i+1 >= len(segs) {
			continue
		}
		kind, ok := kindBySegments[strings.ToLower(segs[i+1])]
		return kind, ok
	}
	return "", false
}

// entitiesFromTerms turns the term blocks of one glossary page into
// entities. existing is consulted so that same-name senses defined on
// different pages receive distinct IDs.
func entitiesFromTerms(kind core.EntityKind, terms []core.Term, existing map[string]*core.CanonicalEntity) []*core.CanonicalEntity {
	var out []*core.CanonicalEntity
	local := make(map[string]bool)
	for _, t := range terms {
		heading := strings.TrimSpace(t.Text)
		if heading == "" {
			continue
		}

		var aliases []string
		for _, m := range parenPattern.FindAllStringSubmatch(heading, -1) {
			inner := strings.TrimSpace(m[1])
			if inner != "" && !strings.ContainsFunc(inner, unicode.IsDigit) {
				aliases = append(aliases, inner)
			}
		}
		bare := strings.TrimSpace(parenPattern.ReplaceAllString(heading, ""))
		if bare == "" {
			continue
		}

		name := Uninvert(bare)
		if name != bare {
			aliases = append(aliases, bare)
		}
		for _, m := range akaPattern.FindAllStringSubmatch(t.Body, -1) {
			if alias := trimSentence(m[1]); alias != "" && alias != name {
				aliases = append(aliases, alias)
			}
		}

		e := &core.CanonicalEntity{
			Kind:          kind,
			CanonicalName: name,
			Aliases:       dedupe(aliases),
			Anchor:        t.Anchor,
			Description:   strings.TrimSpace(t.Body),
		}
		if kind == core.KindPerson {
			for _, link := range t.Links {
				if m := slugPattern.FindStringSubmatch(link); m != nil {
					e.Slug = m[1]
					break
				}
			}
		}

		base := t.Anchor
		if base == "" {
			base = Slugify(name)
		}
		id := fmt.Sprintf("%s:%s", kind, base)
		for n := 2; ; n++ {
			prev, taken := existing[id]
			if !taken && !local[id] {
				break
			}
			if taken && prev.CanonicalName == name && prev.Description == e.Description {
				break
			}
			id = fmt.Sprintf("%s:%s-%d", kind, base, n)
		}
		e.ID = id
		local[id] = true
		out = append(out, e)
	}
	return out
}

// trimSentence cuts s at the first sentence break that does not follow an
// initial, so "V.I. Lenin. He was" yields "V.I. Lenin".
func trimSentence(s string) string {
	s = strings.TrimSpace(s)
	for i := 0; i+1 < len(s); i++ {
		if s[i] != '.' || s[i+1] != ' ' {
			continue
		}
		word := s[:i]
		if j := strings.LastIndexAny(word, " ."); j >= 0 {
			word = word[j+1:]
		}
		if len(word) > 1 {
			return strings.TrimSpace(s[:i])
		}
	}
	return strings.TrimRight(s, ". ")
}

func dedupe(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := ss[:0]
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
