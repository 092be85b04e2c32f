package strategy

import (
	"strings"

	"github.com/poiesic/archivist/core"
)

func keywordsFromTag(in *Input) ([]string, error) {
	kw := metaList(in.Doc, "keywords", "dc.subject")
	if len(kw) == 0 {
		return nil, nil
	}
	return kw, nil
}

func classificationFromTag(in *Input) ([]string, error) {
	if v := in.Doc.MetaValue("classification", "dc.type"); v != "" {
		return []string{v}, nil
	}
	return nil, nil
}

func organizationFromTag(in *Input) ([]string, error) {
	v := in.Doc.MetaValue("organization", "organisation", "dc.publisher")
	if v == "" {
		return nil, nil
	}
	if in.Linker != nil {
		if m := in.link(v, core.KindOrganization); m.Resolved() {
			return []string{m.Entity.CanonicalName}, nil
		}
	}
	return []string{v}, nil
}

// metaList splits the first non-empty meta value among names on commas and
// semicolons, trimming and deduplicating in order.
func metaList(doc *core.RawDocument, names ...string) []string {
	raw := doc.MetaValue(names...)
	if raw == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	seen := make(map[string]bool, len(fields))
	var out []string
	for _, f := range fields {
		f = strings.Join(strings.Fields(f), " ")
		if f == "" || seen[strings.ToLower(f)] {
			continue
		}
		seen[strings.ToLower(f)] = true
		out = append(out, f)
	}
	return out
}
