package strategy

import (
	"path"
	"regexp"
	"strings"

	"github.com/poiesic/archivist/core"
)

var (
	pathYearPattern   = regexp.MustCompile(`^` + yearAlt + `(?:-(\d{2}))?(?:$|[-_a-z])`)
	titleParenPattern = regexp.MustCompile(`\(([^()]*\d{4}[^()]*)\)`)
	titleTailPattern  = regexp.MustCompile(`[,:–—-]\s*([^,:–—-]*\d{4})\s*$`)
	provenancePattern = regexp.MustCompile(`(?i)^\s*(written|first published|published|delivered|dated)\s*:?\s*(.*)$`)

	filenamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:^|\D)` + yearAlt + `-(\d{2})-(\d{2})(?:\D|$)`),
		regexp.MustCompile(`(?:^|\D)` + yearAlt + `(\d{2})(\d{2})(?:\D|$)`),
		regexp.MustCompile(`(?:^|\D)` + yearAlt + `-(\d{2})(?:\D|$)`),
		regexp.MustCompile(`(?:^|\D)` + yearAlt + `(?:\D|$)`),
	}
)

// dateFromPathYear reads a year directory such as /1867-c1/ or /1917/.
// The filename itself is left to dateFromFilename.
func dateFromPathYear(in *Input) ([]string, error) {
	segs := core.PathSegments(path.Dir(in.Doc.Path))
	for i := len(segs) - 1; i >= 0; i-- {
		m := pathYearPattern.FindStringSubmatch(segs[i])
		if m == nil {
			continue
		}
		if d, ok := formatDate(m[1], atoi(m[2]), 0); ok {
			return []string{d}, nil
		}
		return []string{m[1]}, nil
	}
	return nil, nil
}

func dateFromTitle(in *Input) ([]string, error) {
	title := strings.TrimSpace(in.Doc.Title)
	if m := titleParenPattern.FindStringSubmatch(title); m != nil {
		if d, ok := FindDate(m[1]); ok {
			return []string{d}, nil
		}
	}
	if m := titleTailPattern.FindStringSubmatch(title); m != nil {
		if d, ok := FindDate(m[1]); ok {
			return []string{d}, nil
		}
	}
	return nil, nil
}

// dateFromFilename reads dates embedded in the file name, most specific
// pattern first: 1917-04-07, 19170407, 1917-04, then a bare year.
func dateFromFilename(in *Input) ([]string, error) {
	name := strings.TrimSuffix(path.Base(in.Doc.Path), path.Ext(in.Doc.Path))
	if name == "" || name == "." || name == "/" {
		return nil, nil
	}
	for _, p := range filenamePatterns {
		m := p.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		var month, day int
		if len(m) > 2 {
			month = atoi(m[2])
		}
		if len(m) > 3 {
			day = atoi(m[3])
		}
		if d, ok := formatDate(m[1], month, day); ok {
			return []string{d}, nil
		}
	}
	return nil, nil
}

func dateFromTag(in *Input) ([]string, error) {
	raw := in.Doc.MetaValue("date", "dc.date", "dc.date.created", "created")
	if raw == "" {
		return nil, nil
	}
	d, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return []string{d}, nil
}

// dateFromProvenance reads "Written: ..." and "First published: ..." lines
// from the provenance block, preferring the date of writing.
func dateFromProvenance(in *Input) ([]string, error) {
	lines := append([]string(nil), in.Doc.Info...)
	for _, p := range in.Doc.Paragraphs {
		if core.IsInfoClass(p.Class) {
			lines = append(lines, strings.Split(p.Text, "\n")...)
		}
	}

	var fallback string
	for _, line := range lines {
		m := provenancePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d, ok := FindDate(m[2])
		if !ok {
			continue
		}
		if strings.EqualFold(m[1], "written") {
			return []string{d}, nil
		}
		if fallback == "" {
			fallback = d
		}
	}
	if fallback == "" {
		return nil, nil
	}
	return []string{fallback}, nil
}
