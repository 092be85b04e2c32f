package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/archivist/core"
)

// Thresholds tune the structural rules.
type Thresholds struct {
	// Density below which a link-heavy page is an index.
	Density float64 `yaml:"density" envconfig:"DENSITY"`
	// LinkCount above which a low-density page is an index.
	LinkCount int `yaml:"link_count" envconfig:"LINK_COUNT"`
	// SameLevelHeadings is the count of headings at one level beyond which a
	// page is a chapter.
	SameLevelHeadings int `yaml:"same_level_headings" envconfig:"SAME_LEVEL_HEADINGS"`
}

// DefaultThresholds returns the corpus-tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{Density: 2.0, LinkCount: 10, SameLevelHeadings: 3}
}

// Validate checks that every threshold is usable.
func (t Thresholds) Validate() error {
	if t.Density <= 0 {
		return fmt.Errorf("%w: density %v", ErrInvalidThresholds, t.Density)
	}
	if t.LinkCount < 0 {
		return fmt.Errorf("%w: link count %d", ErrInvalidThresholds, t.LinkCount)
	}
	if t.SameLevelHeadings < 1 {
		return fmt.Errorf("%w: same-level headings %d", ErrInvalidThresholds, t.SameLevelHeadings)
	}
	return nil
}

var (
	salutationPattern = regexp.MustCompile(`(?i)^(my\s+)?(dear|dearest|beloved)\b|^(dear\s+)?comrades?\b.{0,40},$|^(sir|madam|gentlemen)\s*[,:!]`)
	closingPattern    = regexp.MustCompile(`(?i)^(yours|your\s+\w+|sincerely|faithfully|cordially|with\s+(comradely|fraternal|warmest|best|communist)\s+greetings|greetings|salud|regards)\b`)
	legalPattern      = regexp.MustCompile(`(?i)\b(constitution|statutes?|by-?laws|charter|programme|program|rules\s+of|decree)\b`)
)

// letterZone is how many paragraphs at each end are searched for the
// salutation and closing.
const letterZone = 3

// Classify returns the document type and the structure it was derived from.
// Rules apply in order and the first match wins.
func Classify(doc *core.RawDocument, t Thresholds) (core.DocType, core.DocumentStructure) {
	s := Structure(doc)

	switch {
	case s.ContentDensity < t.Density && s.LinkCount > t.LinkCount:
		return core.DocTypeIndex, s
	case doc.Section.IsPeriodical():
		return core.DocTypePeriodicalIssue, s
	case s.HeadingDepth >= 2 && crowdedLevel(doc.Headings, t.SameLevelHeadings):
		return core.DocTypeChapter, s
	case isLetter(doc):
		return core.DocTypeLetter, s
	case doc.Section == core.SectionGlossary:
		return core.DocTypeGlossaryEntry, s
	case doc.MediaCount > 0 && s.ParagraphCount < 3:
		return core.DocTypeMultimedia, s
	case legalPattern.MatchString(doc.Title):
		return core.DocTypeLegalDocument, s
	}
	return core.DocTypeArticle, s
}

// Structure measures the structural signals of doc. A page with neither
// headings nor links is flagged low-confidence.
func Structure(doc *core.RawDocument) core.DocumentStructure {
	s := core.DocumentStructure{
		HeadingCount:    len(doc.Headings),
		ParagraphCount:  len(doc.Paragraphs),
		LinkCount:       len(doc.Links),
		TextSize:        doc.Size,
		EncodingSuspect: doc.EncodingSuspect(),
	}
	if s.TextSize == 0 {
		s.TextSize = len(doc.Text)
	}
	for _, h := range doc.Headings {
		if h.Level > s.HeadingDepth {
			s.HeadingDepth = h.Level
		}
	}
	s.ContentDensity = float64(s.ParagraphCount) / float64(max(s.LinkCount, 1))
	s.LowConfidence = s.HeadingCount == 0 && s.LinkCount == 0
	return s
}

// crowdedLevel reports whether some heading level below the top has more
// than limit headings.
func crowdedLevel(headings []core.Heading, limit int) bool {
	counts := make(map[int]int)
	for _, h := range headings {
		if h.Level < 2 {
			continue
		}
		counts[h.Level]++
		if counts[h.Level] > limit {
			return true
		}
	}
	return false
}

func isLetter(doc *core.RawDocument) bool {
	var body []string
	for _, p := range doc.Paragraphs {
		if core.IsInfoClass(p.Class) {
			continue
		}
		if t := strings.TrimSpace(p.Text); t != "" {
			body = append(body, t)
		}
	}
	if len(body) < 2 {
		return false
	}

	head := body[:min(letterZone, len(body))]
	tail := body[max(len(body)-letterZone, 0):]
	return anyMatch(salutationPattern, head) && anyMatch(closingPattern, tail)
}

func anyMatch(re *regexp.Regexp, lines []string) bool {
	for _, l := range lines {
		if re.MatchString(l) {
			return true
		}
	}
	return false
}
