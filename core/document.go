package core

import (
	"net/url"
	"path"
	"strings"
	"unicode/utf8"
)

// DefaultBaseURL is the public root of the corpus.
const DefaultBaseURL = "https://www.marxists.org"

// Section is a top-level corpus partition with its own extraction conventions.
type Section string

const (
	SectionArchive     Section = "archive"
	SectionETOL        Section = "history/etol"
	SectionEROL        Section = "history/erol"
	SectionHistory     Section = "history"
	SectionPeriodicals Section = "periodicals"
	SectionSubject     Section = "subject"
	SectionGlossary    Section = "glossary"
	SectionReference   Section = "reference"
	SectionUnknown     Section = "unknown"
)

// Sections lists every known section.
var Sections = []Section{
	SectionArchive, SectionETOL, SectionEROL, SectionHistory, SectionPeriodicals,
	SectionSubject, SectionGlossary, SectionReference, SectionUnknown,
}

// ParseSection returns the Section named s, or SectionUnknown.
func ParseSection(s string) Section {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec
		}
	}
	return SectionUnknown
}

// IsPeriodical reports whether the section is the periodical namespace.
func (s Section) IsPeriodical() bool {
	return s == SectionPeriodicals
}

// SectionFromPath derives the section from a corpus path such as
// "/history/etol/writers/cannon/1942/theses.htm".
func SectionFromPath(p string) Section {
	parts := splitPath(p)
	if len(parts) == 0 {
		return SectionUnknown
	}
	switch parts[0] {
	case "archive":
		return SectionArchive
	case "history":
		if len(parts) > 1 {
			for _, seg := range parts[1:] {
				if seg == "newspape" || seg == "pubs" || seg == "periodicals" {
					return SectionPeriodicals
				}
			}
			switch parts[1] {
			case "etol":
				return SectionETOL
			case "erol":
				return SectionEROL
			}
		}
		return SectionHistory
	case "subject":
		return SectionSubject
	case "glossary":
		return SectionGlossary
	case "reference":
		return SectionReference
	case "periodicals":
		return SectionPeriodicals
	}
	return SectionUnknown
}

func splitPath(p string) []string {
	var parts []string
	for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return parts
}

// PathSegments splits a corpus path into its non-empty segments.
func PathSegments(p string) []string {
	return splitPath(p)
}

// SourceURL joins a base URL and a corpus path.
func SourceURL(base, docPath string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(docPath, "/")
}

// DocumentIDFromURL returns the canonical corpus path for a source URL.
// Paths are returned unchanged.
func DocumentIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return raw
	}
	return path.Clean("/" + u.Path)
}

// Heading is a section heading.
type Heading struct {
	Level int
	Text  string
}

// Paragraph is a block of body text with its CSS class.
type Paragraph struct {
	Class string
	Text  string
}

// Link is a hyperlink found in the document body.
type Link struct {
	Href string
	Text string
}

// Term is a glossary term block: a named anchor and the text that follows it.
type Term struct {
	Anchor string
	Text   string
	Body   string
	Links  []string
}

// RawDocument is the structured form of one source document produced by the
// upstream HTML parser. It is owned by the caller and never mutated.
type RawDocument struct {
	Path       string // canonical corpus path, e.g. /archive/marx/works/1867-c1/ch01.htm
	Section    Section
	Title      string
	Meta       map[string]string // lower-cased meta name -> content
	Headings   []Heading
	Paragraphs []Paragraph
	Info       []string // provenance block lines ("Written: 1867", ...)
	Links      []Link
	Terms      []Term
	MediaCount int
	Text       string
	Size       int
}

// MetaValue returns the first non-empty meta content among names.
func (d *RawDocument) MetaValue(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(d.Meta[strings.ToLower(name)]); v != "" {
			return v
		}
	}
	return ""
}

// LeadParagraph returns the first body paragraph that is not a provenance block.
func (d *RawDocument) LeadParagraph() string {
	for _, p := range d.Paragraphs {
		if isInfoClass(p.Class) {
			continue
		}
		if t := strings.TrimSpace(p.Text); t != "" {
			return t
		}
	}
	return ""
}

// EncodingSuspect reports visible evidence that text normalization failed
// upstream: replacement characters or invalid UTF-8.
func (d *RawDocument) EncodingSuspect() bool {
	for _, s := range []string{d.Title, d.Text} {
		if !utf8.ValidString(s) || strings.ContainsRune(s, utf8.RuneError) {
			return true
		}
	}
	return false
}

func isInfoClass(class string) bool {
	switch strings.ToLower(class) {
	case "information", "info", "infotop", "infobot", "updat":
		return true
	}
	return false
}

// IsInfoClass reports whether a CSS class marks a provenance block.
func IsInfoClass(class string) bool {
	return isInfoClass(class)
}

// DocumentRef is a lazily loaded unit of work.
type DocumentRef struct {
	ID   string
	Load func() (*RawDocument, error)
}
