package ingestion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/extract"
	"github.com/poiesic/archivist/index"
	"github.com/poiesic/archivist/linker"
)

func newTestProcessor(t *testing.T, opts ...ProcessorOption) *Processor {
	t.Helper()
	return newProcessorOver(t, index.NewFixture(), opts...)
}

func newProcessorOver(t *testing.T, idx *index.Index, opts ...ProcessorOption) *Processor {
	t.Helper()
	l, err := linker.New(idx)
	require.NoError(t, err)
	ex, err := extract.New(l)
	require.NoError(t, err)
	p, err := NewProcessor(ex, l, opts...)
	require.NoError(t, err)
	return p
}

func marxChapter() *core.RawDocument {
	return &core.RawDocument{
		Path:       "/archive/marx/works/1867-c1/ch01.htm",
		Section:    core.SectionArchive,
		Title:      "Capital Vol. I - Chapter One",
		Meta:       map[string]string{"keywords": "Surplus Value"},
		Headings:   []core.Heading{{Level: 1, Text: "Chapter 1: Commodities"}},
		Paragraphs: []core.Paragraph{{Text: "The wealth of those societies..."}, {Text: "A commodity is, in the first place..."}},
		Links:      []core.Link{{Href: "../index.htm"}, {Href: "../../../../glossary/people/k/o.htm#kollontai"}, {Href: "#fn1"}},
		Text:       "The wealth of those societies... A commodity is, in the first place...",
	}
}

func capitalNotes() *core.RawDocument {
	return &core.RawDocument{
		Path:       "/subject/economy/capital.htm",
		Section:    core.SectionSubject,
		Title:      "Notes",
		Meta:       map[string]string{"keywords": "Capital"},
		Paragraphs: []core.Paragraph{{Text: "Reading notes."}},
		Text:       "Reading notes.",
	}
}

func bareDocument(path string) *core.RawDocument {
	return &core.RawDocument{Path: path, Section: core.SectionFromPath(path), Title: path, Text: path}
}
