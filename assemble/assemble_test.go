package assemble

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/extract"
)

func results(winners ...*core.FieldCandidate) extract.Results {
	r := make(extract.Results, len(core.Fields))
	for _, f := range core.Fields {
		r[f] = extract.Result{Field: f}
	}
	for i, w := range winners {
		if w != nil {
			f := core.Fields[i]
			r[f] = extract.Result{Field: f, Winner: w}
		}
	}
	return r
}

func sampleInput() Input {
	return Input{
		Doc: &core.RawDocument{
			Path:    "/archive/marx/works/1848/communist-manifesto/ch01.htm",
			Section: core.SectionArchive,
			Title:   "Manifesto of the Communist Party",
			Text:    "A spectre is haunting Europe.",
		},
		DocType:   core.DocTypeChapter,
		Structure: core.DocumentStructure{HeadingDepth: 2, HeadingCount: 5, ParagraphCount: 40, LinkCount: 3},
		Fields: results(
			&core.FieldCandidate{Strategy: "author.path", Value: []string{"Karl Marx", "Frederick Engels"}, Source: core.SourcePath, Confidence: 1.0},
			&core.FieldCandidate{Strategy: "date.path_year", Value: []string{"1848"}, Source: core.SourcePath, Confidence: 0.9},
			&core.FieldCandidate{Strategy: "keywords.tag", Value: []string{"class struggle", "bourgeoisie"}, Source: core.SourceTag, Confidence: 0.6},
		),
		Entities: map[core.EntityKind][]string{
			core.KindPerson: {"person:marx-karl", "person:engels-frederick", "person:marx-karl"},
			core.KindTerm:   {},
		},
		Edges: []core.GraphEdge{
			{SourceID: "/archive/marx/works/1848/communist-manifesto/ch01.htm", TargetID: "/archive/marx/works/1848/communist-manifesto/ch02.htm", EdgeType: core.EdgeAuthorReference, TargetResolved: true, Ordinal: 2},
			{SourceID: "/archive/marx/works/1848/communist-manifesto/ch01.htm", TargetID: "/archive/marx/index.htm", EdgeType: core.EdgeAuthorReference, TargetResolved: true, Ordinal: 0},
		},
		Warnings: []core.Warning{{Field: "date", Code: core.WarnMalformedInput, Detail: "bad meta date"}},
	}
}

func TestAssemble(t *testing.T) {
	m, err := Assemble(sampleInput())
	require.NoError(t, err)

	assert.Equal(t, "https://www.marxists.org/archive/marx/works/1848/communist-manifesto/ch01.htm", m.SourceURL)
	assert.Equal(t, "Manifesto of the Communist Party", m.Title)
	assert.Equal(t, core.ContentHash("A spectre is haunting Europe."), m.ContentHash)
	assert.Equal(t, core.SectionArchive, m.SectionType)
	assert.Equal(t, core.DocTypeChapter, m.DocType)

	require.NotNil(t, m.Author)
	assert.Equal(t, "Karl Marx", *m.Author)
	assert.Equal(t, []string{"Frederick Engels"}, m.AuthorsAlt)
	assert.Equal(t, core.SourcePath, m.AuthorSource)
	assert.Equal(t, 1.0, m.AuthorConfidence)

	require.NotNil(t, m.DateWritten)
	assert.Equal(t, "1848", *m.DateWritten)
	assert.Equal(t, []string{"class struggle", "bourgeoisie"}, m.Keywords)

	assert.Nil(t, m.Classification)
	assert.Equal(t, core.SourceUnknown, m.ClassificationSource)
	assert.Zero(t, m.ClassificationConfidence)
	assert.Nil(t, m.Organization)

	assert.Equal(t, map[core.EntityKind][]string{
		core.KindPerson: {"person:engels-frederick", "person:marx-karl"},
	}, m.GlossaryEntities)
	require.Len(t, m.CrossReferences, 2)
	assert.Equal(t, 0, m.CrossReferences[0].Ordinal)
	assert.Equal(t, m.DocumentID(), "/archive/marx/works/1848/communist-manifesto/ch01.htm")
	assert.Len(t, m.Warnings, 1)
}

func TestAssemble_Idempotent(t *testing.T) {
	encode := func() []byte {
		m, err := Assemble(sampleInput())
		require.NoError(t, err)
		bs := make([]byte, core.DocumentMetadataMUS.Size(*m))
		core.DocumentMetadataMUS.Marshal(*m, bs)
		return bs
	}

	first := encode()
	for i := 0; i < 10; i++ {
		assert.True(t, bytes.Equal(first, encode()))
	}
}

func TestAssemble_NoSignals(t *testing.T) {
	m, err := Assemble(Input{
		Doc:     &core.RawDocument{Path: "/subject/index.htm", Section: core.SectionSubject},
		DocType: core.DocTypeArticle,
		Fields:  results(),
	})
	require.NoError(t, err)

	assert.Equal(t, core.DocTypeArticle, m.DocType)
	assert.Equal(t, "index.htm", m.Title)
	for _, p := range []struct {
		present    bool
		source     core.FieldSource
		confidence float64
	}{
		{m.Author != nil, m.AuthorSource, m.AuthorConfidence},
		{m.DateWritten != nil, m.DateSource, m.DateConfidence},
		{m.Keywords != nil, m.KeywordsSource, m.KeywordsConfidence},
		{m.Classification != nil, m.ClassificationSource, m.ClassificationConfidence},
		{m.Organization != nil, m.OrganizationSource, m.OrganizationConfidence},
	} {
		assert.False(t, p.present)
		assert.Equal(t, core.SourceUnknown, p.source)
		assert.Zero(t, p.confidence)
	}
	assert.Nil(t, m.AuthorsAlt)
	assert.Nil(t, m.GlossaryEntities)
	assert.Nil(t, m.CrossReferences)
	assert.Nil(t, m.Warnings)
}

func TestAssemble_TitleFallsBackToHeading(t *testing.T) {
	m, err := Assemble(Input{
		Doc:     &core.RawDocument{Path: "/archive/lenin/works/1917/staterev/ch01.htm", Headings: []core.Heading{{Level: 1, Text: " Class Society and the State "}}},
		DocType: core.DocTypeArticle,
	})
	require.NoError(t, err)
	assert.Equal(t, "Class Society and the State", m.Title)
	assert.Equal(t, core.SectionUnknown, m.SectionType)
}

func TestAssemble_EncodingSuspect(t *testing.T) {
	in := sampleInput()
	in.Structure.EncodingSuspect = true

	m, err := Assemble(in)
	require.NoError(t, err)
	require.Len(t, m.Warnings, 2)
	assert.Equal(t, core.WarnEncodingSuspect, m.Warnings[1].Code)
}

func TestAssemble_RejectsInconsistentCandidate(t *testing.T) {
	in := sampleInput()
	in.Fields = results(&core.FieldCandidate{Strategy: "author.tag", Value: []string{"Karl Marx"}, Source: core.SourceUnknown, Confidence: 0.6})

	_, err := Assemble(in)
	require.ErrorIs(t, err, ErrInvalidRecord)
	require.ErrorIs(t, err, core.ErrProvenanceMismatch)
}

func TestAssemble_DoesNotAliasInputs(t *testing.T) {
	in := sampleInput()
	m, err := Assemble(in)
	require.NoError(t, err)

	in.Fields.Winner(core.FieldKeywords).Value[0] = "changed"
	in.Edges[0].TargetID = "changed"
	assert.Equal(t, "class struggle", m.Keywords[0])
	assert.NotEqual(t, "changed", m.CrossReferences[1].TargetID)
}

func TestAssemble_NilDocument(t *testing.T) {
	_, err := Assemble(Input{})
	require.ErrorIs(t, err, ErrNilDocument)
}
