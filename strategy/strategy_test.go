package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/index"
	"github.com/poiesic/archivist/linker"
)

func fixtureInput(t *testing.T, doc *core.RawDocument) *Input {
	t.Helper()
	l, err := linker.New(index.NewFixture())
	require.NoError(t, err)
	return &Input{Doc: doc, Linker: l, Denylist: NewDenylist(DefaultDenylist...)}
}

func run(t *testing.T, id string, in *Input) *core.FieldCandidate {
	t.Helper()
	s, ok := Default().Lookup(id)
	require.True(t, ok, "strategy %s", id)
	c, err := s.Run(in)
	require.NoError(t, err)
	return c
}

func TestDefaultCatalog(t *testing.T) {
	ids := Default().IDs()
	assert.Len(t, ids, 15)
	for _, id := range ids {
		s, ok := Default().Lookup(id)
		require.True(t, ok)
		assert.Greater(t, s.Confidence, 0.0)
		assert.LessOrEqual(t, s.Confidence, 1.0)
		assert.NotEqual(t, core.SourceUnknown, s.Source)
	}
	_, ok := Default().Lookup("author.astrology")
	assert.False(t, ok)
}

func TestNewCatalog_Rejects(t *testing.T) {
	fn := func(*Input) ([]string, error) { return nil, nil }

	_, err := NewCatalog(New("a", core.FieldAuthor, core.SourceTag, 0.5, fn), New("a", core.FieldAuthor, core.SourceTag, 0.5, fn))
	assert.ErrorIs(t, err, ErrDuplicateStrategy)

	_, err = NewCatalog(New("a", core.FieldAuthor, core.SourceTag, 1.5, fn))
	assert.ErrorIs(t, err, ErrInvalidStrategy)

	_, err = NewCatalog(New("a", core.FieldAuthor, core.SourceUnknown, 0.5, fn))
	assert.ErrorIs(t, err, ErrInvalidStrategy)

	_, err = NewCatalog(New("a", core.FieldAuthor, core.SourceTag, 0.5, nil))
	assert.ErrorIs(t, err, ErrInvalidStrategy)
}

func TestAuthorStrategies(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		doc      *core.RawDocument
		want     []string
		wantConf float64
	}{
		{
			name:     "archive path slug",
			id:       "author.path",
			doc:      &core.RawDocument{Path: "/archive/marx/works/1867-c1/ch01.htm"},
			want:     []string{"Karl Marx"},
			wantConf: 1.0,
		},
		{
			name:     "reference archive path slug",
			id:       "author.path",
			doc:      &core.RawDocument{Path: "/reference/archive/luxemburg/1913/index.htm"},
			want:     []string{"Rosa Luxemburg"},
			wantConf: 1.0,
		},
		{name: "unknown slug", id: "author.path", doc: &core.RawDocument{Path: "/archive/nobody/index.htm"}},
		{name: "no archive segment", id: "author.path", doc: &core.RawDocument{Path: "/subject/women/index.htm"}},
		{
			name:     "title name prefix",
			id:       "author.title",
			doc:      &core.RawDocument{Title: "James P. Cannon: Theses on the American Revolution"},
			want:     []string{"James P. Cannon"},
			wantConf: 0.8,
		},
		{
			name:     "title co-authors",
			id:       "author.title",
			doc:      &core.RawDocument{Title: "Karl Marx and Frederick Engels: Manifesto of the Communist Party"},
			want:     []string{"Karl Marx", "Frederick Engels"},
			wantConf: 0.8,
		},
		{name: "title prefix not a person", id: "author.title", doc: &core.RawDocument{Title: "Chapter One: Commodities"}},
		{name: "title without colon", id: "author.title", doc: &core.RawDocument{Title: "The State and Revolution"}},
		{
			name:     "first keyword that is a person",
			id:       "author.keyword",
			doc:      &core.RawDocument{Meta: map[string]string{"keywords": "women, Alexandra Kollontai, Rosa Luxemburg"}},
			want:     []string{"Alexandra Kollontai"},
			wantConf: 0.7,
		},
		{
			name:     "organization acronym in title",
			id:       "author.organization",
			doc:      &core.RawDocument{Title: "RCP Statement on the Miners' Strike"},
			want:     []string{"Revolutionary Communist Party"},
			wantConf: 0.9,
		},
		{name: "acronym not in index", id: "author.organization", doc: &core.RawDocument{Title: "NATO and the USSR"}},
		{
			name:     "author tag",
			id:       "author.tag",
			doc:      &core.RawDocument{Meta: map[string]string{"author": "Rosa Luxemburg"}},
			want:     []string{"Rosa Luxemburg"},
			wantConf: 0.6,
		},
		{
			name:     "author tag unknown person kept raw",
			id:       "author.tag",
			doc:      &core.RawDocument{Meta: map[string]string{"author": "Harry Pollitt"}},
			want:     []string{"Harry Pollitt"},
			wantConf: 0.6,
		},
		{name: "author tag denylisted", id: "author.tag", doc: &core.RawDocument{Meta: map[string]string{"author": "Einde O'Callaghan"}}},
		{name: "author tag role phrase", id: "author.tag", doc: &core.RawDocument{Meta: map[string]string{"author": "Transcribed by Sally Ryan"}}},
		{
			name: "byline",
			id:   "author.byline",
			doc: &core.RawDocument{Paragraphs: []core.Paragraph{
				{Class: "information", Text: "First Published: 1915"},
				{Text: "By Rosa Luxemburg. The war has..."},
			}},
			want:     []string{"Rosa Luxemburg"},
			wantConf: 0.5,
		},
		{name: "byline lowercase", id: "author.byline", doc: &core.RawDocument{Paragraphs: []core.Paragraph{{Text: "by the editors"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := run(t, tt.id, fixtureInput(t, tt.doc))
			if tt.want == nil {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, tt.want, c.Value)
			assert.Equal(t, tt.id, c.Strategy)
			assert.InDelta(t, tt.wantConf, c.Confidence, 1e-9)
		})
	}
}

func TestAuthorTag_Malformed(t *testing.T) {
	s, _ := Default().Lookup("author.tag")
	_, err := s.Run(fixtureInput(t, &core.RawDocument{Meta: map[string]string{"author": "--- ..."}}))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestStrategies_NilLinker(t *testing.T) {
	in := &Input{Doc: &core.RawDocument{Path: "/archive/marx/index.htm", Title: "Karl Marx: Letters"}}
	for _, id := range []string{"author.path", "author.title", "author.keyword", "author.organization"} {
		c, err := Default().byID[id].Run(in)
		assert.NoError(t, err)
		assert.Nil(t, c, id)
	}
}

func TestDateStrategies(t *testing.T) {
	tests := []struct {
		name string
		id   string
		doc  *core.RawDocument
		want string
	}{
		{name: "year directory", id: "date.path_year", doc: &core.RawDocument{Path: "/archive/marx/works/1867-c1/ch01.htm"}, want: "1867"},
		{name: "year-month directory", id: "date.path_year", doc: &core.RawDocument{Path: "/archive/lenin/works/1917-10/x.htm"}, want: "1917-10"},
		{name: "no year directory", id: "date.path_year", doc: &core.RawDocument{Path: "/archive/marx/index.htm"}},
		{name: "title parenthetical", id: "date.title", doc: &core.RawDocument{Title: "Letter to Engels (March 1868)"}, want: "1868-03"},
		{name: "title trailing", id: "date.title", doc: &core.RawDocument{Title: "Speech at the Congress, 7 November 1917"}, want: "1917-11-07"},
		{name: "title without date", id: "date.title", doc: &core.RawDocument{Title: "Capital"}},
		{name: "filename iso", id: "date.filename", doc: &core.RawDocument{Path: "/history/etol/newspape/ni/1940-05-01.htm"}, want: "1940-05-01"},
		{name: "filename compact", id: "date.filename", doc: &core.RawDocument{Path: "/history/erol/uk/19750312.htm"}, want: "1975-03-12"},
		{name: "filename year", id: "date.filename", doc: &core.RawDocument{Path: "/history/erol/ncm/rcp-1975.htm"}, want: "1975"},
		{name: "filename none", id: "date.filename", doc: &core.RawDocument{Path: "/archive/marx/works/1867-c1/ch01.htm"}},
		{name: "meta date", id: "date.tag", doc: &core.RawDocument{Meta: map[string]string{"dc.date": "1917-04-07"}}, want: "1917-04-07"},
		{
			name: "provenance prefers written",
			id:   "date.provenance",
			doc: &core.RawDocument{Info: []string{
				"Source: Collected Works, Volume 24, 1964",
				"First Published: Pravda, April 7, 1917",
				"Written: 4 April 1917",
			}},
			want: "1917-04-04",
		},
		{
			name: "provenance from info paragraph",
			id:   "date.provenance",
			doc:  &core.RawDocument{Paragraphs: []core.Paragraph{{Class: "information", Text: "Delivered: May 1886"}}},
			want: "1886-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := run(t, tt.id, fixtureInput(t, tt.doc))
			if tt.want == "" {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, []string{tt.want}, c.Value)
		})
	}
}

func TestDateTag_Malformed(t *testing.T) {
	s, _ := Default().Lookup("date.tag")
	_, err := s.Run(fixtureInput(t, &core.RawDocument{Meta: map[string]string{"date": "sometime in spring"}}))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestTagStrategies(t *testing.T) {
	doc := &core.RawDocument{Meta: map[string]string{
		"keywords":       " Surplus Value ; capital,, surplus value ,  wage   labour",
		"classification": "Economics",
		"dc.publisher":   "CPGB",
	}}
	in := fixtureInput(t, doc)

	c := run(t, "keywords.tag", in)
	require.NotNil(t, c)
	assert.Equal(t, []string{"Surplus Value", "capital", "wage labour"}, c.Value)

	c = run(t, "classification.tag", in)
	require.NotNil(t, c)
	assert.Equal(t, []string{"Economics"}, c.Value)

	c = run(t, "organization.tag", in)
	require.NotNil(t, c)
	assert.Equal(t, []string{"Communist Party of Great Britain"}, c.Value)

	empty := fixtureInput(t, &core.RawDocument{})
	for _, id := range []string{"keywords.tag", "classification.tag", "organization.tag"} {
		assert.Nil(t, run(t, id, empty), id)
	}
}

func TestDenylist(t *testing.T) {
	d := NewDenylist("Andy Blunden", "")
	assert.True(t, d.Rejects("andy blunden"))
	assert.True(t, d.Rejects("HTML Markup by Brian Baggins"))
	assert.True(t, d.Rejects("Transcription: Zodiac"))
	assert.False(t, d.Rejects("Karl Marx"))
	assert.Len(t, d, 1)
}
