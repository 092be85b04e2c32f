package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/index"
)

func newFixtureLinker(t *testing.T, opts ...Option) *Linker {
	t.Helper()
	l, err := New(index.NewFixture(), opts...)
	require.NoError(t, err)
	return l
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrNilIndex)

	_, err = New(index.NewFixture(), WithFuzzyThreshold(0))
	require.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = New(index.NewFixture(), WithTieMargin(-0.1))
	require.ErrorIs(t, err, ErrInvalidMargin)
}

func TestLink_Stages(t *testing.T) {
	l := newFixtureLinker(t)

	tests := []struct {
		name       string
		raw        string
		kind       core.EntityKind
		wantID     string
		wantStage  Stage
		wantConf   float64
		wantStatus Status
	}{
		{name: "exact canonical", raw: "Karl Marx", kind: core.KindPerson, wantID: "person:marx-karl", wantStage: StageExact, wantConf: 1.0, wantStatus: StatusResolved},
		{name: "exact alias", raw: "Marx, Karl", kind: core.KindPerson, wantID: "person:marx-karl", wantStage: StageAlias, wantConf: 0.95, wantStatus: StatusResolved},
		{name: "normalized", raw: "KARL  MARX.", kind: core.KindPerson, wantID: "person:marx-karl", wantStage: StageNormalized, wantConf: 0.9, wantStatus: StatusResolved},
		{name: "acronym alias", raw: "RCP", kind: core.KindOrganization, wantID: "organization:rcp", wantStage: StageAlias, wantConf: 0.95, wantStatus: StatusResolved},
		{name: "wrong kind", raw: "Karl Marx", kind: core.KindTerm, wantStatus: StatusNotFound},
		{name: "empty", raw: "  ", kind: core.KindPerson, wantStatus: StatusNotFound},
		{name: "unknown", raw: "Zinoviev", kind: core.KindPerson, wantStatus: StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := l.Link(tt.raw, tt.kind)
			assert.Equal(t, tt.wantStatus, m.Status)
			if tt.wantStatus != StatusResolved {
				assert.Nil(t, m.Entity)
				return
			}
			require.NotNil(t, m.Entity)
			assert.Equal(t, tt.wantID, m.Entity.ID)
			assert.Equal(t, tt.wantStage, m.Stage)
			assert.InDelta(t, tt.wantConf, m.Confidence, 1e-9)
		})
	}
}

func TestLink_Fuzzy(t *testing.T) {
	l := newFixtureLinker(t)

	// One substitution in 14 runes.
	m := l.Link("Rosa Luxenburg", core.KindPerson)
	require.True(t, m.Resolved())
	assert.Equal(t, "person:luxemburg", m.Entity.ID)
	assert.Equal(t, StageFuzzy, m.Stage)
	assert.InDelta(t, (1-1.0/14)*FuzzyScale, m.Confidence, 1e-9)
	assert.LessOrEqual(t, m.Confidence, 1.0)

	// Too far from anything.
	assert.Equal(t, StatusNotFound, l.Link("Rosa Parks", core.KindPerson).Status)
}

func TestLink_SameNameTieIsAmbiguous(t *testing.T) {
	l := newFixtureLinker(t)

	m := l.Link("Capital", core.KindTerm)
	assert.Equal(t, StatusAmbiguous, m.Status)
	assert.Nil(t, m.Entity)
	assert.Equal(t, []string{"term:capital", "term:capital-2"}, m.Candidates)
}

func TestLink_ContextBreaksTie(t *testing.T) {
	l := newFixtureLinker(t)

	m := l.Link("Capital", core.KindTerm, "critique of political economy")
	require.True(t, m.Resolved())
	assert.Equal(t, "term:capital-2", m.Entity.ID)
	assert.InDelta(t, 1.0, m.Confidence, 1e-9)

	m = l.Link("Capital", core.KindTerm, "wage labour", "exploitation")
	require.True(t, m.Resolved())
	assert.Equal(t, "term:capital", m.Entity.ID)
}

func TestLink_FuzzyNearTieIsAmbiguous(t *testing.T) {
	idx, err := index.FromEntities([]core.CanonicalEntity{
		{ID: "person:smith-john", Kind: core.KindPerson, CanonicalName: "John Smith"},
		{ID: "person:smith-jon", Kind: core.KindPerson, CanonicalName: "Jon Smithe"},
	})
	require.NoError(t, err)
	l, err := New(idx, WithFuzzyThreshold(0.8))
	require.NoError(t, err)

	// "jon smith" is one edit from both names.
	m := l.Link("Jon Smith", core.KindPerson)
	assert.Equal(t, StatusAmbiguous, m.Status)
	assert.Equal(t, StageFuzzy, m.Stage)
	assert.ElementsMatch(t, []string{"person:smith-john", "person:smith-jon"}, m.Candidates)
}

func TestLinkAny(t *testing.T) {
	idx, err := index.FromEntities([]core.CanonicalEntity{
		{ID: "periodical:iskra", Kind: core.KindPeriodical, CanonicalName: "Iskra"},
		{ID: "organization:iskra", Kind: core.KindOrganization, CanonicalName: "Iskra"},
		{ID: "term:surplus-value", Kind: core.KindTerm, CanonicalName: "Surplus Value"},
	})
	require.NoError(t, err)
	l, err := New(idx)
	require.NoError(t, err)

	m := l.LinkAny("Surplus Value")
	require.True(t, m.Resolved())
	assert.Equal(t, core.KindTerm, m.Entity.Kind)

	m = l.LinkAny("Iskra")
	assert.Equal(t, StatusAmbiguous, m.Status)
	assert.Equal(t, []string{"organization:iskra", "periodical:iskra"}, m.Candidates)

	assert.Equal(t, StatusNotFound, l.LinkAny("Narodnaya Volya").Status)
}

func TestLinkFields(t *testing.T) {
	l := newFixtureLinker(t)
	rec := &Collector{}

	entities, warnings := l.LinkFields(FieldValues{
		DocumentID:   "/subject/economy/index.htm",
		Authors:      []string{"Karl Marx", "Frederick Engels"},
		Organization: "CPGB",
		Keywords:     []string{"Surplus Value", "Capital", "unknown thing"},
	}, rec)

	assert.Equal(t, []string{"person:engels-frederick", "person:marx-karl"}, entities[core.KindPerson])
	assert.Equal(t, []string{"organization:cpgb"}, entities[core.KindOrganization])
	assert.Equal(t, []string{"term:surplus-value"}, entities[core.KindTerm])

	require.Len(t, warnings, 1)
	assert.Equal(t, core.WarnAmbiguousMatch, warnings[0].Code)
	assert.Equal(t, "keywords", warnings[0].Field)

	items := rec.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Capital", items[0].Raw)
	assert.Equal(t, "/subject/economy/index.htm", items[0].DocumentID)
	assert.Equal(t, []string{"term:capital", "term:capital-2"}, items[0].CandidateIDs)
}

func TestLinkFields_NothingFound(t *testing.T) {
	l := newFixtureLinker(t)
	entities, warnings := l.LinkFields(FieldValues{Keywords: []string{"nothing"}}, nil)
	assert.Nil(t, entities)
	assert.Empty(t, warnings)
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 1.0, Ratio("marx", "marx"))
	assert.InDelta(t, 0.75, Ratio("marx", "mark"), 1e-9)
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))
}
