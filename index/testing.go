package index

import "github.com/poiesic/archivist/core"

// FixtureEntities returns a small set of entities for tests across packages.
func FixtureEntities() []core.CanonicalEntity {
	return []core.CanonicalEntity{
		{ID: "person:marx-karl", Kind: core.KindPerson, CanonicalName: "Karl Marx", Aliases: []string{"Marx, Karl", "Moor"}, Slug: "marx", Anchor: "marx-karl", Description: "German philosopher, economist and revolutionary."},
		{ID: "person:engels-frederick", Kind: core.KindPerson, CanonicalName: "Frederick Engels", Aliases: []string{"Engels, Frederick", "Friedrich Engels"}, Slug: "engels", Anchor: "engels-frederick"},
		{ID: "person:lenin", Kind: core.KindPerson, CanonicalName: "V.I. Lenin", Aliases: []string{"Lenin", "Vladimir Ilyich Lenin"}, Slug: "lenin", Anchor: "lenin"},
		{ID: "person:cannon-james", Kind: core.KindPerson, CanonicalName: "James P. Cannon", Aliases: []string{"Cannon, James P."}, Anchor: "cannon-james"},
		{ID: "person:kollontai", Kind: core.KindPerson, CanonicalName: "Alexandra Kollontai", Aliases: []string{"Kollontai, Alexandra"}, Slug: "kollonta", Anchor: "kollontai"},
		{ID: "person:luxemburg", Kind: core.KindPerson, CanonicalName: "Rosa Luxemburg", Aliases: []string{"Luxemburg, Rosa"}, Slug: "luxemburg", Anchor: "luxemburg"},
		{ID: "term:capital", Kind: core.KindTerm, CanonicalName: "Capital", Description: "Value which expands itself through the exploitation of wage labour."},
		{ID: "term:capital-2", Kind: core.KindTerm, CanonicalName: "Capital", Description: "Marx's book Das Kapital, a critique of political economy."},
		{ID: "term:surplus-value", Kind: core.KindTerm, CanonicalName: "Surplus Value", Anchor: "surplus-value"},
		{ID: "organization:rcp", Kind: core.KindOrganization, CanonicalName: "Revolutionary Communist Party", Aliases: []string{"RCP"}},
		{ID: "organization:cpgb", Kind: core.KindOrganization, CanonicalName: "Communist Party of Great Britain", Aliases: []string{"CPGB"}},
		{ID: "organization:swp", Kind: core.KindOrganization, CanonicalName: "Socialist Workers Party", Aliases: []string{"SWP"}},
		{ID: "periodical:new-international", Kind: core.KindPeriodical, CanonicalName: "New International", Anchor: "new-international"},
		{ID: "event:paris-commune", Kind: core.KindEvent, CanonicalName: "Paris Commune", Anchor: "paris-commune"},
	}
}

// NewFixture returns an index over FixtureEntities.
func NewFixture() *Index {
	idx, err := FromEntities(FixtureEntities())
	if err != nil {
		panic(err)
	}
	return idx
}
