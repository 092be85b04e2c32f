package registry

import (
	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/strategy"
)

var (
	archiveAuthor = []string{"author.path", "author.title", "author.keyword", "author.tag", "author.byline"}
	archiveDate   = []string{"date.path_year", "date.title", "date.filename", "date.tag", "date.provenance"}
)

// DefaultRows is the built-in table.
var DefaultRows = []Row{
	{core.SectionArchive, core.FieldAuthor, archiveAuthor},
	{core.SectionArchive, core.FieldDate, archiveDate},
	{core.SectionArchive, core.FieldKeywords, []string{"keywords.tag"}},
	{core.SectionArchive, core.FieldClassification, []string{"classification.tag"}},
	{core.SectionArchive, core.FieldOrganization, []string{"organization.tag"}},

	{core.SectionReference, core.FieldAuthor, archiveAuthor},
	{core.SectionReference, core.FieldDate, archiveDate},
	{core.SectionReference, core.FieldKeywords, []string{"keywords.tag"}},
	{core.SectionReference, core.FieldClassification, []string{"classification.tag"}},

	{core.SectionETOL, core.FieldAuthor, []string{"author.title", "author.path", "author.keyword", "author.tag", "author.byline"}},
	{core.SectionETOL, core.FieldDate, archiveDate},
	{core.SectionETOL, core.FieldKeywords, []string{"keywords.tag"}},
	{core.SectionETOL, core.FieldClassification, []string{"classification.tag"}},
	{core.SectionETOL, core.FieldOrganization, []string{"organization.tag", "organization.acronym"}},

	{core.SectionEROL, core.FieldAuthor, []string{"author.organization", "author.title", "author.keyword", "author.tag", "author.byline"}},
	{core.SectionEROL, core.FieldDate, []string{"date.title", "date.filename", "date.path_year", "date.tag", "date.provenance"}},
	{core.SectionEROL, core.FieldKeywords, []string{"keywords.tag"}},
	{core.SectionEROL, core.FieldClassification, []string{"classification.tag"}},
	{core.SectionEROL, core.FieldOrganization, []string{"organization.acronym", "organization.tag"}},

	{core.SectionHistory, core.FieldAuthor, []string{"author.title", "author.keyword", "author.tag", "author.byline"}},
	{core.SectionHistory, core.FieldDate, archiveDate},
	{core.SectionHistory, core.FieldKeywords, []string{"keywords.tag"}},
	{core.SectionHistory, core.FieldClassification, []string{"classification.tag"}},
	{core.SectionHistory, core.FieldOrganization, []string{"organization.tag", "organization.acronym"}},

	{core.SectionPeriodicals, core.FieldAuthor, []string{"author.byline", "author.title", "author.tag"}},
	{core.SectionPeriodicals, core.FieldDate, []string{"date.filename", "date.path_year", "date.title", "date.tag"}},
	{core.SectionPeriodicals, core.FieldKeywords, []string{"keywords.tag"}},
	{core.SectionPeriodicals, core.FieldOrganization, []string{"organization.tag"}},

	{core.SectionSubject, core.FieldAuthor, []string{"author.title", "author.keyword", "author.tag", "author.byline"}},
	{core.SectionSubject, core.FieldDate, []string{"date.title", "date.tag", "date.provenance"}},
	{core.SectionSubject, core.FieldKeywords, []string{"keywords.tag"}},
	{core.SectionSubject, core.FieldClassification, []string{"classification.tag"}},

	{core.SectionGlossary, core.FieldKeywords, []string{"keywords.tag"}},
}

var defaultRegistry = func() *Registry {
	r, err := New(strategy.Default(), DefaultRows...)
	if err != nil {
		panic(err)
	}
	return r
}()

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry
}
