// Package index builds the canonical entity index: an immutable lookup of
// people, terms, organizations, events, periodicals and places with their
// aliases, built once from the glossary corpus and optional seed files.
//
// An Index is constructed before any document is processed and is never
// mutated afterwards, so it can be shared by any number of goroutines
// without locking. Lookups by canonical name, alias, normalized form, author
// slug and glossary anchor are map reads; fuzzy candidates are bounded by a
// per-kind blocking key.
package index
