// Package strategy holds the field extraction strategies and the catalog
// that names them.
//
// A strategy inspects one RawDocument for one kind of signal and proposes a
// value for one field. Absence of the signal is a nil candidate, never an
// error; an error means the signal was present but malformed. Each strategy
// has a fixed source and confidence, so the provenance of a value is known
// from the strategy that produced it.
package strategy
