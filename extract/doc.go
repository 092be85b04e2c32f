// Package extract runs the registry's strategy chain for each field of a
// document and keeps the first non-null candidate.
//
// Precedence is the whole policy: candidates are never averaged or voted
// on. Every attempt is kept for provenance. A strategy that fails or panics
// counts as a null attempt with a malformed_input warning and the chain
// moves on, so one bad signal never costs the other fields.
package extract
