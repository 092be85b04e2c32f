// Package linker resolves raw strings extracted from documents to canonical
// entities in an index.Index.
//
// Matching runs in stages of decreasing confidence: exact canonical name,
// exact alias, normalized form, then edit-distance similarity within the
// entity kind's blocking bucket. The first stage that produces candidates
// decides the outcome. When more than one entity qualifies and the optional
// context cannot separate them, the linker refuses to guess: the result is
// ambiguous and no entity is returned.
package linker
