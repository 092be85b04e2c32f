// Package sqlite stores cross-reference edges in a SQLite database so the
// document graph can be queried from either end.
//
// Edges are keyed by (source_id, ordinal): the position of the link within
// its source document. Re-emitting a document's edges is a no-op, which
// keeps reruns after a crash safe.
package sqlite
