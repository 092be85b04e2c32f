// Package graph turns the hyperlinks of a document into typed
// cross-reference edges.
//
// Relative links are resolved against the document path. Links to corpus
// hosts are internal; every other host becomes an external edge. Internal
// edges are typed by the target's top-level section. A link whose target
// escapes the corpus root, or is missing from the optional document
// catalog, is kept with TargetResolved false so link rot stays measurable.
package graph
