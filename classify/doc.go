// Package classify assigns a document type from structural signals alone:
// text size, content density (paragraphs per outbound link), heading shape
// and a few layout cues. Classify is a pure function.
package classify
