// Package htmldoc turns corpus HTML pages into core.RawDocument values.
//
// Parse reads one page: title, lower-cased meta tags, headings, paragraphs
// with their CSS class, provenance blocks, links, media and visible text.
// Glossary pages additionally yield their term blocks. Pages are decoded to
// UTF-8 from the charset they declare.
//
// DirSource walks a mirror of the corpus on disk in lexical path order and
// loads pages lazily, so it can feed an ingestion pipeline directly.
package htmldoc
