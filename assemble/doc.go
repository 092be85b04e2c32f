// Package assemble merges the outputs of classification, extraction,
// linking and graph building into one validated DocumentMetadata record.
//
// Assembly only copies. Entity IDs are sorted and warnings keep their
// arrival order, so the same inputs always encode to the same bytes.
package assemble
