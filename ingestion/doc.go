// Package ingestion runs documents through classification, extraction,
// entity linking, graph building and assembly, and hands the results to
// storage.
//
// A Processor handles one document and holds no mutable state. A Pipeline
// numbers the documents of a Source in order and dispatches one unit per
// document to a fixed-size worker pool:
//   - a unit that fails to load, panics or cannot be stored is logged with
//     its document ID, counted and skipped; siblings keep running
//   - sink writes are retried with exponential backoff
//   - a contiguous watermark of finished units is checkpointed every
//     CheckpointInterval units and at the end, and Run resumes after it
//
// Records are idempotent, so reprocessing units past the watermark after a
// crash rewrites identical data.
package ingestion
