// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage defines the sinks and repositories the pipeline writes
// to, and the binary encoding of stored values.
//
// The core treats output as an append-only collaborator: a RecordSink for
// assembled records and an EdgeSink for cross-reference edges. Both must be
// idempotent per document so that a batch can be rerun after a crash.
// Checkpoints, the ambiguity review queue and the persisted entity index
// live behind their own repository interfaces.
//
// # Implementations
//
//   - storage/badger: records, checkpoints, review queue and entities in
//     BadgerDB, encoded with mus.
//   - storage/sqlite: edges in a SQLite table keyed by (source_id, ordinal)
//     so the graph can be queried in both directions.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	records := badger.NewRecordRepository(backend)
package storage
