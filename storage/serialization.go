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


package storage

import (
	"fmt"

	"github.com/poiesic/archivist/core"
)

// MarshalRecord serializes a DocumentMetadata to bytes.
func MarshalRecord(record *core.DocumentMetadata) []byte {
	buf := make([]byte, core.DocumentMetadataMUS.Size(*record))
	core.DocumentMetadataMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalRecord deserializes a DocumentMetadata from bytes.
func UnmarshalRecord(data []byte) (*core.DocumentMetadata, error) {
	record, _, err := core.DocumentMetadataMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: record: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	buf := make([]byte, core.CheckpointMUS.Size(*checkpoint))
	core.CheckpointMUS.Marshal(*checkpoint, buf)
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	checkpoint, _, err := core.CheckpointMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: checkpoint: %w", ErrSerializationFailed, err)
	}
	return &checkpoint, nil
}

// MarshalAmbiguity serializes an Ambiguity to bytes.
func MarshalAmbiguity(a *core.Ambiguity) []byte {
	buf := make([]byte, core.AmbiguityMUS.Size(*a))
	core.AmbiguityMUS.Marshal(*a, buf)
	return buf
}

// UnmarshalAmbiguity deserializes an Ambiguity from bytes.
func UnmarshalAmbiguity(data []byte) (*core.Ambiguity, error) {
	a, _, err := core.AmbiguityMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: ambiguity: %w", ErrSerializationFailed, err)
	}
	return &a, nil
}

// MarshalEntity serializes a CanonicalEntity to bytes.
func MarshalEntity(e *core.CanonicalEntity) []byte {
	buf := make([]byte, core.CanonicalEntityMUS.Size(*e))
	core.CanonicalEntityMUS.Marshal(*e, buf)
	return buf
}

// UnmarshalEntity deserializes a CanonicalEntity from bytes.
func UnmarshalEntity(data []byte) (*core.CanonicalEntity, error) {
	e, _, err := core.CanonicalEntityMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: entity: %w", ErrSerializationFailed, err)
	}
	return &e, nil
}
