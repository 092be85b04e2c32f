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


package core

import "errors"

var (
	// ErrInvalidMetadata indicates a DocumentMetadata failed validation.
	ErrInvalidMetadata = errors.New("invalid document metadata")

	// ErrInvalidEntity indicates a CanonicalEntity failed validation.
	ErrInvalidEntity = errors.New("invalid canonical entity")

	// ErrInvalidEdge indicates a GraphEdge failed validation.
	ErrInvalidEdge = errors.New("invalid graph edge")

	// ErrMissingRequired indicates a required metadata field is empty.
	ErrMissingRequired = errors.New("required field is empty")

	// ErrConfidenceRange indicates a confidence outside [0,1].
	ErrConfidenceRange = errors.New("confidence out of range")

	// ErrProvenanceMismatch indicates a field whose value, source and confidence disagree.
	ErrProvenanceMismatch = errors.New("field provenance mismatch")

	// ErrInvalidEntityKind indicates an unknown EntityKind value.
	ErrInvalidEntityKind = errors.New("invalid entity kind")

	// ErrInvalidEdgeType indicates an unknown EdgeType value.
	ErrInvalidEdgeType = errors.New("invalid edge type")

	// ErrInvalidDocType indicates an unknown DocType value.
	ErrInvalidDocType = errors.New("invalid document type")
)
