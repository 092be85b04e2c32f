package core

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a storage identifier derived from document or entity content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ContentHash returns the 128-bit BLAKE2b digest of text as lowercase hex.
func ContentHash(text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// DocType is the structural class of a document, used downstream to pick a
// chunking policy.
type DocType string

const (
	DocTypeIndex           DocType = "index"
	DocTypeArticle         DocType = "article"
	DocTypeChapter         DocType = "chapter"
	DocTypeLetter          DocType = "letter"
	DocTypePeriodicalIssue DocType = "periodical_issue"
	DocTypeGlossaryEntry   DocType = "glossary_entry"
	DocTypeLegalDocument   DocType = "legal_document"
	DocTypeMultimedia      DocType = "multimedia"
)

// Field names a best-effort metadata field.
type Field string

const (
	FieldAuthor         Field = "author"
	FieldDate           Field = "date"
	FieldKeywords       Field = "keywords"
	FieldClassification Field = "classification"
	FieldOrganization   Field = "organization"
)

// Fields lists every best-effort field in extraction order.
var Fields = []Field{FieldAuthor, FieldDate, FieldKeywords, FieldClassification, FieldOrganization}

// FieldSource records which signal produced a field value.
type FieldSource string

const (
	SourcePath                  FieldSource = "path"
	SourceTitle                 FieldSource = "title"
	SourceKeyword               FieldSource = "keyword"
	SourceTag                   FieldSource = "tag"
	SourceBodyPattern           FieldSource = "body-pattern"
	SourceOrganizationInference FieldSource = "organization-inference"
	SourceUnknown               FieldSource = "unknown"
)

// FieldCandidate is one strategy's proposal for one field.
// A nil Value means the strategy found no signal.
type FieldCandidate struct {
	Strategy   string
	Value      []string
	Source     FieldSource
	Confidence float64
}

// IsNull reports whether the candidate carries no value.
func (c *FieldCandidate) IsNull() bool {
	return c == nil || len(c.Value) == 0
}

// First returns the primary value, or "" for a null candidate.
func (c *FieldCandidate) First() string {
	if c.IsNull() {
		return ""
	}
	return c.Value[0]
}

// EntityKind classifies canonical entities.
type EntityKind string

const (
	KindPerson       EntityKind = "person"
	KindTerm         EntityKind = "term"
	KindOrganization EntityKind = "organization"
	KindEvent        EntityKind = "event"
	KindPeriodical   EntityKind = "periodical"
	KindPlace        EntityKind = "place"
)

// EntityKinds lists all kinds in resolution order.
var EntityKinds = []EntityKind{KindPerson, KindTerm, KindOrganization, KindEvent, KindPeriodical, KindPlace}

// CanonicalEntity is a normalized, deduplicated resolution target.
type CanonicalEntity struct {
	ID            string
	Kind          EntityKind
	CanonicalName string
	Aliases       []string
	Slug          string // archive author directory, e.g. "marx"
	Anchor        string // glossary anchor name, e.g. "marx-karl"
	Description   string // glossary body text, used for context tie-breaking
}

// EdgeType classifies a cross-reference by its target.
type EdgeType string

const (
	EdgeAuthorReference   EdgeType = "author_reference"
	EdgeCrossSubject      EdgeType = "cross_subject"
	EdgeReferenceLink     EdgeType = "reference_link"
	EdgeHistoricalContext EdgeType = "historical_context"
	EdgeExternal          EdgeType = "external"
)

// GraphEdge is a directed link from one document to a document or entity.
type GraphEdge struct {
	SourceID       string   `json:"source_id"`
	TargetID       string   `json:"target_id"`
	EdgeType       EdgeType `json:"edge_type"`
	TargetResolved bool     `json:"target_resolved"`
	Ordinal        int      `json:"ordinal"` // position of the link within the source document
}

// DocumentStructure summarizes the structural signals used by the classifier.
type DocumentStructure struct {
	HeadingDepth    int     `json:"heading_depth"`
	HeadingCount    int     `json:"heading_count"`
	ParagraphCount  int     `json:"paragraph_count"`
	LinkCount       int     `json:"link_count"`
	TextSize        int     `json:"text_size"`
	ContentDensity  float64 `json:"content_density"`
	LowConfidence   bool    `json:"low_confidence"`
	EncodingSuspect bool    `json:"encoding_suspect"`
}

// WarningCode identifies a locally recovered problem.
type WarningCode string

const (
	WarnMalformedInput  WarningCode = "malformed_input"
	WarnAmbiguousMatch  WarningCode = "ambiguous_match"
	WarnEncodingSuspect WarningCode = "encoding_suspect"
	WarnUnresolvedLink  WarningCode = "unresolved_link"
)

// Warning is a structured, non-fatal problem attached to a record.
type Warning struct {
	Field  string      `json:"field,omitempty"`
	Code   WarningCode `json:"code"`
	Detail string      `json:"detail"`
}

// DocumentMetadata is the assembled output record for one document.
// Optional values are pointers: nil means the field could not be extracted.
type DocumentMetadata struct {
	SourceURL   string  `json:"source_url"`
	Title       string  `json:"title"`
	ContentHash string  `json:"content_hash"`
	SectionType Section `json:"section_type"`
	DocType     DocType `json:"doc_type"`

	Author           *string     `json:"author"`
	AuthorsAlt       []string    `json:"authors_alt"`
	AuthorSource     FieldSource `json:"author_source"`
	AuthorConfidence float64     `json:"author_confidence"`

	DateWritten    *string     `json:"date_written"`
	DateSource     FieldSource `json:"date_source"`
	DateConfidence float64     `json:"date_confidence"`

	Keywords           []string    `json:"keywords"`
	KeywordsSource     FieldSource `json:"keywords_source"`
	KeywordsConfidence float64     `json:"keywords_confidence"`

	Classification           *string     `json:"classification"`
	ClassificationSource     FieldSource `json:"classification_source"`
	ClassificationConfidence float64     `json:"classification_confidence"`

	Organization           *string     `json:"organization"`
	OrganizationSource     FieldSource `json:"organization_source"`
	OrganizationConfidence float64     `json:"organization_confidence"`

	GlossaryEntities  map[EntityKind][]string `json:"glossary_entities"`
	CrossReferences   []GraphEdge             `json:"cross_references"`
	DocumentStructure DocumentStructure       `json:"document_structure"`
	Warnings          []Warning               `json:"warnings"`
}

// DocumentID returns the canonical identifier the record was built from.
func (m *DocumentMetadata) DocumentID() string {
	return DocumentIDFromURL(m.SourceURL)
}

// Checkpoint marks how far a pipeline run has progressed.
type Checkpoint struct {
	Run            string
	LastSeq        uint64 // highest contiguous completed unit
	LastDocumentID string
	Digest         uint64 // chained hash of the document IDs up to LastSeq, 0 if unknown
	Processed      uint64
	Failed         uint64
	UpdatedAt      time.Time
}

// Ambiguity records an entity link that was refused because candidates tied.
type Ambiguity struct {
	DocumentID   string
	Field        string
	Raw          string
	Kind         EntityKind
	CandidateIDs []string
	Reason       string
}
