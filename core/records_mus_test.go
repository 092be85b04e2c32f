package core

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"
)

func encode[T any](s musSerializer[T], v T) []byte {
	bs := make([]byte, s.Size(v))
	s.Marshal(v, bs)
	return bs
}

func TestDocumentMetadataMUS_RoundTrip(t *testing.T) {
	m := validMetadata()
	m.AuthorsAlt = []string{"Frederick Engels"}
	m.DateWritten = strPtr("1867")
	m.DateSource = SourcePath
	m.DateConfidence = 0.9
	m.Keywords = []string{}
	m.KeywordsSource = SourceTag
	m.KeywordsConfidence = 0.6
	m.DocumentStructure = DocumentStructure{HeadingDepth: 2, HeadingCount: 5, ContentDensity: 42.5, EncodingSuspect: true}
	m.Warnings = []Warning{{Field: "date", Code: WarnMalformedInput, Detail: "bad meta date"}}

	bs := encode(DocumentMetadataMUS, *m)
	got, n, err := DocumentMetadataMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if n != len(bs) {
		t.Errorf("Unmarshal() consumed %d bytes, want %d", n, len(bs))
	}
	if !reflect.DeepEqual(*m, got) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, *m)
	}
	if got.Keywords == nil {
		t.Errorf("empty keyword list decoded as null")
	}
	if got.Classification != nil {
		t.Errorf("null classification decoded as value")
	}
}

func TestDocumentMetadataMUS_Deterministic(t *testing.T) {
	a := validMetadata()
	a.GlossaryEntities = map[EntityKind][]string{
		KindTerm:         {"term:capital"},
		KindPerson:       {"person:marx-karl"},
		KindOrganization: {"organization:iwma"},
	}
	b := validMetadata()
	b.GlossaryEntities = map[EntityKind][]string{
		KindOrganization: {"organization:iwma"},
		KindPerson:       {"person:marx-karl"},
		KindTerm:         {"term:capital"},
	}
	for i := 0; i < 10; i++ {
		if !bytes.Equal(encode(DocumentMetadataMUS, *a), encode(DocumentMetadataMUS, *b)) {
			t.Fatalf("equal records produced different encodings")
		}
	}
}

func TestCheckpointMUS_RoundTrip(t *testing.T) {
	cp := Checkpoint{
		Run:            "run-1",
		LastSeq:        1200,
		LastDocumentID: "/archive/lenin/works/1917/staterev/ch01.htm",
		Digest:         0x9e3779b97f4a7c15,
		Processed:      1201,
		Failed:         3,
		UpdatedAt:      time.UnixMicro(1700000000123456).UTC(),
	}
	got, _, err := CheckpointMUS.Unmarshal(encode(CheckpointMUS, cp))
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(cp, got) {
		t.Errorf("round trip mismatch: got %+v want %+v", got, cp)
	}
}

func TestAmbiguityMUS_RoundTrip(t *testing.T) {
	a := Ambiguity{
		DocumentID:   "/subject/economy/index.htm",
		Field:        "keywords",
		Raw:          "Capital",
		Kind:         KindTerm,
		CandidateIDs: []string{"term:capital", "term:capital-book"},
		Reason:       "tie at exact",
	}
	got, _, err := AmbiguityMUS.Unmarshal(encode(AmbiguityMUS, a))
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(a, got) {
		t.Errorf("round trip mismatch: got %+v want %+v", got, a)
	}
}

func TestCanonicalEntityMUS_RoundTrip(t *testing.T) {
	e := CanonicalEntity{
		ID:            "person:marx-karl",
		Kind:          KindPerson,
		CanonicalName: "Karl Marx",
		Aliases:       []string{"Marx, Karl", "Moor"},
		Slug:          "marx",
		Anchor:        "marx-karl",
		Description:   "German philosopher",
	}
	got, _, err := CanonicalEntityMUS.Unmarshal(encode(CanonicalEntityMUS, e))
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(e, got) {
		t.Errorf("round trip mismatch: got %+v want %+v", got, e)
	}
}

func TestMUS_TruncatedInput(t *testing.T) {
	bs := encode(DocumentMetadataMUS, *validMetadata())
	_, _, err := DocumentMetadataMUS.Unmarshal(bs[:len(bs)/2])
	if err == nil {
		t.Errorf("Unmarshal() of truncated input returned nil error")
	}
}

func TestMUS_CorruptLength(t *testing.T) {
	w := musWriter{}
	w.sizeOnly = true
	w.integer(1 << 20)
	w2 := musWriter{bs: make([]byte, w.n)}
	w2.integer(1 << 20)
	r := musReader{bs: w2.bs}
	if _, ok := r.length(); ok || !errors.Is(r.err, ErrCorruptLength) {
		t.Errorf("length() = ok %v err %v, want ErrCorruptLength", ok, r.err)
	}
}
