package core

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// ErrCorruptLength is returned when an encoded collection length is out of range.
var ErrCorruptLength = errors.New("corrupt length in encoded record")

// MUS serializers for stored records. Field order is part of the on-disk
// format; append new fields at the end.
var (
	DocumentMetadataMUS = musSerializer[DocumentMetadata]{encode: encodeMetadata, decode: decodeMetadata}
	GraphEdgeMUS        = musSerializer[GraphEdge]{encode: encodeEdge, decode: decodeEdge}
	CheckpointMUS       = musSerializer[Checkpoint]{encode: encodeCheckpoint, decode: decodeCheckpoint}
	AmbiguityMUS        = musSerializer[Ambiguity]{encode: encodeAmbiguity, decode: decodeAmbiguity}
	CanonicalEntityMUS  = musSerializer[CanonicalEntity]{encode: encodeEntity, decode: decodeEntity}
)

type musSerializer[T any] struct {
	encode func(w *musWriter, v *T)
	decode func(r *musReader, v *T)
}

// Size returns the encoded size of v.
func (s musSerializer[T]) Size(v T) int {
	w := musWriter{sizeOnly: true}
	s.encode(&w, &v)
	return w.n
}

// Marshal encodes v into bs, which must hold Size(v) bytes.
func (s musSerializer[T]) Marshal(v T, bs []byte) int {
	w := musWriter{bs: bs}
	s.encode(&w, &v)
	return w.n
}

// Unmarshal decodes a value from bs.
func (s musSerializer[T]) Unmarshal(bs []byte) (T, int, error) {
	var v T
	r := musReader{bs: bs}
	s.decode(&r, &v)
	return v, r.n, r.err
}

type musWriter struct {
	bs       []byte
	n        int
	sizeOnly bool
}

func (w *musWriter) str(s string) {
	if w.sizeOnly {
		w.n += ord.String.Size(s)
		return
	}
	w.n += ord.String.Marshal(s, w.bs[w.n:])
}

func (w *musWriter) boolean(b bool) {
	if w.sizeOnly {
		w.n += ord.Bool.Size(b)
		return
	}
	w.n += ord.Bool.Marshal(b, w.bs[w.n:])
}

func (w *musWriter) integer(i int) {
	if w.sizeOnly {
		w.n += varint.Int.Size(i)
		return
	}
	w.n += varint.Int.Marshal(i, w.bs[w.n:])
}

func (w *musWriter) uint(u uint64) {
	if w.sizeOnly {
		w.n += varint.Uint64.Size(u)
		return
	}
	w.n += varint.Uint64.Marshal(u, w.bs[w.n:])
}

func (w *musWriter) float(f float64) {
	w.uint(math.Float64bits(f))
}

func (w *musWriter) optString(s *string) {
	w.boolean(s != nil)
	if s != nil {
		w.str(*s)
	}
}

// strings encodes nil as length -1 so a null list survives a round trip.
func (w *musWriter) strings(ss []string) {
	if ss == nil {
		w.integer(-1)
		return
	}
	w.integer(len(ss))
	for _, s := range ss {
		w.str(s)
	}
}

func (w *musWriter) time(t time.Time) {
	w.boolean(!t.IsZero())
	if !t.IsZero() {
		w.uint(uint64(t.UnixMicro()))
	}
}

type musReader struct {
	bs  []byte
	n   int
	err error
}

func (r *musReader) str() string {
	if r.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *musReader) boolean() bool {
	if r.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *musReader) integer() int {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *musReader) uint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *musReader) float() float64 {
	return math.Float64frombits(r.uint())
}

func (r *musReader) optString() *string {
	if !r.boolean() {
		return nil
	}
	s := r.str()
	return &s
}

// length reads a collection length; ok is false for a nil collection.
func (r *musReader) length() (n int, ok bool) {
	l := r.integer()
	if r.err != nil || l == -1 {
		return 0, false
	}
	if l < -1 || l > len(r.bs) {
		r.err = ErrCorruptLength
		return 0, false
	}
	return l, true
}

func (r *musReader) strings() []string {
	l, ok := r.length()
	if !ok {
		return nil
	}
	ss := make([]string, 0, l)
	for i := 0; i < l && r.err == nil; i++ {
		ss = append(ss, r.str())
	}
	return ss
}

func (r *musReader) time() time.Time {
	if !r.boolean() {
		return time.Time{}
	}
	return time.UnixMicro(int64(r.uint())).UTC()
}

func encodeEdge(w *musWriter, e *GraphEdge) {
	w.str(e.SourceID)
	w.str(e.TargetID)
	w.str(string(e.EdgeType))
	w.boolean(e.TargetResolved)
	w.integer(e.Ordinal)
}

func decodeEdge(r *musReader, e *GraphEdge) {
	e.SourceID = r.str()
	e.TargetID = r.str()
	e.EdgeType = EdgeType(r.str())
	e.TargetResolved = r.boolean()
	e.Ordinal = r.integer()
}

func encodeMetadata(w *musWriter, m *DocumentMetadata) {
	w.str(m.SourceURL)
	w.str(m.Title)
	w.str(m.ContentHash)
	w.str(string(m.SectionType))
	w.str(string(m.DocType))

	w.optString(m.Author)
	w.strings(m.AuthorsAlt)
	w.str(string(m.AuthorSource))
	w.float(m.AuthorConfidence)

	w.optString(m.DateWritten)
	w.str(string(m.DateSource))
	w.float(m.DateConfidence)

	w.strings(m.Keywords)
	w.str(string(m.KeywordsSource))
	w.float(m.KeywordsConfidence)

	w.optString(m.Classification)
	w.str(string(m.ClassificationSource))
	w.float(m.ClassificationConfidence)

	w.optString(m.Organization)
	w.str(string(m.OrganizationSource))
	w.float(m.OrganizationConfidence)

	// Map keys are written in sorted order so equal records encode identically.
	if m.GlossaryEntities == nil {
		w.integer(-1)
	} else {
		kinds := make([]string, 0, len(m.GlossaryEntities))
		for k := range m.GlossaryEntities {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		w.integer(len(kinds))
		for _, k := range kinds {
			w.str(k)
			w.strings(m.GlossaryEntities[EntityKind(k)])
		}
	}

	if m.CrossReferences == nil {
		w.integer(-1)
	} else {
		w.integer(len(m.CrossReferences))
		for i := range m.CrossReferences {
			encodeEdge(w, &m.CrossReferences[i])
		}
	}

	s := &m.DocumentStructure
	w.integer(s.HeadingDepth)
	w.integer(s.HeadingCount)
	w.integer(s.ParagraphCount)
	w.integer(s.LinkCount)
	w.integer(s.TextSize)
	w.float(s.ContentDensity)
	w.boolean(s.LowConfidence)
	w.boolean(s.EncodingSuspect)

	if m.Warnings == nil {
		w.integer(-1)
	} else {
		w.integer(len(m.Warnings))
		for _, warn := range m.Warnings {
			w.str(warn.Field)
			w.str(string(warn.Code))
			w.str(warn.Detail)
		}
	}
}

func decodeMetadata(r *musReader, m *DocumentMetadata) {
	m.SourceURL = r.str()
	m.Title = r.str()
	m.ContentHash = r.str()
	m.SectionType = Section(r.str())
	m.DocType = DocType(r.str())

	m.Author = r.optString()
	m.AuthorsAlt = r.strings()
	m.AuthorSource = FieldSource(r.str())
	m.AuthorConfidence = r.float()

	m.DateWritten = r.optString()
	m.DateSource = FieldSource(r.str())
	m.DateConfidence = r.float()

	m.Keywords = r.strings()
	m.KeywordsSource = FieldSource(r.str())
	m.KeywordsConfidence = r.float()

	m.Classification = r.optString()
	m.ClassificationSource = FieldSource(r.str())
	m.ClassificationConfidence = r.float()

	m.Organization = r.optString()
	m.OrganizationSource = FieldSource(r.str())
	m.OrganizationConfidence = r.float()

	if l, ok := r.length(); ok {
		m.GlossaryEntities = make(map[EntityKind][]string, l)
		for i := 0; i < l && r.err == nil; i++ {
			k := EntityKind(r.str())
			m.GlossaryEntities[k] = r.strings()
		}
	}

	if l, ok := r.length(); ok {
		m.CrossReferences = make([]GraphEdge, l)
		for i := 0; i < l && r.err == nil; i++ {
			decodeEdge(r, &m.CrossReferences[i])
		}
	}

	s := &m.DocumentStructure
	s.HeadingDepth = r.integer()
	s.HeadingCount = r.integer()
	s.ParagraphCount = r.integer()
	s.LinkCount = r.integer()
	s.TextSize = r.integer()
	s.ContentDensity = r.float()
	s.LowConfidence = r.boolean()
	s.EncodingSuspect = r.boolean()

	if l, ok := r.length(); ok {
		m.Warnings = make([]Warning, l)
		for i := 0; i < l && r.err == nil; i++ {
			m.Warnings[i] = Warning{Field: r.str(), Code: WarningCode(r.str()), Detail: r.str()}
		}
	}
}

func encodeCheckpoint(w *musWriter, c *Checkpoint) {
	w.str(c.Run)
	w.uint(c.LastSeq)
	w.str(c.LastDocumentID)
	w.uint(c.Processed)
	w.uint(c.Failed)
	w.time(c.UpdatedAt)
	w.uint(c.Digest)
}

func decodeCheckpoint(r *musReader, c *Checkpoint) {
	c.Run = r.str()
	c.LastSeq = r.uint()
	c.LastDocumentID = r.str()
	c.Processed = r.uint()
	c.Failed = r.uint()
	c.UpdatedAt = r.time()
	c.Digest = r.uint()
}

func encodeAmbiguity(w *musWriter, a *Ambiguity) {
	w.str(a.DocumentID)
	w.str(a.Field)
	w.str(a.Raw)
	w.str(string(a.Kind))
	w.strings(a.CandidateIDs)
	w.str(a.Reason)
}

func decodeAmbiguity(r *musReader, a *Ambiguity) {
	a.DocumentID = r.str()
	a.Field = r.str()
	a.Raw = r.str()
	a.Kind = EntityKind(r.str())
	a.CandidateIDs = r.strings()
	a.Reason = r.str()
}

func encodeEntity(w *musWriter, e *CanonicalEntity) {
	w.str(e.ID)
	w.str(string(e.Kind))
	w.str(e.CanonicalName)
	w.strings(e.Aliases)
	w.str(e.Slug)
	w.str(e.Anchor)
	w.str(e.Description)
}

func decodeEntity(r *musReader, e *CanonicalEntity) {
	e.ID = r.str()
	e.Kind = EntityKind(r.str())
	e.CanonicalName = r.str()
	e.Aliases = r.strings()
	e.Slug = r.str()
	e.Anchor = r.str()
	e.Description = r.str()
}
