package linker

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/xrash/smetrics"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/index"
)

const (
	// DefaultFuzzyThreshold is the minimum edit-distance ratio for a fuzzy match.
	DefaultFuzzyThreshold = 0.85

	// DefaultTieMargin is the score distance under which fuzzy candidates tie.
	DefaultTieMargin = 0.02

	// ContextBonus is added to the confidence of a match chosen by context.
	ContextBonus = 0.05

	// FuzzyScale scales a fuzzy ratio into a confidence.
	FuzzyScale = 0.9
)

// Status is the outcome of a link attempt.
type Status string

const (
	StatusResolved  Status = "resolved"
	StatusAmbiguous Status = "ambiguous"
	StatusNotFound  Status = "not_found"
)

// Stage is the matching stage that produced a result.
type Stage string

const (
	StageExact      Stage = "exact"
	StageAlias      Stage = "alias"
	StageNormalized Stage = "normalized"
	StageFuzzy      Stage = "fuzzy"
)

var stageConfidence = map[Stage]float64{
	StageExact:      1.0,
	StageAlias:      0.95,
	StageNormalized: 0.9,
}

var stageRank = map[Stage]int{StageExact: 0, StageAlias: 1, StageNormalized: 2, StageFuzzy: 3}

// Match is the result of linking one raw string.
type Match struct {
	Entity     *core.CanonicalEntity // nil unless resolved
	Status     Status
	Stage      Stage
	Confidence float64
	Candidates []string // candidate IDs when ambiguous
	Reason     string
}

// Resolved reports whether the match names an entity.
func (m Match) Resolved() bool {
	return m.Status == StatusResolved && m.Entity != nil
}

// Linker resolves strings against an immutable index. It holds no mutable
// state and is safe for concurrent use.
type Linker struct {
	idx       *index.Index
	threshold float64
	margin    float64
	logger    *slog.Logger
}

// Option configures a Linker.
type Option func(*Linker) error

// WithFuzzyThreshold sets the minimum similarity ratio for fuzzy matches.
func WithFuzzyThreshold(threshold float64) Option {
	return func(l *Linker) error {
		if threshold <= 0 || threshold > 1 {
			return fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
		}
		l.threshold = threshold
		return nil
	}
}

// WithTieMargin sets the fuzzy tie margin.
func WithTieMargin(margin float64) Option {
	return func(l *Linker) error {
		if margin < 0 || margin >= 1 {
			return fmt.Errorf("%w: %v", ErrInvalidMargin, margin)
		}
		l.margin = margin
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linker) error {
		if logger != nil {
			l.logger = logger
		}
		return nil
	}
}

// New creates a Linker over idx.
func New(idx *index.Index, opts ...Option) (*Linker, error) {
	if idx == nil {
		return nil, ErrNilIndex
	}
	l := &Linker{
		idx:       idx,
		threshold: DefaultFuzzyThreshold,
		margin:    DefaultTieMargin,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "linker")
	return l, nil
}

// Index returns the index the linker reads from.
func (l *Linker) Index() *index.Index {
	return l.idx
}

// Link resolves raw to an entity of kind. Context strings, such as the
// document's keywords or title, are used only to break ties.
func (l *Linker) Link(raw string, kind core.EntityKind, context ...string) Match {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Match{Status: StatusNotFound, Reason: "empty input"}
	}

	stages := []struct {
		stage  Stage
		lookup func(core.EntityKind, string) []*core.CanonicalEntity
	}{
		{StageExact, l.idx.ByName},
		{StageAlias, l.idx.ByAlias},
		{StageNormalized, l.idx.ByNormalized},
	}
	for _, s := range stages {
		found := unique(s.lookup(kind, raw))
		switch len(found) {
		case 0:
			continue
		case 1:
			return Match{Entity: found[0], Status: StatusResolved, Stage: s.stage, Confidence: stageConfidence[s.stage]}
		default:
			return l.breakTie(raw, s.stage, found, stageConfidence[s.stage], context)
		}
	}

	return l.fuzzy(raw, kind, context)
}

// LinkAny resolves raw against every entity kind. Matches in more than one
// kind at the best stage are ambiguous.
func (l *Linker) LinkAny(raw string, context ...string) Match {
	var hits []Match
	for _, kind := range core.EntityKinds {
		if m := l.Link(raw, kind, context...); m.Status != StatusNotFound {
			hits = append(hits, m)
		}
	}
	if len(hits) == 0 {
		return Match{Status: StatusNotFound, Reason: "no candidate in any kind"}
	}

	best := hits[0].Stage
	for _, h := range hits[1:] {
		if stageRank[h.Stage] < stageRank[best] {
			best = h.Stage
		}
	}
	var top []Match
	for _, h := range hits {
		if h.Stage == best {
			top = append(top, h)
		}
	}
	if len(top) == 1 {
		return top[0]
	}

	var ids []string
	for _, h := range top {
		if h.Entity != nil {
			ids = append(ids, h.Entity.ID)
		}
		ids = append(ids, h.Candidates...)
	}
	sort.Strings(ids)
	return Match{Status: StatusAmbiguous, Stage: best, Candidates: ids, Reason: fmt.Sprintf("matches in several kinds at %s", best)}
}

func (l *Linker) fuzzy(raw string, kind core.EntityKind, context []string) Match {
	normRaw := index.Normalize(raw)
	if normRaw == "" {
		return Match{Status: StatusNotFound, Reason: "nothing to compare"}
	}

	type scored struct {
		entity *core.CanonicalEntity
		score  float64
	}
	var hits []scored
	for _, e := range l.idx.Block(kind, index.BlockKey(raw)) {
		best := 0.0
		for _, name := range append([]string{e.CanonicalName}, e.Aliases...) {
			if r := Ratio(normRaw, index.Normalize(name)); r > best {
				best = r
			}
		}
		if best >= l.threshold {
			hits = append(hits, scored{e, best})
		}
	}
	if len(hits) == 0 {
		return Match{Status: StatusNotFound, Reason: "no fuzzy candidate above threshold"}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].entity.ID < hits[j].entity.ID
	})

	var tied []*core.CanonicalEntity
	for _, h := range hits {
		if hits[0].score-h.score <= l.margin {
			tied = append(tied, h.entity)
		}
	}
	confidence := hits[0].score * FuzzyScale
	if len(tied) == 1 {
		return Match{Entity: tied[0], Status: StatusResolved, Stage: StageFuzzy, Confidence: confidence}
	}
	return l.breakTie(raw, StageFuzzy, tied, confidence, context)
}

// breakTie picks the single candidate with the strongest context overlap, or
// returns an ambiguous match.
func (l *Linker) breakTie(raw string, stage Stage, candidates []*core.CanonicalEntity, confidence float64, context []string) Match {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	if ctx := tokens(context...); len(ctx) > 0 {
		bestScore, bestIdx, sole := 0, -1, false
		for i, c := range candidates {
			score := overlap(ctx, tokens(append([]string{c.Description}, c.Aliases...)...))
			switch {
			case score > bestScore:
				bestScore, bestIdx, sole = score, i, true
			case score == bestScore && score > 0:
				sole = false
			}
		}
		if sole {
			return Match{
				Entity:     candidates[bestIdx],
				Status:     StatusResolved,
				Stage:      stage,
				Confidence: min(1.0, confidence+ContextBonus),
				Reason:     "tie broken by context",
			}
		}
	}

	l.logger.Debug("ambiguous link", "raw", raw, "stage", stage, "candidates", ids)
	return Match{
		Status:     StatusAmbiguous,
		Stage:      stage,
		Candidates: ids,
		Reason:     fmt.Sprintf("%d candidates tie at %s", len(ids), stage),
	}
}

// Ratio returns the edit-distance similarity of a and b in [0,1].
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	d := smetrics.WagnerFischer(a, b, 1, 1, 1)
	return 1 - float64(d)/float64(longest)
}

func unique(in []*core.CanonicalEntity) []*core.CanonicalEntity {
	if len(in) < 2 {
		return in
	}
	seen := make(map[string]bool, len(in))
	out := make([]*core.CanonicalEntity, 0, len(in))
	for _, e := range in {
		if !seen[e.ID] {
			seen[e.ID] = true
			out = append(out, e)
		}
	}
	return out
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true, "that": true,
	"which": true, "this": true, "its": true, "his": true, "her": true, "was": true,
}

func tokens(ss ...string) map[string]bool {
	out := make(map[string]bool)
	for _, s := range ss {
		for _, t := range strings.Fields(index.Normalize(s)) {
			if len(t) >= 3 && !stopwords[t] {
				out[t] = true
			}
		}
	}
	return out
}

func overlap(a, b map[string]bool) int {
	n := 0
	for t := range a {
		if b[t] {
			n++
		}
	}
	return n
}
