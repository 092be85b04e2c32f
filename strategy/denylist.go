package strategy

import (
	"regexp"

	"github.com/poiesic/archivist/index"
)

// DefaultDenylist names archive volunteers and generic attributions that
// appear in author tags but never wrote the work.
var DefaultDenylist = []string{
	"Marxists Internet Archive",
	"MIA",
	"Andy Blunden",
	"Brian Baggins",
	"David Walters",
	"Einde O'Callaghan",
	"Sally Ryan",
	"Ted Crawford",
	"Paul Flewers",
	"Anonymous",
	"Unknown",
}

var rolePattern = regexp.MustCompile(`(?i)^(transcri(bed|ption|ber)|edited|editor|html|markup|proofread|translated|translator|scanned|prepared|converted|compiled|online version|copyleft)\b`)

// Denylist is a set of normalized non-author names.
type Denylist map[string]bool

// NewDenylist builds a denylist from display names.
func NewDenylist(names ...string) Denylist {
	d := make(Denylist, len(names))
	for _, n := range names {
		if k := index.Normalize(n); k != "" {
			d[k] = true
		}
	}
	return d
}

// Rejects reports whether name is a known non-author attribution, either by
// name or by a leading role phrase such as "Transcribed by".
func (d Denylist) Rejects(name string) bool {
	if rolePattern.MatchString(name) {
		return true
	}
	return d[index.Normalize(name)]
}
