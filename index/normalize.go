package index

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds case, strips diacritics and punctuation, and collapses
// whitespace, so "Trotsky, Leon." and "trotsky leon" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	space := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		case r == '\'' || r == '’':
			// Apostrophes join: "O'Brien" -> "obrien".
		default:
			space = true
		}
	}
	return b.String()
}

// BlockKey returns the fuzzy blocking key for a name: the first rune of its
// normalized form.
func BlockKey(s string) string {
	n := Normalize(s)
	for _, r := range n {
		return string(r)
	}
	return ""
}

// Slugify turns a name into an identifier fragment: "Karl Marx" -> "karl-marx".
func Slugify(s string) string {
	return strings.ReplaceAll(Normalize(s), " ", "-")
}

// Uninvert turns a glossary heading "Marx, Karl" into "Karl Marx". Names
// without exactly one comma are returned unchanged.
func Uninvert(s string) string {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return s
	}
	last := strings.TrimSpace(parts[0])
	first := strings.TrimSpace(parts[1])
	if last == "" || first == "" {
		return s
	}
	return first + " " + last
}
