// Package textnorm provides the text normalization used for matching player
// input against rosters, keyword tables and alias indexes. All functions are
// pure and Normalize is idempotent.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after NFD decomposition, so "Dónde"
// becomes "Donde". Note that this also folds "ñ" to "n", which is what the
// alias index relies on for accent-insensitive lookups.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripAccents removes diacritics from s, leaving the base characters.
func StripAccents(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		// The transform chain cannot fail on valid UTF-8; fall back to the input.
		return s
	}
	return out
}

// Normalize lower-cases s, strips diacritics and collapses runs of whitespace
// to single spaces. Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = StripAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

// Tokens splits s into normalized tokens. Underscores count as separators so
// that roster keys like "jack_domador" match the input "Jack Domador".
func Tokens(s string) []string {
	s = strings.ReplaceAll(Normalize(s), "_", " ")
	return strings.Fields(s)
}
