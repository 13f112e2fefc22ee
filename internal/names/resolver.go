// Package names canonicalizes free-text suspect names against the roster.
// Players type partial, accented or colloquial names ("bombita", "madame",
// "jack domador"); the resolver works through increasingly permissive layers
// and stays deterministic for a fixed roster.
package names

import (
	"regexp"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/ovalles/medianoche/internal/textnorm"
)

// fuzzyThreshold is the minimum Jaro-Winkler score for the last-resort fuzzy
// layer. Matches below it are rejected rather than guessed.
const fuzzyThreshold = 0.85

// Resolver maps raw player input to canonical roster names. Immutable after
// construction and safe for concurrent use.
type Resolver struct {
	roster     []string
	aliasIndex map[string]string
	// aliasKeys holds the alias index keys sorted longest first so that
	// in-text scans prefer "madame seraphine" over "madame".
	aliasKeys []string
}

// NewResolver builds the resolver from the roster (in first-seen order) and
// the declared aliases per canonical name. The alias index contains each
// canonical name, its individual tokens, every declared alias and its tokens,
// all normalized.
func NewResolver(roster []string, aliases map[string][]string) *Resolver {
	idx := make(map[string]string)
	add := func(key, canonical string) {
		key = textnorm.Normalize(key)
		if key == "" {
			return
		}
		if _, taken := idx[key]; !taken {
			idx[key] = canonical
		}
	}

	for _, canonical := range roster {
		add(canonical, canonical)
		for _, token := range textnorm.Tokens(canonical) {
			add(token, canonical)
		}
		for _, alias := range aliases[canonical] {
			add(alias, canonical)
			for _, token := range textnorm.Tokens(alias) {
				add(token, canonical)
			}
		}
	}

	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return &Resolver{
		roster:     append([]string(nil), roster...),
		aliasIndex: idx,
		aliasKeys:  keys,
	}
}

// Roster returns the canonical names in first-seen order.
func (r *Resolver) Roster() []string {
	return append([]string(nil), r.roster...)
}

// Canonicalize resolves raw to a canonical roster name. The layers run in
// order: exact roster match, alias index, normalized equality, token-overlap
// scoring (ties broken by roster order), and finally Jaro-Winkler similarity.
// Returns false when nothing matches.
func (r *Resolver) Canonicalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	for _, s := range r.roster {
		if s == raw {
			return s, true
		}
	}

	norm := textnorm.Normalize(raw)
	if canonical, ok := r.aliasIndex[norm]; ok {
		return canonical, true
	}

	for _, s := range r.roster {
		if textnorm.Normalize(s) == norm {
			return s, true
		}
	}

	if best, ok := r.bestTokenOverlap(raw); ok {
		return best, true
	}

	return r.fuzzyMatch(norm)
}

// bestTokenOverlap scores each roster entry by the size of the intersection
// between its normalized tokens and the input's, keeping the first roster
// entry on ties. Only a strictly positive score is accepted.
func (r *Resolver) bestTokenOverlap(raw string) (string, bool) {
	input := make(map[string]struct{})
	for _, t := range textnorm.Tokens(raw) {
		input[t] = struct{}{}
	}

	var (
		best      string
		bestScore int
	)
	for _, s := range r.roster {
		score := 0
		for _, t := range textnorm.Tokens(s) {
			if _, ok := input[t]; ok {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = s
		}
	}
	if bestScore > 0 {
		return best, true
	}
	return "", false
}

// fuzzyMatch is the typo-tolerant last resort: highest Jaro-Winkler score
// against the normalized roster, accepted only above fuzzyThreshold.
func (r *Resolver) fuzzyMatch(norm string) (string, bool) {
	var (
		best      string
		bestScore float64
	)
	for _, s := range r.roster {
		score := matchr.JaroWinkler(norm, textnorm.Normalize(s), false)
		if score > bestScore {
			bestScore = score
			best = s
		}
	}
	if bestScore >= fuzzyThreshold {
		return best, true
	}
	return "", false
}

// Mention is an occurrence of a roster name (or one of its aliases) inside a
// larger text. Pos indexes into textnorm.Normalize(text).
type Mention struct {
	Canonical string
	Pos       int
}

// Mentions returns one mention per canonical name found anywhere in text,
// ordered by first appearance. Longer alias keys are matched before their
// prefixes, so "madame seraphine" wins over "madame".
func (r *Resolver) Mentions(text string) []Mention {
	norm := textnorm.Normalize(text)
	if norm == "" {
		return nil
	}

	var (
		hits []Mention
		seen = make(map[string]struct{})
	)
	for _, key := range r.aliasKeys {
		pattern := regexp.MustCompile(`(?:^|\W)` + regexp.QuoteMeta(key) + `(?:$|\W)`)
		loc := pattern.FindStringIndex(norm)
		if loc == nil {
			continue
		}
		canonical := r.aliasIndex[key]
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		pos := loc[0]
		// The leading non-word rune, if any, is part of the match.
		if pos < loc[1] && norm[pos] != key[0] {
			pos++
		}
		hits = append(hits, Mention{Canonical: canonical, Pos: pos})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Pos < hits[j].Pos })
	return hits
}

// FindAll returns the canonical names mentioned anywhere in text, in order of
// first appearance.
func (r *Resolver) FindAll(text string) []string {
	mentions := r.Mentions(text)
	out := make([]string, len(mentions))
	for i, m := range mentions {
		out[i] = m.Canonical
	}
	return out
}
