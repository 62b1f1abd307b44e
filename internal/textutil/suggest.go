package textutil

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// minSuggestScore drops candidates that share almost nothing with the query.
const minSuggestScore = 0.2

// Fingerprint represents a character-trigram frequency vector.
type Fingerprint struct {
	grams map[string]float64
	norm  float64
}

// NewFingerprint builds a trigram fingerprint of text. Letters are lowercased
// and runs of non-alphanumerics collapse to a single space. Returns nil when
// text has no letters or digits.
func NewFingerprint(text string) *Fingerprint {
	normalized := normalizeForGrams(text)
	if normalized == "" {
		return nil
	}
	padded := []rune(" " + normalized + " ")
	counts := make(map[string]float64, len(padded))
	for i := 0; i+3 <= len(padded); i++ {
		counts[string(padded[i:i+3])]++
	}
	var norm float64
	for _, c := range counts {
		norm += c * c
	}
	return &Fingerprint{grams: counts, norm: math.Sqrt(norm)}
}

func normalizeForGrams(text string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space && b.Len() > 0 {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for gram, count := range a.grams {
		if other, ok := b.grams[gram]; ok {
			dot += count * other
		}
	}
	return dot / (a.norm * b.norm)
}

// SuggestNames ranks candidates by similarity to query and returns at most
// limit names, best first. Ties keep the candidates' original order.
func SuggestNames(query string, candidates []string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	target := NewFingerprint(query)
	if target == nil {
		return nil
	}
	type scored struct {
		name  string
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, name := range candidates {
		score := CosineSimilarity(target, NewFingerprint(name))
		if score < minSuggestScore {
			continue
		}
		ranked = append(ranked, scored{name: name, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}
	return out
}
