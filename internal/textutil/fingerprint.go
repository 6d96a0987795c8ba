package textutil

import (
	"math"
	"strings"
)

// minTokenLength filters stopword-sized fragments out of fingerprints.
const minTokenLength = 3

// Tokenize splits text into lowercase alphanumeric tokens, dropping
// tokens shorter than three characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		return !alnum
	})
	terms := fields[:0]
	for _, token := range fields {
		if len(token) >= minTokenLength {
			terms = append(terms, token)
		}
	}
	return terms
}

// Fingerprint is a normalized term-frequency vector over a phrase's
// tokens.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint builds a fingerprint for text. Returns nil when the
// text yields no usable tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{tokens: counts, norm: math.Sqrt(norm)}
}

// CosineSimilarity compares two fingerprints, returning a value in
// [0, 1]. Either side being nil or empty yields 0.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}
