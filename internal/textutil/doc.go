// Package textutil provides tokenization, keyword-similarity, and slug
// helpers for content analysis.
//
// Tokenization lowercases text, splits on non-alphanumeric characters,
// and filters tokens shorter than 3 characters. Fingerprints are
// normalized term-frequency vectors compared with cosine similarity,
// used to collapse near-duplicate keyword phrases.
package textutil
