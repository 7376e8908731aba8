// Package vectorize holds the fitted lexical vectorizer and feature scaler.
//
// Both types keep their learned state in exported fields so the artifact
// codec can persist them. Neither re-fits implicitly: Transform always uses
// the state learned by Fit.
package vectorize

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNotFitted is returned by Transform before Fit
	ErrNotFitted = errors.New("vectorize: not fitted")

	// ErrWidth is returned when a row does not match the fitted width
	ErrWidth = errors.New("vectorize: width mismatch")
)

// DefaultMaxFeatures caps the vocabulary size
const DefaultMaxFeatures = 500

// minTermRunes is the shortest token kept as a term
const minTermRunes = 2

// TFIDF is a bounded-vocabulary TF-IDF vectorizer over canonical strings.
// Weights are raw term counts times smooth IDF, L2-normalized per row.
type TFIDF struct {
	MaxFeatures int
	Vocabulary  map[string]int // Term → column, columns in alphabetical term order
	IDF         []float64      // Per column: ln((1+n)/(1+df)) + 1
	Documents   int            // Corpus size seen by Fit
}

// NewTFIDF creates a vectorizer keeping at most maxFeatures terms
func NewTFIDF(maxFeatures int) *TFIDF {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &TFIDF{MaxFeatures: maxFeatures}
}

// Fit learns the vocabulary and IDF weights from corpus
func (v *TFIDF) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return fmt.Errorf("fit tfidf: empty corpus")
	}

	// 1. Count corpus frequency and document frequency
	freq := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, term := range terms(doc) {
			freq[term]++
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	// 2. Keep the most frequent terms, ties broken alphabetically
	all := make([]string, 0, len(freq))
	for term := range freq {
		all = append(all, term)
	}
	sort.Slice(all, func(i, j int) bool {
		if freq[all[i]] != freq[all[j]] {
			return freq[all[i]] > freq[all[j]]
		}
		return all[i] < all[j]
	})
	if len(all) > v.MaxFeatures {
		all = all[:v.MaxFeatures]
	}

	// 3. Index alphabetically
	sort.Strings(all)
	v.Vocabulary = make(map[string]int, len(all))
	v.IDF = make([]float64, len(all))
	n := float64(len(corpus))
	for i, term := range all {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	v.Documents = len(corpus)

	return nil
}

// Transform maps each text to a row of Width columns
func (v *TFIDF) Transform(texts []string) ([][]float64, error) {
	if v.Documents == 0 {
		return nil, ErrNotFitted
	}

	rows := make([][]float64, len(texts))
	for i, text := range texts {
		row := make([]float64, len(v.IDF))
		for _, term := range terms(text) {
			if col, ok := v.Vocabulary[term]; ok {
				row[col]++
			}
		}

		var norm float64
		for col := range row {
			row[col] *= v.IDF[col]
			norm += row[col] * row[col]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for col := range row {
				row[col] /= norm
			}
		}
		rows[i] = row
	}

	return rows, nil
}

// Width returns the number of fitted columns
func (v *TFIDF) Width() int {
	return len(v.IDF)
}

// Terms returns the vocabulary in column order
func (v *TFIDF) Terms() []string {
	out := make([]string, len(v.Vocabulary))
	for term, col := range v.Vocabulary {
		out[col] = term
	}
	return out
}

// terms splits a canonical string into vocabulary candidates
func terms(text string) []string {
	fields := strings.Fields(text)
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTermRunes {
			out = append(out, f)
		}
	}
	return out
}
