// Package morph provides best-effort Turkish lemmatizers.
//
// Two analyzers are offered, meant to be chained by the normalizer:
//
//   - LexiconAnalyzer strips inflectional suffixes and accepts a stem only
//     when it (or its consonant-softening restoration) is a known lemma.
//
//   - SuffixAnalyzer strips suffixes greedily without a dictionary. It is
//     less precise but never depends on lexicon coverage.
//
// Neither analyzer is a complete morphological parser. Input is expected to
// be lowercase (Turkish casing) and NFC-normalized.
//
// All analyzers are safe for concurrent use by multiple goroutines.
package morph

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnknownWord is returned when no candidate stem is in the lexicon
	ErrUnknownWord = errors.New("morph: no known stem")

	// ErrNoAnalysis is returned when no suffix could be stripped
	ErrNoAnalysis = errors.New("morph: no analysis")
)

const (
	maxDepth      = 4 // Maximum suffixes stripped from one word
	minStemRunes  = 2 // Shortest stem the lexicon analyzer will consider
	minGreedyStem = 3 // Shortest stem the suffix analyzer will leave
)

// LexiconAnalyzer lemmatizes words against a lexicon
type LexiconAnalyzer struct {
	lexicon *Lexicon
}

// NewLexiconAnalyzer creates an analyzer backed by the given lexicon.
// A nil lexicon selects the embedded default.
func NewLexiconAnalyzer(lexicon *Lexicon) *LexiconAnalyzer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &LexiconAnalyzer{lexicon: lexicon}
}

// Analyze returns the lemma of word.
// Candidate stems are explored breadth-first (fewest suffixes stripped
// first, longest suffix first within a level) and the first known stem wins.
func (a *LexiconAnalyzer) Analyze(word string) (string, error) {
	if word == "" {
		return "", ErrUnknownWord
	}
	if lemma, ok := a.lookup(word); ok {
		return lemma, nil
	}

	type candidate struct {
		stem  string
		depth int
	}

	queue := []candidate{{stem: word}}
	visited := map[string]bool{word: true}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c.depth >= maxDepth {
			continue
		}

		for _, sfx := range inflections {
			if !strings.HasSuffix(c.stem, sfx) {
				continue
			}
			stem := c.stem[:len(c.stem)-len(sfx)]
			if utf8.RuneCountInString(stem) < minStemRunes || visited[stem] {
				continue
			}
			visited[stem] = true

			if lemma, ok := a.lookup(stem); ok {
				return lemma, nil
			}
			queue = append(queue, candidate{stem: stem, depth: c.depth + 1})
		}
	}

	return "", ErrUnknownWord
}

// lookup checks s and its softening restoration against the lexicon
func (a *LexiconAnalyzer) lookup(s string) (string, bool) {
	if a.lexicon.Contains(s) {
		return s, true
	}
	if hard := restoreSoftening(s); hard != "" && a.lexicon.Contains(hard) {
		return hard, true
	}
	return "", false
}

// SuffixAnalyzer lemmatizes words by greedy dictionary-free suffix stripping
type SuffixAnalyzer struct{}

// NewSuffixAnalyzer creates a dictionary-free analyzer
func NewSuffixAnalyzer() *SuffixAnalyzer {
	return &SuffixAnalyzer{}
}

// Analyze strips the longest matching suffix repeatedly while the remaining
// stem keeps at least three runes and a vowel. Returns ErrNoAnalysis when
// nothing could be stripped.
func (a *SuffixAnalyzer) Analyze(word string) (string, error) {
	stem := word
	for i := 0; i < maxDepth; i++ {
		next, ok := stripLongest(stem)
		if !ok {
			break
		}
		stem = next
	}

	if stem == word {
		return "", ErrNoAnalysis
	}

	// A stem never ends in ğ in dictionary form
	if strings.HasSuffix(stem, "ğ") {
		stem = restoreSoftening(stem)
	}
	return stem, nil
}

func stripLongest(s string) (string, bool) {
	for _, sfx := range inflections {
		if utf8.RuneCountInString(sfx) < greedyMinRunes || !strings.HasSuffix(s, sfx) {
			continue
		}
		stem := s[:len(s)-len(sfx)]
		if utf8.RuneCountInString(stem) >= minGreedyStem && hasVowel(stem) {
			return stem, true
		}
	}
	return s, false
}
