package morph

import (
	"bytes"
	_ "embed"
	"sort"
	"strings"
)

//go:embed lexicon.txt
var lexiconRaw []byte

// Lexicon is a sorted set of known Turkish lemmas.
// It is read-only after construction and safe for concurrent use.
type Lexicon struct {
	lemmas []string
}

// NewLexicon builds a lexicon from the given lemmas (lowercase)
func NewLexicon(lemmas []string) *Lexicon {
	seen := make(map[string]bool, len(lemmas))
	sorted := make([]string, 0, len(lemmas))
	for _, l := range lemmas {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)
	return &Lexicon{lemmas: sorted}
}

// DefaultLexicon returns the embedded news-domain lexicon
func DefaultLexicon() *Lexicon {
	lines := bytes.Split(lexiconRaw, []byte("\n"))
	lemmas := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		lemmas = append(lemmas, string(line))
	}
	return NewLexicon(lemmas)
}

// Contains reports whether s is a known lemma
func (l *Lexicon) Contains(s string) bool {
	if s == "" {
		return false
	}
	i := sort.SearchStrings(l.lemmas, s)
	return i < len(l.lemmas) && l.lemmas[i] == s
}

// Len returns the number of lemmas
func (l *Lexicon) Len() int {
	return len(l.lemmas)
}
