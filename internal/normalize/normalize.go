// Package normalize turns raw Turkish news text into canonical lemma strings.
//
// Cleaning and tokenization are pure functions. Lemmatization goes through a
// Provider, which chains a primary and a secondary morphological analyzer and
// degrades to the lowercased token when both fail. Every lemma records which
// tier produced it.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// urlPattern matches URL-like substrings up to the next whitespace
var urlPattern = regexp.MustCompile(`(?:http|www\.)\S*`)

// Lower lowercases s with Turkish casing rules (I → ı, İ → i) after NFC
// normalization, so decomposed input compares equal to precomposed input.
func Lower(s string) string {
	// A Caser is stateful; one per call keeps Lower safe for concurrent use
	return cases.Lower(language.Turkish).String(norm.NFC.String(s))
}

// Clean lowercases text, deletes URLs, punctuation, symbols and digits, and
// collapses whitespace. Characters are deleted rather than replaced by
// spaces, so cleaning never splits a token in two.
func Clean(text string) string {
	text = Lower(text)
	text = urlPattern.ReplaceAllString(text, "")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsDigit(r):
			// digits are removed
		case unicode.IsLetter(r), r == '_':
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize cleans text and splits it on whitespace. The result may be empty.
func Tokenize(text string) []string {
	return strings.Fields(Clean(text))
}
