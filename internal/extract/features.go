// Package extract computes the handcrafted feature block and the fuzzy
// engine inputs from raw news text.
package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/sahte/internal/normalize"
)

// NumFeatures is the width of the custom feature block
const NumFeatures = 13

// FeatureNames lists the custom feature columns in order
var FeatureNames = [NumFeatures]string{
	"cap_ratio",
	"exclamation_ratio",
	"question_ratio",
	"hedge_flag",
	"source_flag",
	"link_flag",
	"date_flag",
	"repeat_flag",
	"length",
	"lemma_ratio",
	"oov_ratio",
	"verb_ratio",
	"noise_score",
}

// Extractor computes the custom feature block. It is safe for concurrent use.
type Extractor struct {
	normalizer   *normalize.Normalizer
	sourceLemmas []string // Source phrases in lemmatized form, space padded
}

// NewExtractor creates an extractor that lemmatizes with n
func NewExtractor(n *normalize.Normalizer) *Extractor {
	e := &Extractor{normalizer: n}
	for _, p := range sourcePhrases {
		if lemma := n.Preprocess(p); lemma != "" {
			e.sourceLemmas = append(e.sourceLemmas, " "+lemma+" ")
		}
	}
	return e
}

// Extract returns one feature row per text
func (e *Extractor) Extract(texts []string) [][]float64 {
	rows := make([][]float64, len(texts))
	for i, t := range texts {
		rows[i] = e.Row(t)
	}
	return rows
}

// Row computes the 13 custom features of one raw text.
// Ratios divide by (length + 1) or (token count + 1).
func (e *Extractor) Row(raw string) []float64 {
	length := utf8.RuneCountInString(raw)
	lower := normalize.Lower(raw)

	var caps, exclam, quest int
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			caps++
		case r == '!':
			exclam++
		case r == '?':
			quest++
		}
	}
	charDen := float64(length + 1)

	tokens := normalize.Tokenize(raw)
	lemmas := e.normalizer.Lemmatize(tokens)
	tokDen := float64(len(tokens) + 1)

	unique := make(map[string]struct{}, len(lemmas))
	var oov, verbs int
	for _, l := range lemmas {
		unique[l.Value] = struct{}{}
		if l.Value == normalize.Lower(l.Token) {
			oov++
		}
		if hasAnySuffix(l.Token, verbSuffixes) {
			verbs++
		}
	}

	repeat := hasRepeat(raw)

	return []float64{
		float64(caps) / charDen,
		float64(exclam) / charDen,
		float64(quest) / charDen,
		flag(containsAny(lower, hedgePhrases)),
		flag(e.hasSource(lower, lemmas)),
		flag(hasLink(lower)),
		flag(hasDate(raw)),
		flag(repeat),
		float64(length),
		float64(len(unique)) / tokDen,
		float64(oov) / tokDen,
		float64(verbs) / tokDen,
		flag(hasRepeat(raw)),
	}
}

// hasSource matches source phrases on the lowered text or, for inflected
// forms such as "bakanlığı", on the lemma sequence
func (e *Extractor) hasSource(lower string, lemmas []normalize.Lemma) bool {
	if containsAny(lower, sourcePhrases) {
		return true
	}
	if len(lemmas) == 0 {
		return false
	}
	joined := " " + normalize.Join(lemmas) + " "
	return containsAny(joined, e.sourceLemmas)
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx) {
			return true
		}
	}
	return false
}
