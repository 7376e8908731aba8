package extract

import (
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/sahte/internal/fuzzy"
	"github.com/ppiankov/sahte/internal/normalize"
)

// Cues are the fuzzy engine inputs of one text
type Cues struct {
	fuzzy.Inputs         // Clipped to [0,1]; Evidence is the lack of evidence
	EvidenceRaw  float64 // Evidence before inversion
}

// FuzzyInputs derives the four fuzzy cues from raw text. Ratios divide by the
// plain length here, and sensationalism may exceed 1 before clipping.
func FuzzyInputs(text string) Cues {
	lower := normalize.Lower(text)
	length := float64(max(utf8.RuneCountInString(text), 1))

	var upper, exclam int
	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			upper++
		case r == '!':
			exclam++
		}
	}

	repeat := flag(hasRepeat(text))
	sensationalism := float64(upper)/length*2.5 + float64(exclam)/length*5 + repeat

	var evidence float64
	if containsAny(lower, evidencePhrases) {
		evidence += 0.5
	}
	if hasLink(lower) {
		evidence += 0.3
	}
	if hasDate(text) {
		evidence += 0.2
	}
	evidence = fuzzy.Clip01(evidence)

	return Cues{
		Inputs: fuzzy.Inputs{
			Sensationalism: fuzzy.Clip01(sensationalism),
			Evidence:       fuzzy.Clip01(1 - evidence),
			Hedge:          flag(containsAny(lower, fuzzyHedgePhrases)),
			Noise:          repeat,
		}.Clip(),
		EvidenceRaw: evidence,
	}
}
