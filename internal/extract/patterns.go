package extract

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Phrase lists are lowercase (Turkish casing)
var (
	// hedgePhrases signal unverified claims (custom feature #4)
	hedgePhrases = []string{"iddia", "söyleniyor", "öne sürüldü", "iddia edildi", "rapor edildi"}

	// sourcePhrases signal a cited source (custom feature #5)
	sourcePhrases = []string{"kaynak", "haber ajansı", "resmi açıklama", "bakanlık", "türkiye", "tdk"}

	// evidencePhrases raise the evidence cue of the fuzzy path
	evidencePhrases = []string{
		"kaynak", "haber ajansı", "resmi açıklama", "bakanlık",
		"verilere göre", "rapora göre", "araştırmaya göre",
	}

	// fuzzyHedgePhrases drive the hedge cue of the fuzzy path
	fuzzyHedgePhrases = []string{
		"iddia", "iddia edildi", "söyleniyor", "öne sürüldü",
		"iddialara göre", "iddia ediliyor",
	}

	// verbSuffixes approximate finite verbs by their ending
	verbSuffixes = []string{"iyor", "di", "mış"}
)

var (
	// repeatPattern matches any character repeated three or more times in a
	// row. RE2 has no back-references, hence regexp2.
	repeatPattern = regexp2.MustCompile(`(.)\1{2,}`, regexp2.None)

	// datePattern matches dd.mm.yyyy style dates with / . or - separators
	datePattern = regexp2.MustCompile(`\b\d{1,2}[\/\.-]\d{1,2}[\/\.-]\d{2,4}\b`, regexp2.None)
)

// match reports whether re matches s. A matcher error counts as no match.
func match(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

// hasRepeat reports whether some character occurs three times in a row
func hasRepeat(s string) bool {
	return match(repeatPattern, s)
}

// hasDate reports whether s contains a numeric date
func hasDate(s string) bool {
	return match(datePattern, s)
}

// hasLink reports whether lower contains a URL marker
func hasLink(lower string) bool {
	return strings.Contains(lower, "http") || strings.Contains(lower, "www.")
}

// containsAny reports whether s contains any of the phrases
func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// flag converts a boolean to a 0/1 feature value
func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
