package morph

import (
	"sort"
	"unicode/utf8"
)

// inflections lists Turkish inflectional suffix surfaces (nominal case,
// possessive and plural chains, verbal tense/aspect/person endings).
// Surfaces are lowercase with proper Unicode letters: ı ğ ş ç ö ü.
// Derivational suffixes (-lık, -sız, -cı ...) are deliberately absent:
// stripping them changes the lemma rather than normalizing it.
var inflections = []string{
	// Plural, optionally followed by possessive/case
	"larından", "lerinden", "larında", "lerinde", "larının", "lerinin",
	"larına", "lerine", "larını", "lerini",
	"lardan", "lerden", "larda", "lerde", "lara", "lere",
	"ları", "leri", "lar", "ler",

	// Possessive 1pl/2pl
	"ımız", "imiz", "umuz", "ümüz", "ınız", "iniz", "unuz", "ünüz",

	// Case after possessive/buffer n
	"ından", "inden", "undan", "ünden", "ında", "inde", "unda", "ünde",
	"ına", "ine", "una", "üne", "ını", "ini", "unu", "ünü",
	"nın", "nin", "nun", "nün", "nı", "ni", "nu", "nü",

	// Ablative, locative, instrumental
	"dan", "den", "tan", "ten", "da", "de", "ta", "te",
	"yla", "yle", "la", "le",

	// Dative/accusative with buffer y, possessive 3sg with buffer s
	"ya", "ye", "yı", "yi", "yu", "yü", "sı", "si", "su", "sü",

	// Genitive after consonant
	"ın", "in", "un", "ün",

	// Progressive, future, reported past, definite past
	"ıyordu", "iyordu", "uyordu", "üyordu", "ıyor", "iyor", "uyor", "üyor",
	"acağı", "eceği", "acak", "ecek",
	"mıştır", "miştir", "muştur", "müştür", "mış", "miş", "muş", "müş",
	"dılar", "diler", "dular", "düler", "tılar", "tiler", "tular", "tüler",
	"dı", "di", "du", "dü", "tı", "ti", "tu", "tü",

	// Verbal noun and infinitive
	"ması", "mesi", "mak", "mek",

	// Copula
	"dır", "dir", "dur", "dür", "tır", "tir", "tur", "tür",

	// Bare vowels: accusative/possessive 3sg/dative
	"ı", "i", "u", "ü", "a", "e",
}

// greedyMinRunes excludes suffixes shorter than this from dictionary-free
// stripping; single vowels are only safe when a lexicon confirms the stem.
const greedyMinRunes = 2

func init() {
	// Longest surfaces first so greedy matching prefers full chains
	sort.SliceStable(inflections, func(i, j int) bool {
		return utf8.RuneCountInString(inflections[i]) > utf8.RuneCountInString(inflections[j])
	})
}

// softening maps a stem-final voiced consonant back to its dictionary form
// (kitabı → kitab → kitap, bakanlığı → bakanlığ → bakanlık).
var softening = map[rune]rune{
	'ğ': 'k',
	'b': 'p',
	'c': 'ç',
	'd': 't',
}

// restoreSoftening returns s with its final consonant hardened, or "" when
// the final rune does not alternate.
func restoreSoftening(s string) string {
	last, size := utf8.DecodeLastRuneInString(s)
	hard, ok := softening[last]
	if !ok {
		return ""
	}
	return s[:len(s)-size] + string(hard)
}

func hasVowel(s string) bool {
	for _, r := range s {
		switch r {
		case 'a', 'e', 'ı', 'i', 'o', 'ö', 'u', 'ü', 'â', 'î', 'û':
			return true
		}
	}
	return false
}
