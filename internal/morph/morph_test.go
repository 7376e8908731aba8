package morph

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexiconAnalyzer_Analyze(t *testing.T) {
	a := NewLexiconAnalyzer(nil)

	tests := []struct {
		word string
		want string
	}{
		{"sağlık", "sağlık"},         // already a lemma
		{"bakanlığı", "bakanlık"},    // possessive + k→ğ softening
		{"kitabı", "kitap"},          // p→b softening
		{"kampanyasını", "kampanya"}, // possessive 3sg + accusative
		{"duyurdu", "duyur"},         // definite past
		{"deneyde", "deney"},         // locative
		{"insanlar", "insan"},        // plural
		{"haberleri", "haber"},       // plural + possessive
		{"geliyor", "gel"},           // progressive
		{"oldu", "ol"},               // short verb root
		{"iddiaya", "iddia"},         // dative with buffer y
		{"araştırmaya", "araştırma"}, // dative
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, err := a.Analyze(tt.word)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexiconAnalyzer_Unknown(t *testing.T) {
	a := NewLexiconAnalyzer(nil)

	for _, w := range []string{"", "xyzqw", "ağacı"} {
		_, err := a.Analyze(w)
		assert.True(t, errors.Is(err, ErrUnknownWord), "word %q", w)
	}
}

func TestLexiconAnalyzer_CustomLexicon(t *testing.T) {
	a := NewLexiconAnalyzer(NewLexicon([]string{"ev", " ev ", "ağaç"}))

	got, err := a.Analyze("evlerinden")
	require.NoError(t, err)
	assert.Equal(t, "ev", got)

	got, err = a.Analyze("ağacı")
	require.NoError(t, err)
	assert.Equal(t, "ağaç", got, "c→ç restoration")
}

func TestSuffixAnalyzer_Analyze(t *testing.T) {
	a := NewSuffixAnalyzer()

	tests := []struct {
		word string
		want string
	}{
		{"duyurdu", "duyur"},
		{"insanlar", "insan"},
		{"haberleri", "haber"},
		{"söyleniyor", "söylen"},
		{"geliyor", "gel"},
		{"evlerinden", "evler"}, // "ev" would be shorter than the minimum stem
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, err := a.Analyze(tt.word)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuffixAnalyzer_NoAnalysis(t *testing.T) {
	a := NewSuffixAnalyzer()

	// Nothing strippable: bare lemmas, single-vowel endings, short roots
	for _, w := range []string{"şok", "bakanlık", "aşı", "oldu", ""} {
		_, err := a.Analyze(w)
		assert.True(t, errors.Is(err, ErrNoAnalysis), "word %q", w)
	}
}

func TestRestoreSoftening(t *testing.T) {
	assert.Equal(t, "bakanlık", restoreSoftening("bakanlığ"))
	assert.Equal(t, "kitap", restoreSoftening("kitab"))
	assert.Equal(t, "ağaç", restoreSoftening("ağac"))
	assert.Equal(t, "", restoreSoftening("ev"))
	assert.Equal(t, "", restoreSoftening(""))
}

func TestInflections_LongestFirst(t *testing.T) {
	prev := 1 << 30
	for _, s := range inflections {
		n := len([]rune(s))
		require.LessOrEqual(t, n, prev, "suffix %q out of order", s)
		prev = n
	}
}

func TestDefaultLexicon(t *testing.T) {
	lex := DefaultLexicon()
	assert.Greater(t, lex.Len(), 100)
	assert.True(t, lex.Contains("bakanlık"))
	assert.True(t, lex.Contains("türkiye"))
	assert.False(t, lex.Contains(""))
	assert.False(t, lex.Contains("bakanlığı"))
}

func TestAnalyzers_ConcurrentUse(t *testing.T) {
	lex := NewLexiconAnalyzer(nil)
	suf := NewSuffixAnalyzer()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, err := lex.Analyze("bakanlığı")
				if err != nil || got != "bakanlık" {
					t.Errorf("lexicon analyzer: got %q, %v", got, err)
					return
				}
				got, err = suf.Analyze("duyurdu")
				if err != nil || got != "duyur" {
					t.Errorf("suffix analyzer: got %q, %v", got, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
