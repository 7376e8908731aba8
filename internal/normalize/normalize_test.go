package normalize

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/sahte/internal/cache"
)

// stubAnalyzer returns a fixed lemma or error for every word
type stubAnalyzer struct {
	lemma string
	err   error
	calls int
	mu    sync.Mutex
}

func (s *stubAnalyzer) Analyze(word string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.lemma, nil
}

func TestLower_TurkishCasing(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"IŞIK", "ışık"},
		{"İSTANBUL", "istanbul"},
		{"ŞOK", "şok"},
		{"Çağrı ÖĞÜN", "çağrı öğün"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Lower(tt.in), "Lower(%q)", tt.in)
	}
}

func TestLower_NFC(t *testing.T) {
	// O followed by a combining diaeresis
	assert.Equal(t, "\u00f6", Lower("O\u0308"))
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"scenario one", "Sağlık Bakanlığı yeni aşı kampanyasını duyurdu.", "sağlık bakanlığı yeni aşı kampanyasını duyurdu"},
		{"scenario two", "ŞOK! Gizli deneyde insanlar görünmez oldu!!!", "şok gizli deneyde insanlar görünmez oldu"},
		{"urls", "bak http://ornek.com/a?b=1 ve www.haber.tr şimdi", "bak ve şimdi"},
		{"digits", "2024 yılında 5 kişi", "yılında kişi"},
		{"apostrophe", "İstanbul'da", "istanbulda"},
		{"whitespace", "  a\t\tb\n c  ", "a b c"},
		{"underscore kept", "snake_case", "snake_case"},
		{"only punctuation", "!!! ??? ...", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("123 !!! http://x.y"))
}

func TestTokenize_NeverIncreasesTokenCount(t *testing.T) {
	inputs := []string{
		"Sağlık Bakanlığı yeni aşı kampanyasını duyurdu.",
		"a.b,c;d",
		"çok-güzel 12/05/2024 tarihli",
		"ŞOK!Gizli!deney",
		"http://a.com/b www.c.d",
	}
	for _, in := range inputs {
		assert.LessOrEqual(t, len(Tokenize(in)), len(strings.Fields(in)), "input %q", in)
	}
}

func TestProvider_PrimaryTier(t *testing.T) {
	primary := &stubAnalyzer{lemma: "kök"}
	secondary := &stubAnalyzer{lemma: "yedek"}
	p := NewProvider(primary, secondary)

	got := p.Resolve("kökler")
	assert.Equal(t, Lemma{Token: "kökler", Value: "kök", Tier: TierPrimary}, got)
	assert.Equal(t, 0, secondary.calls)
}

func TestProvider_SecondaryTier(t *testing.T) {
	tests := []struct {
		name    string
		primary Analyzer
	}{
		{"primary missing", nil},
		{"primary errors", &stubAnalyzer{err: errors.New("backend unavailable")}},
		{"primary empty", &stubAnalyzer{lemma: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(tt.primary, &stubAnalyzer{lemma: "yedek"})
			got := p.Resolve("kelime")
			assert.Equal(t, TierSecondary, got.Tier)
			assert.Equal(t, "yedek", got.Value)
		})
	}
}

func TestProvider_FallbackTier(t *testing.T) {
	failing := &stubAnalyzer{err: errors.New("boom")}

	tests := []struct {
		name      string
		primary   Analyzer
		secondary Analyzer
	}{
		{"both missing", nil, nil},
		{"both error", failing, failing},
		{"error then empty", failing, &stubAnalyzer{lemma: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(tt.primary, tt.secondary)
			got := p.Resolve("kelime")
			assert.Equal(t, Lemma{Token: "kelime", Value: "kelime", Tier: TierFallback}, got)
		})
	}
}

// panickingAnalyzer stands in for a backend that crashes on every word
type panickingAnalyzer struct{}

func (panickingAnalyzer) Analyze(string) (string, error) {
	panic("analyzer crashed")
}

func TestProvider_PanickingAnalyzerDegrades(t *testing.T) {
	p := NewProvider(panickingAnalyzer{}, &stubAnalyzer{lemma: "yedek"})
	assert.NotPanics(t, func() {
		got := p.Resolve("kelime")
		assert.Equal(t, Lemma{Token: "kelime", Value: "yedek", Tier: TierSecondary}, got)
	})

	p = NewProvider(panickingAnalyzer{}, panickingAnalyzer{})
	assert.NotPanics(t, func() {
		got := p.Resolve("Kelime")
		assert.Equal(t, TierFallback, got.Tier)
		assert.Equal(t, "kelime", got.Value)
	})
}

func TestProvider_Memo(t *testing.T) {
	primary := &stubAnalyzer{lemma: "kök"}
	memo := cache.NewMemoryCache(time.Minute, time.Minute)
	p := NewProvider(primary, nil, WithMemo(memo))

	first := p.Resolve("kökler")
	second := p.Resolve("kökler")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, memo.Len())

	fb := NewProvider(nil, nil, WithMemo(memo))
	assert.Equal(t, TierFallback, fb.Resolve("xyz").Tier)
	assert.Equal(t, TierFallback, fb.Resolve("xyz").Tier)
}

func TestTier_String(t *testing.T) {
	assert.Equal(t, "primary", TierPrimary.String())
	assert.Equal(t, "secondary", TierSecondary.String())
	assert.Equal(t, "fallback", TierFallback.String())
	assert.Equal(t, "unknown", Tier(0).String())
}

func TestNormalizer_Lemmatize(t *testing.T) {
	n := New(nil)

	tokens := n.Normalize("Sağlık Bakanlığı yeni aşı kampanyasını duyurdu.")
	lemmas := n.Lemmatize(tokens)
	require.Len(t, lemmas, len(tokens))

	for i, l := range lemmas {
		assert.Equal(t, tokens[i], l.Token)
		assert.NotEmpty(t, l.Value)
	}
	assert.Equal(t, "bakanlık", lemmas[1].Value)
	assert.Equal(t, TierPrimary, lemmas[1].Tier)

	assert.Empty(t, n.Lemmatize(nil))
}

func TestNormalizer_Preprocess(t *testing.T) {
	n := New(nil)

	tests := []struct {
		in   string
		want string
	}{
		{"Sağlık Bakanlığı yeni aşı kampanyasını duyurdu.", "sağlık bakanlık yeni aşı kampanya duyur"},
		{"ŞOK! Gizli deneyde insanlar görünmez oldu!!!", "şok gizli deney insan görünmez ol"},
		{"", ""},
		{"!!! 42", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, n.Preprocess(tt.in), "Preprocess(%q)", tt.in)
	}
}

func TestNormalizer_ForcedFallback(t *testing.T) {
	n := New(NewProvider(nil, nil))
	assert.Equal(t, "ışık yandı", n.Preprocess("IŞIK YANDI"))
}

func TestNormalizer_ConcurrentPreprocess(t *testing.T) {
	n := New(nil)
	text := "Sağlık Bakanlığı yeni aşı kampanyasını duyurdu."
	want := n.Preprocess(text)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := n.Preprocess(text); got != want {
					t.Errorf("Preprocess = %q, want %q", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}
