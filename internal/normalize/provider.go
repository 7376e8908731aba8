package normalize

import (
	"time"

	"github.com/ppiankov/sahte/internal/cache"
	"github.com/ppiankov/sahte/internal/morph"
)

// Analyzer maps a lowercase word to its lemma.
// An error or an empty lemma means the analyzer could not handle the word.
type Analyzer interface {
	Analyze(word string) (string, error)
}

// Tier records which stage of the degrading strategy produced a lemma
type Tier uint8

const (
	TierPrimary   Tier = iota + 1 // Primary analyzer succeeded
	TierSecondary                 // Primary failed, secondary succeeded
	TierFallback                  // Both failed, lowercased token used
)

func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Lemma is the outcome of lemmatizing one token
type Lemma struct {
	Token string // Input token
	Value string // Canonical form
	Tier  Tier   // Stage that produced Value
}

// Provider resolves lemmas through a primary and a secondary analyzer.
// Either analyzer may be nil, which counts as a failure of that tier.
// A Provider is built once at startup and is safe for concurrent use as long
// as its analyzers and cache are.
type Provider struct {
	primary   Analyzer
	secondary Analyzer
	memo      cache.Cache
}

// ProviderOption configures a Provider
type ProviderOption func(*Provider)

// WithMemo memoizes resolved lemmas in c
func WithMemo(c cache.Cache) ProviderOption {
	return func(p *Provider) {
		p.memo = c
	}
}

// NewProvider creates a provider over the given analyzers
func NewProvider(primary, secondary Analyzer, opts ...ProviderOption) *Provider {
	p := &Provider{
		primary:   primary,
		secondary: secondary,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultProvider chains the lexicon analyzer and the dictionary-free suffix
// analyzer, memoizing results in memory
func DefaultProvider() *Provider {
	return NewProvider(
		morph.NewLexiconAnalyzer(nil),
		morph.NewSuffixAnalyzer(),
		WithMemo(cache.NewMemoryCache(30*time.Minute, 10*time.Minute)),
	)
}

// Resolve lemmatizes a single lowercase token
func (p *Provider) Resolve(token string) Lemma {
	key := "lemma:" + token
	if p.memo != nil {
		if val, ok := p.memo.Get(key); ok && len(val) > 0 {
			return Lemma{Token: token, Value: string(val[1:]), Tier: Tier(val[0])}
		}
	}

	lemma := p.resolve(token)

	if p.memo != nil {
		val := make([]byte, 0, len(lemma.Value)+1)
		val = append(val, byte(lemma.Tier))
		val = append(val, lemma.Value...)
		_ = p.memo.Set(key, val, 0)
	}

	return lemma
}

func (p *Provider) resolve(token string) Lemma {
	if value, ok := try(p.primary, token); ok {
		return Lemma{Token: token, Value: value, Tier: TierPrimary}
	}
	if value, ok := try(p.secondary, token); ok {
		return Lemma{Token: token, Value: value, Tier: TierSecondary}
	}
	return Lemma{Token: token, Value: Lower(token), Tier: TierFallback}
}

// try runs one tier. A panicking analyzer counts as a failed tier.
func try(a Analyzer, token string) (value string, ok bool) {
	if a == nil {
		return "", false
	}
	defer func() {
		if recover() != nil {
			value, ok = "", false
		}
	}()

	value, err := a.Analyze(token)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}
