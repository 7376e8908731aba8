package normalize

import "strings"

// Normalizer produces token, lemma and canonical-string views of a text
type Normalizer struct {
	provider *Provider
}

// New creates a normalizer. A nil provider selects DefaultProvider.
func New(provider *Provider) *Normalizer {
	if provider == nil {
		provider = DefaultProvider()
	}
	return &Normalizer{provider: provider}
}

// Normalize returns the token sequence of text
func (n *Normalizer) Normalize(text string) []string {
	return Tokenize(text)
}

// Lemmatize resolves every token; the result has the same length as tokens
func (n *Normalizer) Lemmatize(tokens []string) []Lemma {
	lemmas := make([]Lemma, len(tokens))
	for i, tok := range tokens {
		lemmas[i] = n.provider.Resolve(tok)
	}
	return lemmas
}

// Preprocess returns the canonical string of text: lemmas joined by single
// spaces. This is the input of the lexical vectorizer.
func (n *Normalizer) Preprocess(text string) string {
	return Join(n.Lemmatize(Tokenize(text)))
}

// Join returns the lemma values joined by single spaces
func Join(lemmas []Lemma) string {
	values := make([]string, len(lemmas))
	for i, l := range lemmas {
		values[i] = l.Value
	}
	return strings.Join(values, " ")
}
