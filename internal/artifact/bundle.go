package artifact

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/sahte/internal/extract"
	"github.com/ppiankov/sahte/internal/tsetlin"
	"github.com/ppiankov/sahte/internal/vectorize"
)

// Kind names the role of a blob
type Kind string

const (
	KindVectorizer Kind = "vectorizer"
	KindScaler     Kind = "scaler"
	KindClassifier Kind = "classifier"
)

// Header identifies the model a blob belongs to
type Header struct {
	ModelID      uuid.UUID
	Kind         Kind
	FeatureWidth int // Width of the full feature vector of the model
	CreatedAt    time.Time
}

// envelope is the gob payload of one blob
type envelope[T any] struct {
	Header  Header
	Payload T
}

// Names are the blob names of the three artifacts
type Names struct {
	Vectorizer string
	Scaler     string
	Classifier string
}

// DefaultNames returns the default artifact names
func DefaultNames() Names {
	return Names{
		Vectorizer: "tfidf.gob",
		Scaler:     "scaler.gob",
		Classifier: "tsetlin.gob",
	}
}

// Bundle is a matched vectorizer, scaler and classifier triple
type Bundle struct {
	ModelID    uuid.UUID
	CreatedAt  time.Time
	Vectorizer *vectorize.TFIDF
	Scaler     *vectorize.Scaler
	Classifier *tsetlin.Classifier
}

// NewBundle stamps a freshly fitted triple with a new model ID
func NewBundle(v *vectorize.TFIDF, s *vectorize.Scaler, c *tsetlin.Classifier) *Bundle {
	return &Bundle{
		ModelID:    uuid.New(),
		CreatedAt:  time.Now().UTC(),
		Vectorizer: v,
		Scaler:     s,
		Classifier: c,
	}
}

// FeatureWidth is the width of [lexical | custom | fuzzy] rows
func (b *Bundle) FeatureWidth() int {
	return b.Vectorizer.Width() + extract.NumFeatures + 1
}

// Validate checks that the three parts fit together
func (b *Bundle) Validate() error {
	if b.Vectorizer == nil || b.Scaler == nil || b.Classifier == nil || b.Classifier.Machine == nil {
		return fmt.Errorf("incomplete bundle: %w", ErrMismatch)
	}
	if w := b.Scaler.Width(); w != extract.NumFeatures {
		return fmt.Errorf("scaler width %d, want %d: %w", w, extract.NumFeatures, ErrMismatch)
	}
	if want := b.FeatureWidth(); b.Classifier.Width != want {
		return fmt.Errorf("classifier width %d, vectorizer and scaler give %d: %w",
			b.Classifier.Width, want, ErrMismatch)
	}
	return nil
}

// SaveBundle validates b and writes its three blobs
func SaveBundle(ctx context.Context, store Store, names Names, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}

	header := func(kind Kind) Header {
		return Header{ModelID: b.ModelID, Kind: kind, FeatureWidth: b.FeatureWidth(), CreatedAt: b.CreatedAt}
	}

	if err := put(ctx, store, names.Vectorizer, envelope[*vectorize.TFIDF]{header(KindVectorizer), b.Vectorizer}); err != nil {
		return err
	}
	if err := put(ctx, store, names.Scaler, envelope[*vectorize.Scaler]{header(KindScaler), b.Scaler}); err != nil {
		return err
	}
	return put(ctx, store, names.Classifier, envelope[*tsetlin.Classifier]{header(KindClassifier), b.Classifier})
}

// LoadBundle reads the three blobs and verifies they belong to one model:
// same model ID, expected kinds and consistent feature width
func LoadBundle(ctx context.Context, store Store, names Names) (*Bundle, error) {
	vec, err := get[*vectorize.TFIDF](ctx, store, names.Vectorizer)
	if err != nil {
		return nil, err
	}
	sc, err := get[*vectorize.Scaler](ctx, store, names.Scaler)
	if err != nil {
		return nil, err
	}
	cl, err := get[*tsetlin.Classifier](ctx, store, names.Classifier)
	if err != nil {
		return nil, err
	}

	headers := []struct {
		h    Header
		kind Kind
		name string
	}{
		{vec.Header, KindVectorizer, names.Vectorizer},
		{sc.Header, KindScaler, names.Scaler},
		{cl.Header, KindClassifier, names.Classifier},
	}
	for _, x := range headers {
		if x.h.Kind != x.kind {
			return nil, fmt.Errorf("%s holds a %s, want %s: %w", x.name, x.h.Kind, x.kind, ErrMismatch)
		}
		if x.h.ModelID != vec.Header.ModelID {
			return nil, fmt.Errorf("%s belongs to model %s, %s to %s: %w",
				x.name, x.h.ModelID, names.Vectorizer, vec.Header.ModelID, ErrMismatch)
		}
		if x.h.FeatureWidth != vec.Header.FeatureWidth {
			return nil, fmt.Errorf("%s declares width %d, %s declares %d: %w",
				x.name, x.h.FeatureWidth, names.Vectorizer, vec.Header.FeatureWidth, ErrMismatch)
		}
	}

	b := &Bundle{
		ModelID:    vec.Header.ModelID,
		CreatedAt:  vec.Header.CreatedAt,
		Vectorizer: vec.Payload,
		Scaler:     sc.Payload,
		Classifier: cl.Payload,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.FeatureWidth() != vec.Header.FeatureWidth {
		return nil, fmt.Errorf("declared width %d, actual %d: %w", vec.Header.FeatureWidth, b.FeatureWidth(), ErrMismatch)
	}
	return b, nil
}

func put[T any](ctx context.Context, store Store, name string, env envelope[T]) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return store.Put(ctx, name, buf.Bytes())
}

func get[T any](ctx context.Context, store Store, name string) (envelope[T], error) {
	var env envelope[T]
	data, err := store.Get(ctx, name)
	if err != nil {
		return env, err
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return env, fmt.Errorf("decode %s: %w", name, err)
	}
	return env, nil
}
