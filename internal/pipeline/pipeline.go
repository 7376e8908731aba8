// Package pipeline wires normalization, feature assembly, the fuzzy engine and
// the Tsetlin classifier into the train and predict flows.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/sahte/internal/artifact"
	"github.com/ppiankov/sahte/internal/cache"
	"github.com/ppiankov/sahte/internal/dataset"
	"github.com/ppiankov/sahte/internal/extract"
	"github.com/ppiankov/sahte/internal/model"
	"github.com/ppiankov/sahte/internal/morph"
	"github.com/ppiankov/sahte/internal/normalize"
	"github.com/ppiankov/sahte/internal/score"
	"github.com/ppiankov/sahte/internal/tsetlin"
	"github.com/ppiankov/sahte/internal/vectorize"
)

var (
	// ErrSingleClass is returned when the corpus or its train split holds fewer than two labels
	ErrSingleClass = errors.New("pipeline: training data needs at least two classes")

	// ErrNotLoaded is returned by Predict before Train or Load
	ErrNotLoaded = errors.New("pipeline: no model loaded")
)

// Pipeline orchestrates training and prediction
type Pipeline struct {
	config     *model.Config
	store      artifact.Store
	names      artifact.Names
	logger     *zap.Logger
	normalizer *normalize.Normalizer
	extractor  *extract.Extractor
	scorer     *score.Scorer

	mu     sync.RWMutex
	bundle *artifact.Bundle
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithNormalizer replaces the default normalizer
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(p *Pipeline) {
		p.normalizer = n
	}
}

// New creates a pipeline backed by the given artifact store.
// A nil logger disables logging.
func New(cfg *model.Config, store artifact.Store, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pipeline{
		config: cfg,
		store:  store,
		names: artifact.Names{
			Vectorizer: cfg.Artifacts.VectorizerName,
			Scaler:     cfg.Artifacts.ScalerName,
			Classifier: cfg.Artifacts.ModelName,
		},
		logger: logger,
		scorer: score.NewScorer(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.normalizer == nil {
		ttl := cfg.Cache.MemoryTTL
		if ttl <= 0 {
			ttl = 30 * time.Minute
		}
		p.normalizer = normalize.New(normalize.NewProvider(
			morph.NewLexiconAnalyzer(nil),
			morph.NewSuffixAnalyzer(),
			normalize.WithMemo(cache.NewMemoryCache(ttl, 10*time.Minute)),
		))
	}
	p.extractor = extract.NewExtractor(p.normalizer)

	return p
}

// TrainResult is the outcome of a training run
type TrainResult struct {
	Report   *model.TrainReport
	Duration time.Duration
}

// Train fits the vectorizer, scaler and classifier on a split of docs,
// evaluates on the held-out part and persists the artifact triple.
// On success the fitted triple becomes the pipeline's active model.
func (p *Pipeline) Train(ctx context.Context, docs []model.Document) (*TrainResult, error) {
	start := time.Now()

	// 1. Every document needs a label and both classes must be present
	classes := make(map[model.Label]struct{})
	for i, d := range docs {
		if !d.HasLabel {
			return nil, fmt.Errorf("document %d (%s) has no label", i, d.Source)
		}
		classes[d.Label] = struct{}{}
	}
	if len(classes) < 2 {
		return nil, fmt.Errorf("%d distinct label(s): %w", len(classes), ErrSingleClass)
	}

	// 2. Split
	train, test, err := dataset.Split(docs, p.config.Split.TestSize, p.config.Split.Seed)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	if n := distinctLabels(train); n < 2 {
		return nil, fmt.Errorf("train split holds %d distinct label(s): %w", n, ErrSingleClass)
	}
	p.logger.Info("Split corpus",
		zap.Int("documents", len(docs)),
		zap.Int("train", len(train)),
		zap.Int("test", len(test)))

	// 3. Preprocess and extract per-text features
	trainViews, err := p.analyze(ctx, model.Texts(train))
	if err != nil {
		return nil, fmt.Errorf("analyze train split: %w", err)
	}
	testViews, err := p.analyze(ctx, model.Texts(test))
	if err != nil {
		return nil, fmt.Errorf("analyze test split: %w", err)
	}

	// 4. Fit the vectorizer on canonical strings and the scaler on custom features
	vectorizer := vectorize.NewTFIDF(p.config.Features.MaxVocabulary)
	if err := vectorizer.Fit(canonicals(trainViews)); err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}
	scaler := vectorize.NewScaler()
	if err := scaler.Fit(customs(trainViews)); err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}
	p.logger.Info("Fitted vectorizer",
		zap.Int("vocabulary", vectorizer.Width()),
		zap.Int("custom_features", scaler.Width()))

	// 5. Assemble [lexical | custom | fuzzy] rows
	xTrain, err := assemble(vectorizer, scaler, trainViews)
	if err != nil {
		return nil, fmt.Errorf("assemble train features: %w", err)
	}
	xTest, err := assemble(vectorizer, scaler, testViews)
	if err != nil {
		return nil, fmt.Errorf("assemble test features: %w", err)
	}

	// 6. Fit the classifier
	tc := p.config.Tsetlin
	classifier := tsetlin.NewClassifier(tsetlin.Config{
		Clauses:   tc.Clauses,
		T:         tc.T,
		S:         tc.S,
		StateBits: tc.StateBits,
		Seed:      tc.Seed,
	})
	classifier.OnEpoch(func(epoch int) {
		p.logger.Debug("Finished epoch", zap.Int("epoch", epoch), zap.Int("epochs", tc.Epochs))
	})
	if err := classifier.Fit(xTrain, model.Labels(train), tc.Epochs); err != nil {
		return nil, err
	}

	// 7. Evaluate on the held-out split
	yPred, err := classifier.Predict(xTest)
	if err != nil {
		return nil, fmt.Errorf("predict test split: %w", err)
	}
	evaluation, err := p.scorer.Evaluate(model.Labels(test), yPred)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	confidences, err := classifier.Confidence(xTest)
	if err != nil {
		return nil, fmt.Errorf("confidence: %w", err)
	}

	// 8. Persist the triple
	bundle := artifact.NewBundle(vectorizer, scaler, classifier)
	if err := artifact.SaveBundle(ctx, p.store, p.names, bundle); err != nil {
		return nil, fmt.Errorf("save artifacts: %w", err)
	}
	p.setBundle(bundle)

	duration := time.Since(start)
	p.logger.Info("Trained model",
		zap.String("model_id", bundle.ModelID.String()),
		zap.Float64("accuracy", evaluation.Accuracy),
		zap.Duration("duration", duration))

	return &TrainResult{
		Report: &model.TrainReport{
			ModelID:      bundle.ModelID.String(),
			TrainedAt:    bundle.CreatedAt,
			Documents:    len(docs),
			TrainSize:    len(train),
			TestSize:     len(test),
			Vocabulary:   vectorizer.Width(),
			FeatureWidth: bundle.FeatureWidth(),
			Epochs:       tc.Epochs,
			Evaluation:   evaluation,
			Confidences:  confidences,
			Backend:      p.config.Artifacts.Backend,
		},
		Duration: duration,
	}, nil
}

// Load reads the artifact triple from the store and makes it active
func (p *Pipeline) Load(ctx context.Context) error {
	bundle, err := artifact.LoadBundle(ctx, p.store, p.names)
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}
	p.setBundle(bundle)

	p.logger.Debug("Loaded model",
		zap.String("model_id", bundle.ModelID.String()),
		zap.Int("feature_width", bundle.FeatureWidth()))
	return nil
}

// ModelID returns the ID of the active model, or "" when none is loaded
func (p *Pipeline) ModelID() string {
	b := p.active()
	if b == nil {
		return ""
	}
	return b.ModelID.String()
}

// Predict classifies a single text with the active model
func (p *Pipeline) Predict(ctx context.Context, text string) (*model.Prediction, error) {
	preds, err := p.PredictBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return preds[0], nil
}

// PredictBatch classifies texts with the active model, preserving order
func (p *Pipeline) PredictBatch(ctx context.Context, texts []string) ([]*model.Prediction, error) {
	bundle := p.active()
	if bundle == nil {
		return nil, ErrNotLoaded
	}

	views, err := p.analyze(ctx, texts)
	if err != nil {
		return nil, err
	}
	X, err := assemble(bundle.Vectorizer, bundle.Scaler, views)
	if err != nil {
		return nil, err
	}

	labels, err := bundle.Classifier.Predict(X)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	confidences, err := bundle.Classifier.Confidence(X)
	if err != nil {
		return nil, fmt.Errorf("confidence: %w", err)
	}

	preds := make([]*model.Prediction, len(texts))
	for i, v := range views {
		preds[i] = &model.Prediction{
			Text:       texts[i],
			Label:      model.Label(labels[i]),
			Verdict:    score.Verdict(v.fuzzy.Score),
			Confidence: confidences[i],
			FuzzyScore: v.fuzzy.Score,
			FuzzyPath:  v.fuzzy.Path.String(),
			FuzzyInputs: model.FuzzyInputs{
				Sensationalism: v.cues.Sensationalism,
				Evidence:       v.cues.Evidence,
				Hedge:          v.cues.Hedge,
				Noise:          v.cues.Noise,
			},
			ModelID: bundle.ModelID.String(),
		}
	}
	return preds, nil
}

func (p *Pipeline) active() *artifact.Bundle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bundle
}

func (p *Pipeline) setBundle(b *artifact.Bundle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bundle = b
}

func distinctLabels(docs []model.Document) int {
	seen := make(map[model.Label]struct{})
	for _, d := range docs {
		seen[d.Label] = struct{}{}
	}
	return len(seen)
}
