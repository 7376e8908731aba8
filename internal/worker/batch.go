package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/sahte/internal/cache"
	"github.com/ppiankov/sahte/internal/dataset"
	"github.com/ppiankov/sahte/internal/model"
)

// Predictor classifies a single text with a loaded model
type Predictor interface {
	Predict(ctx context.Context, text string) (*model.Prediction, error)
	ModelID() string
}

// PredictJob represents the classification of one input line
type PredictJob struct {
	Index     int
	Text      string
	Predictor Predictor
}

// Execute executes the prediction job
func (j *PredictJob) Execute(ctx context.Context) Result {
	pred, err := j.Predictor.Predict(ctx, j.Text)
	return &PredictResult{
		Index:      j.Index,
		Text:       j.Text,
		Prediction: pred,
		Error:      err,
	}
}

// PredictResult represents the result of a prediction job
type PredictResult struct {
	Index      int               `json:"index"`
	Text       string            `json:"text"`
	Prediction *model.Prediction `json:"prediction,omitempty"`
	Cached     bool              `json:"cached,omitempty"`
	Error      error             `json:"-"`
}

// GetError returns the error from the prediction result
func (r *PredictResult) GetError() error {
	return r.Error
}

// BatchProcessor classifies many texts concurrently
type BatchProcessor struct {
	predictor   Predictor
	concurrency int
	cache       cache.Cache // nil disables prediction caching
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor. A nil cache disables
// prediction caching; a nil logger disables logging.
func NewBatchProcessor(predictor Predictor, concurrency int, c cache.Cache, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		predictor:   predictor,
		concurrency: concurrency,
		cache:       c,
		logger:      logger,
	}
}

// ProcessTexts classifies texts concurrently. The result slice is parallel
// to texts. Texts left unprocessed after ctx is cancelled carry ctx's error.
func (b *BatchProcessor) ProcessTexts(ctx context.Context, texts []string) []*PredictResult {
	out := make([]*PredictResult, len(texts))
	if len(texts) == 0 {
		return out
	}

	modelID := b.predictor.ModelID()

	// 1. Serve cached predictions
	pending := make([]int, 0, len(texts))
	for i, text := range texts {
		if pred, ok := b.lookup(modelID, text); ok {
			out[i] = &PredictResult{Index: i, Text: text, Prediction: pred, Cached: true}
			continue
		}
		pending = append(pending, i)
	}
	b.logger.Debug("Batch cache lookup",
		zap.Int("texts", len(texts)),
		zap.Int("cached", len(texts)-len(pending)))

	// 2. Classify the rest on the pool
	if len(pending) > 0 {
		pool := NewPool(b.concurrency)
		pool.Start(ctx)

		for _, i := range pending {
			if !pool.Submit(&PredictJob{Index: i, Text: texts[i], Predictor: b.predictor}) {
				break
			}
		}

		for _, r := range pool.Wait() {
			res := r.(*PredictResult)
			out[res.Index] = res
			if res.Error == nil {
				b.store(modelID, res.Text, res.Prediction)
			}
		}
	}

	if r, ok := b.cache.(cache.StatsReporter); ok {
		stats := r.Stats()
		b.logger.Debug("Prediction cache",
			zap.Int64("memory_hits", stats.MemoryHits),
			zap.Int64("disk_hits", stats.DiskHits),
			zap.Int64("misses", stats.Misses),
			zap.Float64("hit_rate", stats.HitRate()))
	}

	// 3. Anything missing was dropped by cancellation
	for i := range out {
		if out[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &PredictResult{Index: i, Text: texts[i], Error: err}
		}
	}

	return out
}

// ProcessFile reads one text per line (blank and # lines skipped) and
// classifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*PredictResult, error) {
	texts, err := dataset.ReadLines(filePath)
	if err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}

	return b.ProcessTexts(ctx, texts), nil
}

func (b *BatchProcessor) lookup(modelID, text string) (*model.Prediction, bool) {
	if b.cache == nil {
		return nil, false
	}
	data, ok := b.cache.Get(cache.Key(modelID, text))
	if !ok {
		return nil, false
	}

	var pred model.Prediction
	if err := json.Unmarshal(data, &pred); err != nil {
		b.logger.Warn("Dropping corrupt cache entry", zap.Error(err))
		return nil, false
	}
	return &pred, true
}

func (b *BatchProcessor) store(modelID, text string, pred *model.Prediction) {
	if b.cache == nil || pred == nil {
		return
	}
	data, err := json.Marshal(pred)
	if err != nil {
		return
	}
	if err := b.cache.Set(cache.Key(modelID, text), data, 0); err != nil {
		b.logger.Warn("Failed to cache prediction", zap.Error(err))
	}
}
