package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/ppiankov/sahte/internal/cache"
	"github.com/ppiankov/sahte/internal/model"
)

// stubPredictor labels texts containing "!" as fake
type stubPredictor struct {
	calls   int32
	failOn  string
	delay   time.Duration
	modelID string
}

func (s *stubPredictor) Predict(ctx context.Context, text string) (*model.Prediction, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.failOn != "" && text == s.failOn {
		return nil, errors.New("predict failed")
	}

	pred := &model.Prediction{Text: text, Label: model.LabelReal, Verdict: "likely REAL", ModelID: s.modelID}
	if strings.Contains(text, "!") {
		pred.Label, pred.Verdict, pred.FuzzyScore = model.LabelFake, "likely FAKE", 0.85
	}
	return pred, nil
}

func (s *stubPredictor) ModelID() string {
	return s.modelID
}

func TestBatchProcessor_ProcessTexts_Order(t *testing.T) {
	predictor := &stubPredictor{modelID: "m1", delay: time.Millisecond}
	processor := NewBatchProcessor(predictor, 4, nil, zaptest.NewLogger(t))

	texts := make([]string, 50)
	for i := range texts {
		texts[i] = strings.Repeat("a", i+1)
		if i%3 == 0 {
			texts[i] += "!"
		}
	}

	results := processor.ProcessTexts(context.Background(), texts)
	if len(results) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(results))
	}

	for i, res := range results {
		if res.Error != nil {
			t.Fatalf("unexpected error for %d: %v", i, res.Error)
		}
		if res.Index != i || res.Text != texts[i] || res.Prediction.Text != texts[i] {
			t.Errorf("result %d out of order: index %d, text %q", i, res.Index, res.Text)
		}
		wantFake := i%3 == 0
		if (res.Prediction.Label == model.LabelFake) != wantFake {
			t.Errorf("result %d: label %v", i, res.Prediction.Label)
		}
	}
}

func TestBatchProcessor_ProcessTexts_Error(t *testing.T) {
	predictor := &stubPredictor{failOn: "bad"}
	processor := NewBatchProcessor(predictor, 2, nil, nil)

	results := processor.ProcessTexts(context.Background(), []string{"good", "bad", "fine"})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[1].GetError() == nil {
		t.Error("expected error, got nil")
	}
	if results[1].Prediction != nil {
		t.Error("expected nil prediction on error")
	}
	if results[0].GetError() != nil || results[2].GetError() != nil {
		t.Error("a failing text must not affect the others")
	}
}

func TestBatchProcessor_ProcessTexts_Empty(t *testing.T) {
	processor := NewBatchProcessor(&stubPredictor{}, 2, nil, nil)

	results := processor.ProcessTexts(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_Cache(t *testing.T) {
	predictor := &stubPredictor{modelID: "m1"}
	c := cache.NewMemoryCache(time.Minute, 0)
	processor := NewBatchProcessor(predictor, 2, c, nil)

	texts := []string{"Bakanlık açıkladı", "ŞOK!!!"}

	first := processor.ProcessTexts(context.Background(), texts)
	second := processor.ProcessTexts(context.Background(), texts)

	if calls := atomic.LoadInt32(&predictor.calls); calls != 2 {
		t.Errorf("expected 2 predictor calls, got %d", calls)
	}
	for i := range texts {
		if first[i].Cached {
			t.Errorf("first run result %d marked cached", i)
		}
		if !second[i].Cached {
			t.Errorf("second run result %d not cached", i)
		}
		if second[i].Prediction.Label != first[i].Prediction.Label ||
			second[i].Prediction.Verdict != first[i].Prediction.Verdict {
			t.Errorf("cached prediction %d differs: %+v vs %+v", i, second[i].Prediction, first[i].Prediction)
		}
	}
}

func TestBatchProcessor_CacheKeyedByModel(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute, 0)
	old := &stubPredictor{modelID: "old"}
	fresh := &stubPredictor{modelID: "new"}

	NewBatchProcessor(old, 1, c, nil).ProcessTexts(context.Background(), []string{"metin"})
	results := NewBatchProcessor(fresh, 1, c, nil).ProcessTexts(context.Background(), []string{"metin"})

	if results[0].Cached {
		t.Error("prediction from another model served from cache")
	}
	if atomic.LoadInt32(&fresh.calls) != 1 {
		t.Errorf("expected new model to be called once, got %d", fresh.calls)
	}
}

func TestBatchProcessor_CorruptCacheEntry(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute, 0)
	predictor := &stubPredictor{modelID: "m1"}
	if err := c.Set(cache.Key("m1", "metin"), []byte("{not json"), 0); err != nil {
		t.Fatal(err)
	}

	results := NewBatchProcessor(predictor, 1, c, zaptest.NewLogger(t)).ProcessTexts(context.Background(), []string{"metin"})
	if results[0].Cached || results[0].Error != nil {
		t.Errorf("expected a fresh prediction, got %+v", results[0])
	}
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	predictor := &stubPredictor{delay: 50 * time.Millisecond}
	results := NewBatchProcessor(predictor, 2, nil, nil).ProcessTexts(ctx, []string{"a", "b", "c"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if !errors.Is(res.Error, context.Canceled) {
			t.Errorf("result %d: expected context.Canceled, got %v", i, res.Error)
		}
		if res.Text == "" {
			t.Errorf("result %d lost its text", i)
		}
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texts.txt")
	content := "Bakanlık açıkladı\n# comment\n\nŞOK!!! Gizli deney\n   \nBelediye yeni park açtı\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&stubPredictor{}, 2, nil, nil)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	expected := []string{"Bakanlık açıkladı", "ŞOK!!! Gizli deney", "Belediye yeni park açtı"}
	if len(results) != len(expected) {
		t.Fatalf("expected %d results, got %d", len(expected), len(results))
	}
	for i, res := range results {
		if res.Text != expected[i] {
			t.Errorf("expected %q at index %d, got %q", expected[i], i, res.Text)
		}
	}
	if results[1].Prediction.Verdict != "likely FAKE" {
		t.Errorf("expected likely FAKE, got %q", results[1].Prediction.Verdict)
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&stubPredictor{}, 2, nil, nil)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	results, err := NewBatchProcessor(&stubPredictor{}, 2, nil, nil).ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestPredictResult_GetError(t *testing.T) {
	r1 := &PredictResult{Text: "a"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("predict failed")
	r2 := &PredictResult{Text: "a", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
