package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/sahte/internal/extract"
	"github.com/ppiankov/sahte/internal/fuzzy"
	"github.com/ppiankov/sahte/internal/vectorize"
)

// view holds everything derived from one raw text before vectorization
type view struct {
	canonical string
	custom    []float64
	cues      extract.Cues
	fuzzy     fuzzy.Result
}

// analyze derives the per-text views in parallel. Texts are split into one
// contiguous chunk per worker and every worker owns its fuzzy engine.
func (p *Pipeline) analyze(ctx context.Context, texts []string) ([]view, error) {
	views := make([]view, len(texts))
	if len(texts) == 0 {
		return views, nil
	}

	workers := min(max(p.config.Concurrency.Workers, 1), len(texts))
	chunk := (len(texts) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < len(texts); lo += chunk {
		hi := min(lo+chunk, len(texts))
		g.Go(func() error {
			engine := fuzzy.NewEngine()
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				views[i] = p.view(engine, texts[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func (p *Pipeline) view(engine *fuzzy.Engine, text string) view {
	cues := extract.FuzzyInputs(text)
	return view{
		canonical: p.normalizer.Preprocess(text),
		custom:    p.extractor.Row(text),
		cues:      cues,
		fuzzy:     engine.Score(cues.Inputs),
	}
}

// assemble builds rows laid out as [lexical | scaled custom | fuzzy score]
func assemble(vectorizer *vectorize.TFIDF, scaler *vectorize.Scaler, views []view) ([][]float64, error) {
	lexical, err := vectorizer.Transform(canonicals(views))
	if err != nil {
		return nil, fmt.Errorf("vectorize: %w", err)
	}
	custom, err := scaler.Transform(customs(views))
	if err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}

	rows := make([][]float64, len(views))
	for i := range views {
		row := make([]float64, 0, len(lexical[i])+len(custom[i])+1)
		row = append(row, lexical[i]...)
		row = append(row, custom[i]...)
		row = append(row, views[i].fuzzy.Score)
		rows[i] = row
	}
	return rows, nil
}

func canonicals(views []view) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.canonical
	}
	return out
}

func customs(views []view) [][]float64 {
	out := make([][]float64, len(views))
	for i, v := range views {
		out[i] = v.custom
	}
	return out
}
