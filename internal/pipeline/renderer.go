package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ppiankov/sahte/internal/model"
)

const rule = "═══════════════════════════════════════════════════════════"

// Renderer writes training reports and predictions for humans and machines
type Renderer struct {
	verbose bool
}

// NewRenderer creates a renderer. Verbose output adds the fuzzy debug block
// and confidence statistics.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// RenderTrainReport writes a classification report: per-class precision,
// recall, F1 and support, accuracy, averages and the confusion matrix
func (r *Renderer) RenderTrainReport(w io.Writer, report *model.TrainReport) (err error) {
	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, a...)
	}

	ev := report.Evaluation

	printf("%s\n  Training Complete\n%s\n\n", rule, rule)
	printf("  Model ID:       %s\n", report.ModelID)
	printf("  Documents:      %d (train %d, test %d)\n", report.Documents, report.TrainSize, report.TestSize)
	printf("  Vocabulary:     %d terms\n", report.Vocabulary)
	printf("  Feature width:  %d\n", report.FeatureWidth)
	printf("  Epochs:         %d\n", report.Epochs)
	printf("  Backend:        %s\n\n", report.Backend)

	printf("%12s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
	for _, c := range ev.Classes {
		printf("%12s %10.2f %10.2f %10.2f %10d\n", labelName(c.Label), c.Precision, c.Recall, c.F1, c.Support)
	}
	printf("\n%12s %10s %10s %10.2f %10d\n", "accuracy", "", "", ev.Accuracy, ev.Support)
	printf("%12s %10.2f %10.2f %10.2f %10d\n", "macro avg", ev.MacroAvg.Precision, ev.MacroAvg.Recall, ev.MacroAvg.F1, ev.Support)
	printf("%12s %10.2f %10.2f %10.2f %10d\n\n", "weighted avg", ev.WeightedAvg.Precision, ev.WeightedAvg.Recall, ev.WeightedAvg.F1, ev.Support)

	printf("  Confusion matrix (rows: true, columns: predicted)\n\n")
	printf("%12s", "")
	for _, l := range ev.Labels {
		printf(" %10s", labelName(l))
	}
	printf("\n")
	for i, row := range ev.Confusion {
		printf("%12s", labelName(ev.Labels[i]))
		for _, n := range row {
			printf(" %10d", n)
		}
		printf("\n")
	}

	if r.verbose && len(report.Confidences) > 0 {
		var sum float64
		for _, c := range report.Confidences {
			sum += c
		}
		printf("\n  Confidence (heuristic, not a probability)\n")
		printf("    mean %.3f  min %.3f  max %.3f\n",
			sum/float64(len(report.Confidences)), slices.Min(report.Confidences), slices.Max(report.Confidences))
	}

	printf("\n")
	return err
}

// RenderPrediction writes the fuzzy verdict and the classifier decision
func (r *Renderer) RenderPrediction(w io.Writer, p *model.Prediction) (err error) {
	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, a...)
	}

	if r.verbose {
		in := p.FuzzyInputs
		printf("[DEBUG] fuzzy inputs: sensationalism=%.4f evidence=%.4f hedge=%.4f noise=%.4f\n",
			in.Sensationalism, in.Evidence, in.Hedge, in.Noise)
		printf("[DEBUG] fuzzy path: %s\n", p.FuzzyPath)
	}

	printf("Fuzzy score:   %.4f (%s)\n", p.FuzzyScore, p.Verdict)
	printf("Model label:   %d (%s)\n", int(p.Label), p.Label)
	printf("Confidence:    %.4f\n", p.Confidence)
	if r.verbose && p.ModelID != "" {
		printf("Model ID:      %s\n", p.ModelID)
	}
	return err
}

// WriteJSON writes v as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// RenderJSON writes v as indented JSON to path
func (r *Renderer) RenderJSON(v any, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return r.WriteJSON(f, v)
}

func labelName(l int) string {
	return model.Label(l).String()
}
