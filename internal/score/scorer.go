package score

import (
	"fmt"
	"slices"

	"github.com/ppiankov/sahte/internal/model"
)

// FakeThreshold is the fuzzy score at and above which a text is likely fake
const FakeThreshold = 0.5

// Verdict maps a fuzzy fake-likelihood to a human-readable verdict
func Verdict(fuzzyScore float64) string {
	if fuzzyScore >= FakeThreshold {
		return "likely FAKE"
	}
	return "likely REAL"
}

// Scorer evaluates predictions against true labels
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Evaluate builds a classification summary. Labels are the sorted union of
// true and predicted labels; undefined ratios (no support, no predictions)
// count as 0.
func (s *Scorer) Evaluate(yTrue, yPred []int) (model.Evaluation, error) {
	if len(yTrue) != len(yPred) {
		return model.Evaluation{}, fmt.Errorf("evaluate: %d true labels, %d predictions", len(yTrue), len(yPred))
	}

	// 1. Label set
	labels := append(slices.Clone(yTrue), yPred...)
	slices.Sort(labels)
	labels = slices.Compact(labels)

	index := make(map[int]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	// 2. Confusion matrix: rows true, columns predicted
	confusion := make([][]int, len(labels))
	for i := range confusion {
		confusion[i] = make([]int, len(labels))
	}
	correct := 0
	for i := range yTrue {
		confusion[index[yTrue[i]]][index[yPred[i]]]++
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	// 3. Per-class metrics
	classes := make([]model.ClassMetrics, len(labels))
	for i, l := range labels {
		tp := confusion[i][i]
		support, predicted := 0, 0
		for j := range labels {
			support += confusion[i][j]
			predicted += confusion[j][i]
		}

		precision := ratio(tp, predicted)
		recall := ratio(tp, support)
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		classes[i] = model.ClassMetrics{
			Label:     l,
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		}
	}

	// 4. Averages
	macro, weighted := s.averages(classes, len(yTrue))

	return model.Evaluation{
		Classes:     classes,
		Accuracy:    ratio(correct, len(yTrue)),
		MacroAvg:    macro,
		WeightedAvg: weighted,
		Support:     len(yTrue),
		Labels:      labels,
		Confusion:   confusion,
	}, nil
}

// averages returns unweighted and support-weighted means of the class metrics
func (s *Scorer) averages(classes []model.ClassMetrics, total int) (model.Averages, model.Averages) {
	var macro, weighted model.Averages
	if len(classes) == 0 {
		return macro, weighted
	}

	for _, c := range classes {
		macro.Precision += c.Precision
		macro.Recall += c.Recall
		macro.F1 += c.F1

		w := float64(c.Support)
		weighted.Precision += w * c.Precision
		weighted.Recall += w * c.Recall
		weighted.F1 += w * c.F1
	}

	n := float64(len(classes))
	macro.Precision /= n
	macro.Recall /= n
	macro.F1 /= n

	if total > 0 {
		t := float64(total)
		weighted.Precision /= t
		weighted.Recall /= t
		weighted.F1 /= t
	}
	return macro, weighted
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
