package tsetlin

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrWidth is returned when a row width differs from the fitted width
	ErrWidth = errors.New("tsetlin: feature width mismatch")

	// ErrNotFitted is returned before Fit
	ErrNotFitted = errors.New("tsetlin: not fitted")
)

// Classifier wraps a Machine with input binarization and label mapping.
// Every row is thresholded with v > 0 before it reaches the machine, both
// when fitting and when predicting.
type Classifier struct {
	Config  Config
	Labels  []int // Sorted training labels; machine class i is Labels[i]
	Width   int   // Feature width seen by Fit
	Machine *Machine

	progress func(epoch int)
}

// NewClassifier creates an unfitted classifier
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{Config: cfg}
}

// OnEpoch registers a callback invoked after each training epoch
func (c *Classifier) OnEpoch(fn func(epoch int)) {
	c.progress = fn
}

// Binarize thresholds every value: v > 0 becomes 1, anything else 0
func Binarize(X [][]float64) [][]uint8 {
	out := make([][]uint8, len(X))
	for i, row := range X {
		b := make([]uint8, len(row))
		for j, v := range row {
			if v > 0 {
				b[j] = 1
			}
		}
		out[i] = b
	}
	return out
}

// Fit trains a fresh machine for the given number of epochs
func (c *Classifier) Fit(X [][]float64, y []int, epochs int) error {
	if len(X) == 0 {
		return fmt.Errorf("fit classifier: no rows")
	}
	if len(X) != len(y) {
		return fmt.Errorf("fit classifier: %d rows, %d labels", len(X), len(y))
	}

	labels := slices.Clone(y)
	slices.Sort(labels)
	labels = slices.Compact(labels)

	classes := make([]int, len(y))
	for i, label := range y {
		classes[i], _ = slices.BinarySearch(labels, label)
	}

	width := len(X[0])
	machine := NewMachine(c.Config, len(labels), width)
	if err := machine.fit(Binarize(X), classes, epochs, c.progress); err != nil {
		return fmt.Errorf("fit classifier: %w", err)
	}

	c.Labels, c.Width, c.Machine = labels, width, machine
	return nil
}

// Predict returns one training label per row
func (c *Classifier) Predict(X [][]float64) ([]int, error) {
	if err := c.check(X); err != nil {
		return nil, err
	}

	classes, err := c.Machine.Predict(Binarize(X))
	if err != nil {
		return nil, err
	}

	out := make([]int, len(classes))
	for i, class := range classes {
		out[i] = c.Labels[class]
	}
	return out, nil
}

// Transform returns the per-class vote sums of the machine, divided by T
func (c *Classifier) Transform(X [][]float64) ([][]float64, error) {
	if err := c.check(X); err != nil {
		return nil, err
	}
	return c.Machine.Transform(Binarize(X))
}

// Confidence returns, per row, sigmoid(v_pred - mean(v_other)) over the
// normalized vote sums. This is a heuristic score in [0,1] that grows with
// the vote margin; it is not a calibrated probability.
func (c *Classifier) Confidence(X [][]float64) ([]float64, error) {
	votes, err := c.Transform(X)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(votes))
	for i, v := range votes {
		out[i] = margin(v)
	}
	return out, nil
}

// margin squashes the winning class's vote advantage
func margin(votes []float64) float64 {
	best := 0
	for c := range votes {
		if votes[c] > votes[best] {
			best = c
		}
	}

	var others float64
	for c, v := range votes {
		if c != best {
			others += v
		}
	}
	diff := votes[best]
	if len(votes) > 1 {
		diff -= others / float64(len(votes)-1)
	}
	return 1 / (1 + math.Exp(-diff))
}

func (c *Classifier) check(X [][]float64) error {
	if c.Machine == nil {
		return ErrNotFitted
	}
	for i, row := range X {
		if len(row) != c.Width {
			return fmt.Errorf("row %d has %d features, want %d: %w", i, len(row), c.Width, ErrWidth)
		}
	}
	return nil
}
