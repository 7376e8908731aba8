package vectorize

import (
	"fmt"
	"math"
)

// Scaler standardizes columns to zero mean and unit variance.
// Columns with zero variance are only centered.
type Scaler struct {
	Mean  []float64
	Scale []float64 // Population standard deviation, 1 where it is 0
}

// NewScaler creates an unfitted scaler
func NewScaler() *Scaler {
	return &Scaler{}
}

// Fit learns per-column mean and standard deviation from rows
func (s *Scaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return fmt.Errorf("fit scaler: no rows")
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return fmt.Errorf("fit scaler: row %d has %d columns, want %d: %w", i, len(row), width, ErrWidth)
		}
	}

	n := float64(len(rows))
	mean := make([]float64, width)
	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	scale := make([]float64, width)
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}

	s.Mean, s.Scale = mean, scale
	return nil
}

// Transform returns standardized copies of rows
func (s *Scaler) Transform(rows [][]float64) ([][]float64, error) {
	if s.Mean == nil {
		return nil, ErrNotFitted
	}

	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("scale row %d: %d columns, want %d: %w", i, len(row), len(s.Mean), ErrWidth)
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// Width returns the number of fitted columns
func (s *Scaler) Width() int {
	return len(s.Mean)
}
