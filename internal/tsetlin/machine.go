// Package tsetlin implements a multi-class Tsetlin machine over binary
// inputs and a classifier wrapper that binarizes real-valued features.
package tsetlin

import (
	"fmt"
	"math/rand/v2"
)

// Config holds the machine hyperparameters
type Config struct {
	Clauses   int     // Clauses per class, half positive and half negative
	T         int     // Vote margin target
	S         float64 // Specificity
	StateBits int     // Each automaton has 2^StateBits states
	Seed      uint64
}

// DefaultConfig returns the default hyperparameters
func DefaultConfig() Config {
	return Config{
		Clauses:   500,
		T:         15,
		S:         3.9,
		StateBits: 8,
		Seed:      42,
	}
}

// Machine is a multi-class Tsetlin machine. Automaton state is stored flat:
// class, then clause, then literal (features first, negations second).
// A literal is included in its clause when its state exceeds N.
type Machine struct {
	Classes  int
	Clauses  int
	Features int
	T        int
	S        float64
	N        int32 // Half the number of states
	Seed     uint64
	State    []int32

	rng *rand.Rand
}

// NewMachine creates a machine with states initialized around the
// include/exclude boundary
func NewMachine(cfg Config, classes, features int) *Machine {
	clauses := cfg.Clauses
	if clauses%2 != 0 {
		clauses++
	}
	n := int32(1) << (cfg.StateBits - 1)

	m := &Machine{
		Classes:  classes,
		Clauses:  clauses,
		Features: features,
		T:        cfg.T,
		S:        cfg.S,
		N:        n,
		Seed:     cfg.Seed,
		State:    make([]int32, classes*clauses*2*features),
	}
	m.rng = m.newRand()

	for i := range m.State {
		m.State[i] = n + int32(m.rng.IntN(2))
	}
	return m
}

func (m *Machine) newRand() *rand.Rand {
	return rand.New(rand.NewPCG(m.Seed, m.Seed^0x9e3779b97f4a7c15))
}

// Fit trains for the given number of epochs. Each epoch visits every sample
// once in a shuffled order; samples update their own class towards 1 and one
// random other class towards 0.
func (m *Machine) Fit(X [][]uint8, y []int, epochs int) error {
	return m.fit(X, y, epochs, nil)
}

func (m *Machine) fit(X [][]uint8, y []int, epochs int, progress func(epoch int)) error {
	if len(X) != len(y) {
		return fmt.Errorf("fit: %d rows, %d labels", len(X), len(y))
	}
	if err := m.checkWidth(X); err != nil {
		return err
	}
	for i, label := range y {
		if label < 0 || label >= m.Classes {
			return fmt.Errorf("fit: label %d of row %d out of range [0,%d)", label, i, m.Classes)
		}
	}
	if m.rng == nil {
		m.rng = m.newRand()
	}

	order := make([]int, len(X))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < epochs; epoch++ {
		m.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, i := range order {
			m.update(X[i], y[i])
		}
		if progress != nil {
			progress(epoch + 1)
		}
	}
	return nil
}

// Predict returns the class with the largest vote sum for every row
func (m *Machine) Predict(X [][]uint8) ([]int, error) {
	if err := m.checkWidth(X); err != nil {
		return nil, err
	}

	out := make([]int, len(X))
	for i, x := range X {
		best, bestVote := 0, 0
		for c := 0; c < m.Classes; c++ {
			v := m.classSum(c, x, false)
			if c == 0 || v > bestVote {
				best, bestVote = c, v
			}
		}
		out[i] = best
	}
	return out, nil
}

// Transform returns per-class vote sums, clamped to [-T, T] and divided by T
func (m *Machine) Transform(X [][]uint8) ([][]float64, error) {
	if err := m.checkWidth(X); err != nil {
		return nil, err
	}

	out := make([][]float64, len(X))
	for i, x := range X {
		row := make([]float64, m.Classes)
		for c := range row {
			row[c] = float64(m.classSum(c, x, false)) / float64(m.T)
		}
		out[i] = row
	}
	return out, nil
}

func (m *Machine) checkWidth(X [][]uint8) error {
	for i, x := range X {
		if len(x) != m.Features {
			return fmt.Errorf("row %d has %d features, want %d: %w", i, len(x), m.Features, ErrWidth)
		}
	}
	return nil
}

// clause returns the automaton states of one clause
func (m *Machine) clause(class, j int) []int32 {
	width := 2 * m.Features
	start := (class*m.Clauses + j) * width
	return m.State[start : start+width]
}

// clauseOutput evaluates a clause. A clause without included literals
// outputs 1 during training and 0 during prediction.
func (m *Machine) clauseOutput(st []int32, x []uint8, training bool) int {
	empty := true
	for k, v := range x {
		if st[k] > m.N {
			empty = false
			if v == 0 {
				return 0
			}
		}
		if st[m.Features+k] > m.N {
			empty = false
			if v == 1 {
				return 0
			}
		}
	}
	if empty && !training {
		return 0
	}
	return 1
}

// classSum returns the clamped vote of one class
func (m *Machine) classSum(class int, x []uint8, training bool) int {
	sum := 0
	for j := 0; j < m.Clauses; j++ {
		if m.clauseOutput(m.clause(class, j), x, training) == 0 {
			continue
		}
		if j%2 == 0 {
			sum++
		} else {
			sum--
		}
	}
	return min(max(sum, -m.T), m.T)
}

func (m *Machine) update(x []uint8, target int) {
	m.updateClass(target, x, true)

	if m.Classes < 2 {
		return
	}
	other := m.rng.IntN(m.Classes - 1)
	if other >= target {
		other++
	}
	m.updateClass(other, x, false)
}

func (m *Machine) updateClass(class int, x []uint8, positive bool) {
	v := float64(m.classSum(class, x, true))
	t := float64(m.T)

	p := (t - v) / (2 * t)
	if !positive {
		p = (t + v) / (2 * t)
	}

	for j := 0; j < m.Clauses; j++ {
		if m.rng.Float64() >= p {
			continue
		}
		st := m.clause(class, j)
		out := m.clauseOutput(st, x, true)

		// Positive clauses learn the target class, negative clauses the rest
		if (j%2 == 0) == positive {
			m.typeI(st, x, out)
		} else {
			m.typeII(st, x, out)
		}
	}
}

// typeI reinforces frequent patterns: include true literals of firing
// clauses, forget everything else at rate 1/s
func (m *Machine) typeI(st []int32, x []uint8, out int) {
	for k := 0; k < 2*m.Features; k++ {
		lit := literal(x, k, m.Features)
		if out == 1 && lit == 1 {
			if m.rng.Float64() < (m.S-1)/m.S && st[k] < 2*m.N {
				st[k]++
			}
		} else if m.rng.Float64() < 1/m.S && st[k] > 1 {
			st[k]--
		}
	}
}

// typeII discriminates: a firing clause includes one of its false literals
func (m *Machine) typeII(st []int32, x []uint8, out int) {
	if out == 0 {
		return
	}
	for k := 0; k < 2*m.Features; k++ {
		if literal(x, k, m.Features) == 0 && st[k] <= m.N {
			st[k]++
		}
	}
}

func literal(x []uint8, k, features int) uint8 {
	if k < features {
		return x[k]
	}
	return 1 - x[k-features]
}
