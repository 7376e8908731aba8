// Package fuzzy implements the Mamdani-style inference engine that turns four
// text cues into a fake-likelihood score.
//
// An Engine holds mutable simulation state and must not be shared between
// goroutines. Engines are cheap; give each worker its own.
package fuzzy

import "math"

// universeSize is the number of points of the output domain 0, 0.01, ..., 1
const universeSize = 101

// Path records how a score was obtained
type Path int

const (
	PathCentroid Path = iota // Centroid of the aggregated output
	PathFallback             // Linear heuristic on degenerate output
)

func (p Path) String() string {
	if p == PathFallback {
		return "fallback"
	}
	return "centroid"
}

// Inputs are the crisp antecedent values. Values outside [0,1] are clipped.
// Evidence is the lack-of-evidence axis: 1 means no evidence at all.
type Inputs struct {
	Sensationalism float64
	Evidence       float64
	Hedge          float64
	Noise          float64
}

// Clip returns the inputs clipped to [0,1]
func (in Inputs) Clip() Inputs {
	return Inputs{
		Sensationalism: Clip01(in.Sensationalism),
		Evidence:       Clip01(in.Evidence),
		Hedge:          Clip01(in.Hedge),
		Noise:          Clip01(in.Noise),
	}
}

func (in Inputs) value(a Antecedent) float64 {
	switch a {
	case Sensationalism:
		return in.Sensationalism
	case Evidence:
		return in.Evidence
	case Hedge:
		return in.Hedge
	case Noise:
		return in.Noise
	default:
		return math.NaN()
	}
}

// Result is the outcome of one inference
type Result struct {
	Score     float64   // Fake-likelihood in [0,1]
	Path      Path      // Centroid or fallback
	Strengths []float64 // Firing strength per rule, in rule order
}

// Engine evaluates a rule base against crisp inputs
type Engine struct {
	antecedents [numAntecedents]Variable
	output      Variable
	rules       []Rule

	universe []float64
	outTerms map[string][]float64 // Consequent membership per universe point

	// Simulation state, reset at the start of every Score call
	in         Inputs
	aggregated []float64
	strengths  []float64
}

// Option configures an Engine
type Option func(*Engine)

// WithRules replaces the default rule base
func WithRules(rules []Rule) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// WithVariables replaces the default antecedent and consequent variables
func WithVariables(sensationalism, evidence, hedge, noise, output Variable) Option {
	return func(e *Engine) {
		e.antecedents = [numAntecedents]Variable{sensationalism, evidence, hedge, noise}
		e.output = output
	}
}

// NewEngine creates an engine with the default variables and rules
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		antecedents: [numAntecedents]Variable{SensationalismVar, EvidenceVar, HedgeVar, NoiseVar},
		output:      FakeScoreVar,
		rules:       DefaultRules(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.universe = make([]float64, universeSize)
	for i := range e.universe {
		e.universe[i] = float64(i) / float64(universeSize-1)
	}

	e.outTerms = make(map[string][]float64, len(e.output.Terms))
	for name, tri := range e.output.Terms {
		mu := make([]float64, universeSize)
		for i, x := range e.universe {
			mu[i] = tri.Degree(x)
		}
		e.outTerms[name] = mu
	}

	e.aggregated = make([]float64, universeSize)
	e.strengths = make([]float64, len(e.rules))
	return e
}

// Score runs one inference. It never fails: when the aggregated output has
// no mass the result comes from Fallback.
func (e *Engine) Score(in Inputs) Result {
	e.reset(in.Clip())

	// 1. Fire rules
	for i, r := range e.rules {
		if r.If == nil {
			continue
		}
		e.strengths[i] = r.If.Eval(e.degree)
	}

	// 2. Aggregate clipped consequents
	for i, r := range e.rules {
		mu, ok := e.outTerms[r.Then]
		if !ok || e.strengths[i] <= 0 {
			continue
		}
		for j := range e.aggregated {
			e.aggregated[j] = math.Max(e.aggregated[j], math.Min(e.strengths[i], mu[j]))
		}
	}

	strengths := append([]float64(nil), e.strengths...)

	// 3. Defuzzify
	var num, den float64
	for j, x := range e.universe {
		num += x * e.aggregated[j]
		den += e.aggregated[j]
	}
	if math.IsNaN(den) || den <= 0 {
		return Result{Score: Fallback(in), Path: PathFallback, Strengths: strengths}
	}
	return Result{Score: Clip01(num / den), Path: PathCentroid, Strengths: strengths}
}

func (e *Engine) reset(in Inputs) {
	e.in = in
	clear(e.aggregated)
	if len(e.strengths) != len(e.rules) {
		e.strengths = make([]float64, len(e.rules))
	}
	clear(e.strengths)
}

func (e *Engine) degree(a Antecedent, term string) float64 {
	if a < 0 || a >= numAntecedents {
		return 0
	}
	return e.antecedents[a].Degree(term, e.in.value(a))
}

// Fallback is the linear heuristic used on degenerate output:
// 0.6*s + 0.3*(1-e) + 0.2*n, clipped to [0,1]. NaN inputs count as 0.
func Fallback(in Inputs) float64 {
	in = in.Clip()
	s, ev, n := zeroNaN(in.Sensationalism), zeroNaN(in.Evidence), zeroNaN(in.Noise)
	return Clip01(0.6*s + 0.3*(1-ev) + 0.2*n)
}

// Clip01 clips x to [0,1]. NaN is returned unchanged.
func Clip01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func zeroNaN(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return x
}
