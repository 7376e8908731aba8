package fuzzy

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestTriangle_Degree(t *testing.T) {
	tests := []struct {
		name string
		tri  Triangle
		x    float64
		want float64
	}{
		{"left saturated at peak", Triangle{0, 0, 0.7}, 0, 1},
		{"left saturated slope", Triangle{0, 0, 0.7}, 0.35, 0.5},
		{"left saturated past foot", Triangle{0, 0, 0.7}, 0.7, 0},
		{"right saturated at peak", Triangle{0.4, 1, 1}, 1, 1},
		{"right saturated slope", Triangle{0.4, 1, 1}, 0.7, 0.5},
		{"right saturated before foot", Triangle{0.4, 1, 1}, 0.4, 0},
		{"symmetric peak", Triangle{0.3, 0.5, 0.7}, 0.5, 1},
		{"symmetric rising", Triangle{0.3, 0.5, 0.7}, 0.4, 0.5},
		{"symmetric falling", Triangle{0.3, 0.5, 0.7}, 0.6, 0.5},
		{"outside", Triangle{0.3, 0.5, 0.7}, 0.9, 0},
		{"nan", Triangle{0, 0, 1}, math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.tri.Degree(tt.x), eps)
		})
	}
}

func TestVariable_UnknownTerm(t *testing.T) {
	assert.Equal(t, 0.0, SensationalismVar.Degree("medium", 0.5))
}

func TestEngine_KnownPoints(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name string
		in   Inputs
		want float64
	}{
		{"calm sourced text", Inputs{Sensationalism: 0.106, Evidence: 1}, 0.1500337},
		{"shouting unsourced text", Inputs{Sensationalism: 1, Evidence: 1, Noise: 1}, 0.8533333},
		{"all zero", Inputs{}, 0.5},
		{"no evidence only", Inputs{Evidence: 1}, 0.1466667},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Score(tt.in)
			assert.Equal(t, PathCentroid, res.Path)
			assert.InDelta(t, tt.want, res.Score, 1e-6)
			assert.Len(t, res.Strengths, 5)
		})
	}
}

func TestEngine_ClipsInputs(t *testing.T) {
	e := NewEngine()
	assert.InDelta(t, e.Score(Inputs{Sensationalism: 1, Evidence: 1, Noise: 1}).Score,
		e.Score(Inputs{Sensationalism: 3.2, Evidence: 1.5, Noise: 7}).Score, eps)
	assert.InDelta(t, e.Score(Inputs{}).Score,
		e.Score(Inputs{Sensationalism: -1, Evidence: -2, Hedge: -3, Noise: -4}).Score, eps)
}

func TestEngine_ScoreInRange(t *testing.T) {
	e := NewEngine()
	for i := 0; i <= 10; i++ {
		for j := 0; j <= 10; j++ {
			in := Inputs{
				Sensationalism: float64(i) / 10,
				Evidence:       float64(j) / 10,
				Hedge:          float64((i+j)%11) / 10,
				Noise:          float64(i*j%11) / 10,
			}
			s := e.Score(in).Score
			require.GreaterOrEqual(t, s, 0.0, "inputs %+v", in)
			require.LessOrEqual(t, s, 1.0, "inputs %+v", in)
		}
	}
}

// sweep scores 101 evenly spaced values of one input with the others at 0.5
func sweep(e *Engine, set func(*Inputs, float64)) []float64 {
	out := make([]float64, universeSize)
	for i := range out {
		in := Inputs{Sensationalism: 0.5, Evidence: 0.5, Hedge: 0.5, Noise: 0.5}
		set(&in, float64(i)/100)
		out[i] = e.Score(in).Score
	}
	return out
}

func TestEngine_MonotoneIncreasing(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name string
		set  func(*Inputs, float64)
	}{
		{"sensationalism", func(in *Inputs, x float64) { in.Sensationalism = x }},
		{"hedge", func(in *Inputs, x float64) { in.Hedge = x }},
		{"noise", func(in *Inputs, x float64) { in.Noise = x }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := sweep(e, tt.set)
			for i := 1; i < len(scores); i++ {
				assert.GreaterOrEqual(t, scores[i]+eps, scores[i-1], "at %.2f", float64(i)/100)
			}
		})
	}
}

func TestEngine_EvidenceNonIncreasing(t *testing.T) {
	e := NewEngine()
	scores := sweep(e, func(in *Inputs, x float64) { in.Evidence = x })

	for i := 1; i < len(scores); i++ {
		x := float64(i) / 100
		// maybe loses strength before real_like fires in this band
		if x > 0.35+eps && x <= 0.40+eps {
			continue
		}
		assert.LessOrEqual(t, scores[i], scores[i-1]+eps, "at %.2f", x)
	}

	assert.GreaterOrEqual(t, scores[0]+eps, scores[50])
	assert.GreaterOrEqual(t, scores[50]+eps, scores[100])
}

func TestEngine_StatelessAcrossCalls(t *testing.T) {
	e := NewEngine()
	probe := Inputs{Sensationalism: 0.4, Evidence: 0.7, Hedge: 0.2, Noise: 0}

	first := e.Score(probe)

	// Interleave calls that leave very different aggregated shapes behind
	e.Score(Inputs{Sensationalism: 1, Evidence: 0, Hedge: 1, Noise: 1})
	e.Score(Inputs{Evidence: 1})
	e.Score(Inputs{Sensationalism: math.NaN()})

	second := e.Score(probe)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Strengths, second.Strengths)

	fresh := NewEngine().Score(probe)
	assert.Equal(t, fresh.Score, second.Score)
}

func TestEngine_ResultStrengthsNotShared(t *testing.T) {
	e := NewEngine()
	a := e.Score(Inputs{Sensationalism: 1})
	snapshot := append([]float64(nil), a.Strengths...)
	e.Score(Inputs{Evidence: 1})
	assert.Equal(t, snapshot, a.Strengths)
}

func TestEngine_FallbackEmptyRules(t *testing.T) {
	e := NewEngine(WithRules(nil))

	res := e.Score(Inputs{Sensationalism: 0.5, Evidence: 0.2, Hedge: 0.3, Noise: 0.5})
	assert.Equal(t, PathFallback, res.Path)
	assert.InDelta(t, 0.64, res.Score, eps)
	assert.Empty(t, res.Strengths)

	res = e.Score(Inputs{Sensationalism: 1, Evidence: 0, Noise: 1})
	assert.Equal(t, PathFallback, res.Path)
	assert.Equal(t, 1.0, res.Score)
}

func TestEngine_FallbackNaN(t *testing.T) {
	e := NewEngine()
	nan := math.NaN()

	res := e.Score(Inputs{Sensationalism: nan, Evidence: nan, Hedge: nan, Noise: nan})
	assert.Equal(t, PathFallback, res.Path)
	assert.InDelta(t, 0.3, res.Score, eps)
}

func TestEngine_CustomRules(t *testing.T) {
	e := NewEngine(WithRules([]Rule{
		{If: Is(Hedge, High), Then: FakeLike},
		{If: Is(Hedge, Low), Then: RealLike},
		{If: Is(Hedge, "unknown"), Then: Maybe},
		{If: Is(Noise, High), Then: "no_such_term"},
	}))

	low := e.Score(Inputs{Hedge: 0})
	high := e.Score(Inputs{Hedge: 1})
	assert.Equal(t, PathCentroid, low.Path)
	assert.Less(t, low.Score, 0.5)
	assert.Greater(t, high.Score, 0.5)
	assert.Equal(t, []float64{0, 1, 0, 0}, low.Strengths)

	// A rule whose consequent is unknown contributes nothing
	only := NewEngine(WithRules([]Rule{{If: Is(Noise, High), Then: "no_such_term"}}))
	assert.Equal(t, PathFallback, only.Score(Inputs{Noise: 1}).Path)
}

func TestExpr_EmptyForms(t *testing.T) {
	deg := func(Antecedent, string) float64 { return 1 }
	assert.Equal(t, 0.0, And().Eval(deg))
	assert.Equal(t, 0.0, Or().Eval(deg))
}

func TestEngine_PerGoroutine(t *testing.T) {
	want := NewEngine().Score(Inputs{Sensationalism: 0.8, Evidence: 0.9}).Score

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := NewEngine()
			for j := 0; j < 50; j++ {
				e.Score(Inputs{Hedge: float64(j) / 50})
				if got := e.Score(Inputs{Sensationalism: 0.8, Evidence: 0.9}).Score; got != want {
					t.Errorf("Score = %v, want %v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestPath_String(t *testing.T) {
	assert.Equal(t, "centroid", PathCentroid.String())
	assert.Equal(t, "fallback", PathFallback.String())
	assert.Equal(t, "sensationalism", Sensationalism.String())
	assert.Equal(t, "unknown", Antecedent(9).String())
}
