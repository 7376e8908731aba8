package fuzzy

// Triangle is a triangular membership function with feet A and C and peak B
// (A <= B <= C). A == B gives a left-saturated shape, B == C a right-saturated
// one.
type Triangle struct {
	A, B, C float64
}

// Degree returns the membership of x. NaN has membership 0 in every term.
func (t Triangle) Degree(x float64) float64 {
	switch {
	case x == t.B:
		return 1
	case x > t.A && x < t.B:
		return (x - t.A) / (t.B - t.A)
	case x > t.B && x < t.C:
		return (t.C - x) / (t.C - t.B)
	default:
		return 0
	}
}

// Variable is a linguistic variable over [0,1] with named terms
type Variable struct {
	Name  string
	Terms map[string]Triangle
}

// Degree returns the membership of x in the named term, 0 for unknown terms
func (v Variable) Degree(term string, x float64) float64 {
	tri, ok := v.Terms[term]
	if !ok {
		return 0
	}
	return tri.Degree(x)
}

// Term names shared by the default variables
const (
	Low  = "low"
	High = "high"

	RealLike = "real_like"
	Maybe    = "maybe"
	FakeLike = "fake_like"
)

// Default antecedent and consequent variables
var (
	SensationalismVar = Variable{Name: "sensationalism", Terms: map[string]Triangle{
		Low:  {0, 0, 0.7},
		High: {0.3, 1, 1},
	}}
	EvidenceVar = Variable{Name: "evidence", Terms: map[string]Triangle{
		Low:  {0, 0, 0.5},
		High: {0.4, 1, 1},
	}}
	HedgeVar = Variable{Name: "hedge", Terms: map[string]Triangle{
		Low:  {0, 0, 0.7},
		High: {0.4, 1, 1},
	}}
	NoiseVar = Variable{Name: "noise", Terms: map[string]Triangle{
		Low:  {0, 0, 0.7},
		High: {0.4, 1, 1},
	}}
	FakeScoreVar = Variable{Name: "fake_score", Terms: map[string]Triangle{
		RealLike: {0, 0, 0.45},
		Maybe:    {0.3, 0.5, 0.7},
		FakeLike: {0.55, 1, 1},
	}}
)
