package fuzzy

import "math"

// Antecedent identifies one of the four input variables
type Antecedent int

const (
	Sensationalism Antecedent = iota
	Evidence
	Hedge
	Noise

	numAntecedents
)

func (a Antecedent) String() string {
	switch a {
	case Sensationalism:
		return "sensationalism"
	case Evidence:
		return "evidence"
	case Hedge:
		return "hedge"
	case Noise:
		return "noise"
	default:
		return "unknown"
	}
}

// Expr is an antecedent expression evaluated to a truth degree in [0,1]
type Expr interface {
	Eval(degree func(Antecedent, string) float64) float64
}

// Term is the membership of an antecedent in a named term
type Term struct {
	Var  Antecedent
	Name string
}

// Is builds a Term expression
func Is(v Antecedent, term string) Term {
	return Term{Var: v, Name: term}
}

// Eval implements Expr
func (t Term) Eval(degree func(Antecedent, string) float64) float64 {
	return degree(t.Var, t.Name)
}

// AndExpr is a fuzzy conjunction (min)
type AndExpr []Expr

// And builds a conjunction of exprs
func And(exprs ...Expr) AndExpr { return AndExpr(exprs) }

// Eval implements Expr. An empty conjunction has degree 0.
func (a AndExpr) Eval(degree func(Antecedent, string) float64) float64 {
	if len(a) == 0 {
		return 0
	}
	v := 1.0
	for _, e := range a {
		v = math.Min(v, e.Eval(degree))
	}
	return v
}

// OrExpr is a fuzzy disjunction (max)
type OrExpr []Expr

// Or builds a disjunction of exprs
func Or(exprs ...Expr) OrExpr { return OrExpr(exprs) }

// Eval implements Expr
func (o OrExpr) Eval(degree func(Antecedent, string) float64) float64 {
	v := 0.0
	for _, e := range o {
		v = math.Max(v, e.Eval(degree))
	}
	return v
}

// Rule maps an antecedent expression to a consequent term of fake_score
type Rule struct {
	If   Expr
	Then string
}

// DefaultRules returns the five-rule base
func DefaultRules() []Rule {
	return []Rule{
		{
			If:   And(Is(Sensationalism, High), Is(Evidence, Low), Is(Hedge, High), Is(Noise, High)),
			Then: FakeLike,
		},
		{
			If:   And(Is(Sensationalism, High), Is(Evidence, Low), Or(Is(Hedge, High), Is(Noise, High))),
			Then: FakeLike,
		},
		{
			If:   Or(Is(Sensationalism, High), Is(Hedge, High), Is(Noise, High)),
			Then: FakeLike,
		},
		{
			If:   And(Is(Evidence, High), Is(Sensationalism, Low)),
			Then: RealLike,
		},
		{
			If:   And(Is(Sensationalism, Low), Is(Evidence, Low)),
			Then: Maybe,
		},
	}
}
