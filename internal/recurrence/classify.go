package recurrence

import "github.com/kanso-complexity/complexity/internal/complexity"

// polyLogShape is the (polynomial_degree, log_exponent) pair the Master
// and Akra-Bazzi stages need to classify a driving function f(n) (spec
// §4.5.1 step 2, §4.5.2 step 2). Only expressions normalize() already
// reduces to a single-variable polynomial-times-log shape are
// classifiable; anything else (Conditional, multi-variable Binary,
// Recurrence, …) is reported unclassifiable.
type polyLogShape struct {
	Degree float64
	LogExp int
}

// classifyDrivingFunction extracts f's shape after normalization. ok is
// false when f is not expressible as v^k * log^j(v) for a single
// variable v (spec §4.5.1 "If unclassifiable, fail with a diagnostic").
func classifyDrivingFunction(f complexity.Expression) (shape polyLogShape, ok bool) {
	switch n := complexity.Normalize(f).(type) {
	case complexity.Const:
		return polyLogShape{Degree: 0, LogExp: 0}, true
	case complexity.Var:
		return polyLogShape{Degree: 1, LogExp: 0}, true
	case complexity.Linear:
		return polyLogShape{Degree: 1, LogExp: 0}, true
	case complexity.Log:
		return polyLogShape{Degree: 0, LogExp: 1}, true
	case complexity.PolyLog:
		return polyLogShape{Degree: n.K, LogExp: n.J}, true
	case complexity.Poly:
		return polyLogShape{Degree: maxPolyDegree(n), LogExp: 0}, true
	default:
		return polyLogShape{}, false
	}
}

func maxPolyDegree(p complexity.Poly) float64 {
	best := 0.0
	first := true
	for d := range p.Terms {
		if first || float64(d) > best {
			best = float64(d)
			first = false
		}
	}
	return best
}

// buildPolyLogVar reconstructs an Expression from a classified shape
// over variable v, for use by solver stages assembling their
// closed-form solution.
func buildPolyLogVar(shape polyLogShape, v complexity.Variable) complexity.Expression {
	return complexity.NewPolyLog(shape.Degree, shape.LogExp, v)
}
