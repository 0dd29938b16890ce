package recurrence

import (
	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/recurrence/linear"
)

// trySolveLinear attempts the subtract-form linear solver (spec
// §4.5.3), applicable to T(n) = Σ aᵢ·T(n-i) + f(n). It is tried after
// Master and Akra-Bazzi have both failed, since those cover the more
// common divide-and-conquer shape and this path is reserved for
// subtract-form terms (complexity.RecurrenceTerm.IsSubtractForm).
func trySolveLinear(rec complexity.Recurrence) (*LinearSolved, *NotApplicable) {
	if len(rec.Terms) == 0 {
		return nil, &NotApplicable{Reason: "recurrence has no terms"}
	}
	for _, t := range rec.Terms {
		if !t.IsSubtractForm() {
			return nil, &NotApplicable{
				Reason:      "a recurrence term is not subtract-form (scale_factor not close to 1)",
				Suggestions: []string{"try Master Theorem or Akra-Bazzi for a divide-and-conquer shape"},
			}
		}
	}

	v := rec.Variable
	order := len(rec.Terms)
	coeffs := make([]float64, order)
	for i, t := range rec.Terms {
		coeffs[i] = t.Coefficient
	}

	shape, classifiable := classifyDrivingFunction(rec.NonRecursiveWork)

	if order == 1 && coeffs[0] == 1 {
		// Pure summation: T(n) = T(n-1) + f(n) (spec §4.5.3 step 1).
		if !classifiable {
			return nil, &NotApplicable{
				Reason:      "summation solver needs a classifiable f(n)",
				Suggestions: []string{"express f(n) as a polynomial-log expression"},
			}
		}
		return &LinearSolved{
			Solution: summationClosedForm(shape, v),
			Method:   MethodSummation,
		}, nil
	}

	roots := linear.SolveCharacteristicPolynomial(coeffs)
	if len(roots) == 0 {
		return nil, &NotApplicable{
			Reason:      "characteristic polynomial root-finding failed",
			Suggestions: []string{"check recurrence coefficients for degeneracy"},
		}
	}
	magnitude, multiplicity := linear.DominantRoot(roots)

	homogeneous := homogeneousSolution(magnitude, multiplicity, v)

	solution := homogeneous
	if classifiable {
		particular := buildPolyLogVar(shape, v)
		solution = complexity.Max(homogeneous, particular)
	}

	return &LinearSolved{
		Solution: complexity.Normalize(solution),
		Method:   MethodCharacteristicPolynomial,
		Roots:    toReportedRoots(roots),
	}, nil
}

// summationClosedForm implements the fixed closed-form table for
// T(n) = T(n-1) + f(n) (spec §4.5.3 step 1).
func summationClosedForm(shape polyLogShape, v complexity.Variable) complexity.Expression {
	switch {
	case shape.Degree == 0 && shape.LogExp == 0:
		// Constant f: Θ(n · f(n)) = Θ(n).
		return complexity.NewVar(v)
	case shape.Degree == 0 && shape.LogExp > 0:
		// Θ(n · log n).
		return complexity.NewPolyLog(1, shape.LogExp, v)
	default:
		// Polynomial f of degree d: Θ(n^(d+1)), carrying any log factor.
		return complexity.NewPolyLog(shape.Degree+1, shape.LogExp, v)
	}
}

// homogeneousSolution builds Θ(n^(m-1) · r^n) for a dominant root of
// magnitude r and multiplicity m (spec §4.5.3 step 2). A dominant root
// at magnitude 1 collapses to a pure polynomial term in n (no
// exponential growth), which is the Fibonacci-adjacent "repeated root
// at 1" boundary case (spec §8 extractor scenarios table).
func homogeneousSolution(magnitude float64, multiplicity int, v complexity.Variable) complexity.Expression {
	if magnitude <= 1+1e-9 {
		degree := float64(multiplicity - 1)
		if degree < 0 {
			degree = 0
		}
		if degree == 0 {
			return complexity.NewConst(1)
		}
		return complexity.NewPoly(v, map[int]float64{int(degree): 1})
	}
	expPart := complexity.NewExp(magnitude, v, 1)
	if multiplicity <= 1 {
		return expPart
	}
	polyPart := complexity.NewPoly(v, map[int]float64{multiplicity - 1: 1})
	return complexity.Mul(polyPart, expPart)
}

func toReportedRoots(roots []linear.Root) []LinearRoot {
	out := make([]LinearRoot, len(roots))
	for i, r := range roots {
		out[i] = LinearRoot{Real: real(r.Value), Imag: imag(r.Value), Multiplicity: r.Multiplicity}
	}
	return out
}
