// Package akrabazzi implements the Akra-Bazzi critical-exponent solver
// and driving-integral classification (spec §4.5.2). The exact
// Newton-then-bisection root-finding procedure is specified literally
// enough (derivative formula, initial guess, convergence tolerance,
// bisection bracket) that it is reproduced directly rather than routed
// through gonum/optimize's general-purpose multivariate minimizers,
// which solve a different problem shape (gradient descent over ℝ^n,
// not a guarded 1-D root find with a named fallback strategy); gonum is
// used instead in internal/recurrence/linear, where its eigenvalue
// decomposition is a direct fit.
package akrabazzi

import "math"

const (
	newtonMaxIterations    = 100
	newtonResidualTol      = 1e-10
	bisectionLower         = -10.0
	bisectionUpper         = 10.0
	bisectionMaxIterations = 200
)

// Term is one Akra-Bazzi term: aᵢ*T(bᵢ*n), aᵢ > 0, bᵢ in (0,1).
type Term struct {
	A float64
	B float64
}

// residual computes Σ aᵢ·bᵢ^p − 1, whose unique root is the critical
// exponent p (spec §4.5.2 step 1).
func residual(terms []Term, p float64) float64 {
	sum := 0.0
	for _, t := range terms {
		sum += t.A * math.Pow(t.B, p)
	}
	return sum - 1
}

// derivative computes Σ aᵢ·bᵢ^p·ln(bᵢ) (spec §4.5.2 "derivative with all
// terms negative").
func derivative(terms []Term, p float64) float64 {
	sum := 0.0
	for _, t := range terms {
		sum += t.A * math.Pow(t.B, p) * math.Log(t.B)
	}
	return sum
}

// CriticalExponent finds the unique p solving Σ aᵢ·bᵢ^p = 1 via Newton's
// method from an initial guess of 1, falling back to bisection over
// [-10, 10] if Newton oscillates (a step longer than 100), meets a
// degenerate derivative, or does not converge within its iteration cap
// (spec §4.5.2 step 1); Newton's iterates are not confined to that
// bracket. Converged reports whether the returned residual satisfies
// the convergence criterion.
func CriticalExponent(terms []Term) (p float64, converged bool) {
	p = 1.0
	if newtonConverges(terms, &p) {
		return p, true
	}

	p, ok := bisect(terms)
	return p, ok
}

func newtonConverges(terms []Term, p *float64) bool {
	x := *p
	for i := 0; i < newtonMaxIterations; i++ {
		r := residual(terms, x)
		if math.Abs(r) < newtonResidualTol {
			*p = x
			return true
		}
		d := derivative(terms, x)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return false
		}
		next := x - r/d
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return false
		}
		// Detect oscillation: Newton stepping back and forth without
		// shrinking, a known failure mode for this decreasing-convex
		// family when the initial guess overshoots.
		if i > 0 && math.Abs(next-x) > 100 {
			return false
		}
		x = next
	}
	return math.Abs(residual(terms, x)) < newtonResidualTol
}

func bisect(terms []Term) (float64, bool) {
	lo, hi := bisectionLower, bisectionUpper
	rLo, rHi := residual(terms, lo), residual(terms, hi)
	if rLo == 0 {
		return lo, true
	}
	if rHi == 0 {
		return hi, true
	}
	if (rLo > 0) == (rHi > 0) {
		// Residual is strictly decreasing from Σaᵢ (p→-∞) to 0 (p→+∞),
		// so a sign change must exist in a wide enough bracket; if not
		// found here the inputs violate the aᵢ>0, bᵢ∈(0,1) precondition.
		return 0, false
	}
	for i := 0; i < bisectionMaxIterations; i++ {
		mid := (lo + hi) / 2
		rMid := residual(terms, mid)
		if math.Abs(rMid) < newtonResidualTol {
			return mid, true
		}
		if (rMid > 0) == (rLo > 0) {
			lo, rLo = mid, rMid
		} else {
			hi, rHi = mid, rMid
		}
	}
	return (lo + hi) / 2, true
}

// DrivingIntegralKind classifies the closed form of the driving
// integral I(n) = ∫₁ⁿ g(u)/u^(p+1) du (spec §4.5.2 step 2).
type DrivingIntegralKind int

const (
	IntegralConst DrivingIntegralKind = iota
	IntegralLogN
	IntegralLogPowerN
	IntegralNPower
	IntegralNPowerLogPower
)

// DrivingIntegral is the classified shape of I(n).
type DrivingIntegral struct {
	Kind     DrivingIntegralKind
	Exponent float64 // k - p, when Kind is IntegralNPower(LogPower)
	LogExp   int      // j, when Kind involves a log factor
}

// ClassifyDrivingIntegral classifies g(u) = u^k (optionally *log^j u)
// against the critical exponent p per the table in spec §4.5.2 step 2.
func ClassifyDrivingIntegral(k float64, j int, p float64) DrivingIntegral {
	switch {
	case k < p && j == 0:
		return DrivingIntegral{Kind: IntegralConst}
	case k == p && j == 0:
		return DrivingIntegral{Kind: IntegralLogN}
	case k > p && j == 0:
		return DrivingIntegral{Kind: IntegralNPower, Exponent: k - p}
	case k < p && j > 0:
		return DrivingIntegral{Kind: IntegralConst}
	case k == p && j > 0:
		return DrivingIntegral{Kind: IntegralLogPowerN, LogExp: j + 1}
	default: // k > p && j > 0
		return DrivingIntegral{Kind: IntegralNPowerLogPower, Exponent: k - p, LogExp: j}
	}
}
