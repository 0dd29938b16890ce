package recurrence

import (
	"math"

	"github.com/kanso-complexity/complexity/internal/complexity"
)

// epsilonMin is the fixed small constant bounding the Case 2 window
// (spec §4.5.1 "ε_min is a fixed small constant (about 0.01)").
const epsilonMin = 0.01

// regularitySamplePoints are the fixed geometric sample points used to
// numerically check the Case 3 regularity condition (spec §4.5.1).
var regularitySamplePoints = []float64{100, 500, 1000, 5000, 1e4, 5e4, 1e5, 5e5, 1e6}

// trySolveMaster attempts the Master Theorem dispatch (spec §4.5.1). It
// only applies to a recurrence with exactly one term whose coefficient
// is >= 1 and whose scale factor is in (0, 1) (complexity.RecurrenceTerm.FitsMaster).
func trySolveMaster(rec complexity.Recurrence) (*MasterApplicable, *NotApplicable) {
	if len(rec.Terms) != 1 {
		return nil, &NotApplicable{Reason: "Master Theorem requires exactly one recursive term"}
	}
	term := rec.Terms[0]
	if !term.FitsMaster() {
		return nil, &NotApplicable{Reason: "recurrence term does not fit the Master Theorem shape (a>=1, b in (0,1))"}
	}

	a := term.Coefficient
	b := 1.0 / term.ScaleFactor // term.ScaleFactor is n's subproblem fraction; Master's "b" divides n
	logBA := math.Log(a) / math.Log(b)

	shape, ok := classifyDrivingFunction(rec.NonRecursiveWork)
	if !ok {
		return nil, &NotApplicable{
			Reason:      "driving function f(n) is not polynomially/logarithmically classifiable",
			Suggestions: []string{"try Akra-Bazzi", "express f(n) as a single-variable polynomial-log expression"},
		}
	}

	delta := shape.Degree - logBA
	v := rec.Variable

	switch {
	case delta < -epsilonMin:
		return &MasterApplicable{
			MasterCase: Case1, A: a, B: b, LogBA: logBA, Epsilon: epsilonMin, K: shape.Degree,
			Solution: complexity.NewPolyLog(logBA, 0, v),
		}, nil

	case math.Abs(delta) <= epsilonMin:
		if !polynomiallySeparated(shape, logBA) {
			return nil, &NotApplicable{
				Reason:      "Master Theorem gap: f(n) is within epsilon of n^(log_b a) but not polynomially separated",
				Suggestions: []string{"try Akra-Bazzi", "apply refinement perturbation expansion"},
			}
		}
		return &MasterApplicable{
			MasterCase: Case2, A: a, B: b, LogBA: logBA, Epsilon: epsilonMin, K: shape.Degree,
			Solution: complexity.NewPolyLog(logBA, shape.LogExp+1, v),
		}, nil

	default: // delta > epsilonMin: Case 3, pending regularity
		verified := verifyRegularity(a, b, shape)
		if !verified {
			return nil, &NotApplicable{
				Reason:      "Master Case 3 candidate failed the regularity condition",
				Suggestions: []string{"try Akra-Bazzi"},
			}
		}
		return &MasterApplicable{
			MasterCase: Case3, A: a, B: b, LogBA: logBA, Epsilon: epsilonMin, K: shape.Degree,
			RegularityVerified: true,
			Solution:           complexity.NewPolyLog(shape.Degree, shape.LogExp, v),
		}, nil
	}
}

// polynomiallySeparated reports whether f is cleanly at the n^(log_b a)
// boundary (a genuine Case 2) rather than asymptotically below it by a
// non-polynomial factor like 1/log n (spec §4.5.1 "n^d / log n" gap
// example, encoded here as a negative log exponent).
func polynomiallySeparated(shape polyLogShape, logBA float64) bool {
	return math.Abs(shape.Degree-logBA) <= epsilonMin && shape.LogExp >= 0
}

// verifyRegularity checks Master Case 3's regularity condition
// a*f(n/b) <= c*f(n) for some c<1 and all sufficiently large n (spec
// §4.5.1 step 3). For f = n^k the analytic ratio is a/b^k; for
// n^k*log^j n the same leading ratio applies with the log factor
// contributing a correction that vanishes in the limit, so the leading
// ratio test is sufficient; as a cross-check the ratio is also sampled
// numerically at the fixed geometric point set.
func verifyRegularity(a, b float64, shape polyLogShape) bool {
	analyticRatio := a / math.Pow(b, shape.Degree)
	if analyticRatio >= 1 {
		return false
	}

	allBelowThreshold := true
	for _, n := range regularitySamplePoints {
		fN := evalPolyLogAt(shape, n)
		fNOverB := evalPolyLogAt(shape, n/b)
		if fN <= 0 {
			continue
		}
		ratio := a * fNOverB / fN
		if ratio >= 0.9999 {
			allBelowThreshold = false
			break
		}
	}
	return allBelowThreshold
}

func evalPolyLogAt(shape polyLogShape, n float64) float64 {
	if n <= 1 {
		n = 1.0001 // keep log finite near the boundary
	}
	v := math.Pow(n, shape.Degree)
	if shape.LogExp > 0 {
		v *= math.Pow(math.Log(n), float64(shape.LogExp))
	}
	return v
}
