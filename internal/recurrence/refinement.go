package recurrence

import (
	"math"

	"github.com/kanso-complexity/complexity/internal/complexity"
)

// samplePoints are the fixed geometric points used by slack
// optimization (spec §4.5.4); induction verification's asymptotic step
// samples its own points {1e4, 1e5, 1e6}.
var samplePoints = []float64{10, 100, 1000, 1e4, 1e5}

// inductionSamplePoints are the {2^i : i=1..10} points used by
// induction verification's inductive step (spec §4.5.4).
var inductionSamplePoints = buildPowersOfTwo()

func buildPowersOfTwo() []float64 {
	out := make([]float64, 10)
	for i := range out {
		out[i] = math.Pow(2, float64(i+1))
	}
	return out
}

// Refined bundles a (possibly tightened) solution with its diagnostics
// and confidence (spec §4.5.4's output feeding into the ProcedureResult
// schema of §6).
type Refined struct {
	Expression complexity.Expression
	Confidence ConfidenceAssessment
	Boundary   bool
	Warnings   []string
}

// Refine runs the full refinement pipeline over a solved or unsolved
// Applicability (spec §4.5.4): boundary detection, perturbation
// expansion, slack optimization, induction verification, and
// confidence scoring. It never fails — an unsolved recurrence still
// produces a Refined value, just with VeryLow confidence and the
// opaque placeholder the extractor already substitutes in (spec §4.5.4
// "Failure semantics").
func Refine(rec complexity.Recurrence, app Applicability) Refined {
	if !app.Solved() {
		return Refined{
			Expression: complexity.NewVar(complexity.Variable{Name: "T", Role: complexity.RoleCustom}),
			Confidence: ComputeConfidence(
				[]ConfidenceFactor{
					{Name: "analysis-source", Score: 0.2, Weight: WeightSource},
					{Name: "verification", Score: 0, Weight: WeightVerification},
					{Name: "theorem-applicability", Score: 0, Weight: WeightTheoremApplicable},
					{Name: "numerical-stability", Score: 0.5, Weight: WeightNumericalStability},
					{Name: "expression-simplicity", Score: 0.5, Weight: WeightExpressionSimple},
				},
				[]string{app.Not.Reason},
				"manual review recommended: no solver stage produced a closed form",
			),
			Boundary: false,
			Warnings: []string{app.Not.Reason},
		}
	}

	boundary := detectBoundary(app)
	solution := app.Expression()
	if boundary {
		solution = applyPerturbation(app, solution, rec.Variable)
	}

	tightened, tighterFound := slackOptimize(rec, solution)
	if tighterFound {
		solution = tightened
	}

	verified, warnings := verifyByInduction(rec, solution)

	confidence := scoreConfidence(app, boundary, verified, tighterFound)

	return Refined{
		Expression: complexity.Normalize(solution),
		Confidence: confidence,
		Boundary:   boundary,
		Warnings:   warnings,
	}
}

// detectBoundary flags a Master case |δ|<0.1 or an Akra-Bazzi p within
// 0.1 of an integer (spec §4.5.4 "Boundary detection").
func detectBoundary(app Applicability) bool {
	switch {
	case app.Master != nil:
		delta := app.Master.K - app.Master.LogBA
		return math.Abs(delta) < 0.1
	case app.AkraBazzi != nil:
		nearest := math.Round(app.AkraBazzi.P)
		return math.Abs(app.AkraBazzi.P-nearest) < 0.1
	default:
		return false
	}
}

// applyPerturbation attaches the logarithmic correction the driving
// integral develops near an integer/case boundary (spec §4.5.4
// "Perturbation expansion"): a first-order Taylor term in δ, expressed
// here as an extra log n factor (or log^2 near δ≈0 for Akra-Bazzi).
func applyPerturbation(app Applicability, solution complexity.Expression, v complexity.Variable) complexity.Expression {
	switch {
	case app.Master != nil:
		if app.Master.MasterCase == Case2 {
			// Case 2's own closed form already carries the extra log
			// factor the perturbation would add; nothing more to do.
			return solution
		}
		delta := app.Master.K - app.Master.LogBA
		if math.Abs(delta) < 0.01 {
			return complexity.Mul(solution, complexity.NewLogOf(complexity.NewVar(v), 2))
		}
		return solution
	case app.AkraBazzi != nil:
		nearest := math.Round(app.AkraBazzi.P)
		if math.Abs(app.AkraBazzi.P-nearest) < 0.01 {
			return complexity.Mul(solution, complexity.NewPower(complexity.NewLogOf(complexity.NewVar(v), 2), 2))
		}
		return complexity.Mul(solution, complexity.NewLogOf(complexity.NewVar(v), 2))
	default:
		return solution
	}
}

// slackOptimize numerically evaluates the unrolled recurrence at the
// fixed sample points, estimates the observed polynomial exponent from
// consecutive-sample growth ratios, and detects a log factor via
// correlation of residuals with log n (spec §4.5.4 "Slack
// optimization"). If the empirically fitted form is asymptotically
// tighter than (or equal growth but simpler than) the theorem-derived
// form, it replaces the solution.
func slackOptimize(rec complexity.Recurrence, theorem complexity.Expression) (complexity.Expression, bool) {
	v := rec.Variable
	values := make([]float64, 0, len(samplePoints))
	for _, n := range samplePoints {
		val, ok := complexity.Evaluate(rec, complexity.Assignment{v: n})
		if !ok || math.IsInf(val, 1) || val <= 0 {
			return theorem, false
		}
		values = append(values, val)
	}

	exponent := estimateExponent(values, samplePoints)
	hasLogFactor := correlatesWithLog(values, samplePoints)

	logExp := 0
	if hasLogFactor {
		logExp = 1
	}
	fitted := complexity.NewPolyLog(exponent, logExp, v)

	if complexity.Dominates(theorem, fitted) || sameAsymptoticButSimpler(theorem, fitted) {
		return fitted, true
	}
	return theorem, false
}

// estimateExponent computes (log vᵢ₊₁ - log vᵢ) / (log nᵢ₊₁ - log nᵢ)
// averaged across consecutive sample pairs (spec §4.5.4).
func estimateExponent(values, ns []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	count := 0
	for i := 0; i+1 < len(values); i++ {
		dn := math.Log(ns[i+1]) - math.Log(ns[i])
		if dn == 0 {
			continue
		}
		dv := math.Log(values[i+1]) - math.Log(values[i])
		sum += dv / dn
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// correlatesWithLog detects whether the residual after removing the
// estimated polynomial trend still correlates with log n, a signal of
// an un-modeled log factor (spec §4.5.4).
func correlatesWithLog(values, ns []float64) bool {
	exponent := estimateExponent(values, ns)
	residuals := make([]float64, len(values))
	logNs := make([]float64, len(values))
	for i := range values {
		trend := math.Pow(ns[i], exponent)
		if trend <= 0 {
			return false
		}
		residuals[i] = values[i] / trend
		logNs[i] = math.Log(ns[i])
	}
	return pearsonCorrelation(residuals, logNs) > 0.9
}

func pearsonCorrelation(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n == 0 {
		return 0
	}
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
		sumY2 += ys[i] * ys[i]
	}
	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// sameAsymptoticButSimpler reports whether theorem and fitted normalize
// to structurally equal expressions. A shared growth class alone is not
// enough, and neither constants nor shape complexity are compared.
func sameAsymptoticButSimpler(theorem, fitted complexity.Expression) bool {
	return complexity.Equal(complexity.Normalize(theorem), complexity.Normalize(fitted))
}

// verifyByInduction runs the three induction-verification checks (spec
// §4.5.4): base cases within two orders of magnitude, inductive-step
// ratios bounded across {2^i}, and an asymptotic-step trend that does
// not contradict the claimed bound.
func verifyByInduction(rec complexity.Recurrence, solution complexity.Expression) (bool, []string) {
	var warnings []string
	v := rec.Variable

	baseOK := true
	for n := 1.0; n <= 5; n++ {
		actual, ok1 := complexity.Evaluate(rec, complexity.Assignment{v: n})
		predicted, ok2 := complexity.Evaluate(solution, complexity.Assignment{v: n})
		if !ok1 || !ok2 || predicted <= 0 || actual <= 0 {
			continue
		}
		ratio := actual / predicted
		if ratio > 100 || ratio < 0.01 {
			baseOK = false
		}
	}
	if !baseOK {
		warnings = append(warnings, "induction verification: base-case ratio out of bounds")
	}

	inductiveOK := true
	var lastRatio float64
	haveLast := false
	for _, n := range inductionSamplePoints {
		actual, ok1 := complexity.Evaluate(rec, complexity.Assignment{v: n})
		predicted, ok2 := complexity.Evaluate(solution, complexity.Assignment{v: n})
		if !ok1 || !ok2 || predicted <= 0 {
			continue
		}
		ratio := actual / predicted
		if ratio > 1000 || ratio < 0.001 {
			inductiveOK = false
		}
		lastRatio, haveLast = ratio, true
	}
	if !inductiveOK {
		warnings = append(warnings, "induction verification: inductive-step ratio out of bounds")
	}

	asymptoticOK := true
	if haveLast {
		var trendRatios []float64
		for _, n := range []float64{1e4, 1e5, 1e6} {
			actual, ok1 := complexity.Evaluate(rec, complexity.Assignment{v: n})
			predicted, ok2 := complexity.Evaluate(solution, complexity.Assignment{v: n})
			if !ok1 || !ok2 || predicted <= 0 {
				continue
			}
			trendRatios = append(trendRatios, actual/predicted)
		}
		if len(trendRatios) >= 2 {
			first, last := trendRatios[0], trendRatios[len(trendRatios)-1]
			if last > first*10 {
				asymptoticOK = false
				warnings = append(warnings, "induction verification: asymptotic ratio trend is growing")
			}
		}
	}

	return baseOK && inductiveOK && asymptoticOK, warnings
}

// scoreConfidence assembles the five named factors and computes the
// weighted geometric mean (spec §4.5.4 "Confidence").
func scoreConfidence(app Applicability, boundary, verified, tightened bool) ConfidenceAssessment {
	sourceScore := sourceFactorScore(app)
	theoremScore := 1.0
	if boundary {
		theoremScore = 0.7
	}
	verificationScore := 0.5
	if verified {
		verificationScore = 1.0
	}
	stabilityScore := 1.0
	if tightened {
		stabilityScore = 0.85 // slack optimization overrode the theorem form; flag slightly lower stability
	}
	simplicityScore := expressionSimplicityScore(app.Expression())

	factors := []ConfidenceFactor{
		{Name: "analysis-source", Score: sourceScore, Weight: WeightSource},
		{Name: "verification", Score: verificationScore, Weight: WeightVerification},
		{Name: "theorem-applicability", Score: theoremScore, Weight: WeightTheoremApplicable},
		{Name: "numerical-stability", Score: stabilityScore, Weight: WeightNumericalStability},
		{Name: "expression-simplicity", Score: simplicityScore, Weight: WeightExpressionSimple},
	}

	var warnings []string
	recommendation := "result is trustworthy as-is"
	if boundary {
		warnings = append(warnings, "recurrence sits near a theorem case boundary")
	}
	if !verified {
		warnings = append(warnings, "induction verification did not fully confirm the closed form")
		recommendation = "manual review recommended near this boundary"
	}

	return ComputeConfidence(factors, warnings, recommendation)
}

func sourceFactorScore(app Applicability) float64 {
	switch {
	case app.Master != nil:
		return 1.0
	case app.AkraBazzi != nil:
		return 0.9
	case app.Linear != nil:
		return 0.85
	default:
		return 0.2
	}
}

func expressionSimplicityScore(e complexity.Expression) float64 {
	if e == nil {
		return 0
	}
	depth := expressionDepth(e)
	// A shallow expression (few combinators) scores close to 1; depth
	// beyond ~4 asymptotically approaches a floor rather than 0 so a
	// single reasonably complex result never collapses the whole score.
	score := 1.0 / (1.0 + float64(depth)*0.15)
	if score < 0.3 {
		score = 0.3
	}
	return score
}

func expressionDepth(e complexity.Expression) int {
	switch n := e.(type) {
	case complexity.Binary:
		l, r := expressionDepth(n.Left), expressionDepth(n.Right)
		if l > r {
			return 1 + l
		}
		return 1 + r
	case complexity.Conditional:
		t, el := expressionDepth(n.Then), expressionDepth(n.Else)
		if t > el {
			return 1 + t
		}
		return 1 + el
	case complexity.Power:
		return 1 + expressionDepth(n.BaseExpr)
	case complexity.LogOf:
		return 1 + expressionDepth(n.Expr)
	case complexity.ExpOf:
		return 1 + expressionDepth(n.Expr)
	case complexity.FactorialOf:
		return 1 + expressionDepth(n.Expr)
	default:
		return 0
	}
}
