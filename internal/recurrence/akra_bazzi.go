package recurrence

import (
	"fmt"

	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/recurrence/akrabazzi"
)

// trySolveAkraBazzi attempts the Akra-Bazzi dispatch (spec §4.5.2),
// applicable whenever every term fits (aᵢ>0, bᵢ in (0,1)) — a strictly
// broader condition than Master's single-term requirement, so this
// stage runs whenever Master reports a gap or does not apply.
func trySolveAkraBazzi(rec complexity.Recurrence) (*AkraBazziApplicable, *NotApplicable) {
	if len(rec.Terms) == 0 {
		return nil, &NotApplicable{Reason: "recurrence has no terms"}
	}
	terms := make([]akrabazzi.Term, 0, len(rec.Terms))
	for _, t := range rec.Terms {
		if !t.FitsAkraBazzi() {
			return nil, &NotApplicable{
				Reason:      "a recurrence term does not fit Akra-Bazzi (needs aᵢ>0, bᵢ in (0,1))",
				Suggestions: []string{"check for a subtract-form term better handled by the linear solver"},
			}
		}
		terms = append(terms, akrabazzi.Term{A: t.Coefficient, B: t.ScaleFactor})
	}

	p, converged := akrabazzi.CriticalExponent(terms)
	if !converged {
		return nil, &NotApplicable{
			Reason:      "critical-exponent root-finding did not converge",
			Suggestions: []string{"verify term coefficients/scale factors are well-formed"},
		}
	}

	shape, ok := classifyDrivingFunction(rec.NonRecursiveWork)
	if !ok {
		return nil, &NotApplicable{
			Reason:      "driving function g(n) is not polynomially/logarithmically classifiable",
			Suggestions: []string{"express g(n) as a single-variable polynomial-log expression"},
		}
	}

	integral := akrabazzi.ClassifyDrivingIntegral(shape.Degree, shape.LogExp, p)
	v := rec.Variable
	solution := assembleAkraBazziSolution(p, integral, v)

	return &AkraBazziApplicable{
		P:        p,
		Terms:    rec.Terms,
		Integral: describeIntegral(integral),
		Solution: solution,
	}, nil
}

// assembleAkraBazziSolution builds T(n) = Θ(n^p * (1 + I(n))) (spec
// §4.5.2 step 3), folding the (1 + I(n)) factor into the exponent/log
// structure the algebra can normalize.
func assembleAkraBazziSolution(p float64, integral akrabazzi.DrivingIntegral, v complexity.Variable) complexity.Expression {
	switch integral.Kind {
	case akrabazzi.IntegralConst:
		return complexity.NewPolyLog(p, 0, v)
	case akrabazzi.IntegralLogN:
		return complexity.NewPolyLog(p, 1, v)
	case akrabazzi.IntegralLogPowerN:
		return complexity.NewPolyLog(p, integral.LogExp, v)
	case akrabazzi.IntegralNPower:
		return complexity.NewPolyLog(p+integral.Exponent, 0, v)
	default: // IntegralNPowerLogPower
		return complexity.NewPolyLog(p+integral.Exponent, integral.LogExp, v)
	}
}

func describeIntegral(integral akrabazzi.DrivingIntegral) string {
	switch integral.Kind {
	case akrabazzi.IntegralConst:
		return "Θ(1)"
	case akrabazzi.IntegralLogN:
		return "Θ(log n)"
	case akrabazzi.IntegralLogPowerN:
		return fmt.Sprintf("Θ(log^%d n)", integral.LogExp)
	case akrabazzi.IntegralNPower:
		return fmt.Sprintf("Θ(n^%.4g)", integral.Exponent)
	default:
		return fmt.Sprintf("Θ(n^%.4g · log^%d n)", integral.Exponent, integral.LogExp)
	}
}
