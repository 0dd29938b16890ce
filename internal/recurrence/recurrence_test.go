package recurrence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kanso-complexity/complexity/internal/complexity"
)

func nVar() complexity.Variable { return complexity.Variable{Name: "n", Role: complexity.RoleInputSize} }

func TestMergeSortCase2(t *testing.T) {
	v := nVar()
	rec := complexity.Recurrence{
		Terms:            []complexity.RecurrenceTerm{{Coefficient: 2, SubproblemWork: complexity.NewConst(0), ScaleFactor: 0.5}},
		Variable:         v,
		NonRecursiveWork: complexity.NewVar(v),
	}
	app := Analyze(rec)
	assert.NotNil(t, app.Master)
	assert.Equal(t, Case2, app.Master.MasterCase)
	assert.Equal(t, "O(n log n)", complexity.ToBigO(app.Expression()))
}

func TestKaratsubaCase1(t *testing.T) {
	v := nVar()
	rec := complexity.Recurrence{
		Terms:            []complexity.RecurrenceTerm{{Coefficient: 3, ScaleFactor: 0.5}},
		Variable:         v,
		NonRecursiveWork: complexity.NewVar(v),
	}
	app := Analyze(rec)
	assert.NotNil(t, app.Master)
	assert.Equal(t, Case1, app.Master.MasterCase)
	assert.InDelta(t, math.Log2(3), app.Master.LogBA, 1e-9)
}

func TestStrassenCase1(t *testing.T) {
	v := nVar()
	rec := complexity.Recurrence{
		Terms:            []complexity.RecurrenceTerm{{Coefficient: 7, ScaleFactor: 0.5}},
		Variable:         v,
		NonRecursiveWork: complexity.NewPoly(v, map[int]float64{2: 1}),
	}
	app := Analyze(rec)
	assert.NotNil(t, app.Master)
	assert.Equal(t, Case1, app.Master.MasterCase)
	assert.InDelta(t, math.Log2(7), app.Master.LogBA, 1e-9)
}

func TestAkraBazziThirdsRecurrence(t *testing.T) {
	v := nVar()
	rec := complexity.Recurrence{
		Terms: []complexity.RecurrenceTerm{
			{Coefficient: 1, ScaleFactor: 1.0 / 3.0},
			{Coefficient: 1, ScaleFactor: 2.0 / 3.0},
		},
		Variable:         v,
		NonRecursiveWork: complexity.NewVar(v),
	}
	app := Analyze(rec)
	assert.NotNil(t, app.AkraBazzi)
	assert.InDelta(t, 1.0, app.AkraBazzi.P, 1e-6)
	assert.Equal(t, "O(n log n)", complexity.ToBigO(app.Expression()))
}

func TestFibonacciGoldenRatio(t *testing.T) {
	v := nVar()
	rec := complexity.Recurrence{
		Terms: []complexity.RecurrenceTerm{
			{Coefficient: 1, ScaleFactor: 1.0},
			{Coefficient: 1, ScaleFactor: 1.0},
		},
		Variable:         v,
		NonRecursiveWork: complexity.NewConst(1),
	}
	app := Analyze(rec)
	assert.NotNil(t, app.Linear)
	magnitude, _ := func() (float64, int) {
		best := 0.0
		mult := 0
		for _, r := range app.Linear.Roots {
			m := math.Hypot(r.Real, r.Imag)
			if m > best {
				best = m
				mult = r.Multiplicity
			}
		}
		return best, mult
	}()
	phi := (1 + math.Sqrt(5)) / 2
	assert.InDelta(t, phi, magnitude, 1e-6)
}

func TestRepeatedRootAtOneIsLinear(t *testing.T) {
	v := nVar()
	rec := complexity.Recurrence{
		Terms: []complexity.RecurrenceTerm{
			{Coefficient: 2, ScaleFactor: 1.0},
			{Coefficient: -1, ScaleFactor: 1.0},
		},
		Variable:         v,
		NonRecursiveWork: complexity.NewConst(1),
	}
	app := Analyze(rec)
	assert.NotNil(t, app.Linear)
	assert.Equal(t, "O(n)", complexity.ToBigO(app.Expression()))
}

func TestAkraBazziCriticalExponentResidual(t *testing.T) {
	v := nVar()
	rec := complexity.Recurrence{
		Terms: []complexity.RecurrenceTerm{
			{Coefficient: 1, ScaleFactor: 1.0 / 3.0},
			{Coefficient: 1, ScaleFactor: 2.0 / 3.0},
		},
		Variable:         v,
		NonRecursiveWork: complexity.NewVar(v),
	}
	app := Analyze(rec)
	p := app.AkraBazzi.P
	residual := 0.0
	for _, term := range rec.Terms {
		residual += term.Coefficient * math.Pow(term.ScaleFactor, p)
	}
	assert.InDelta(t, 1.0, residual, 1e-8)
}

func TestValidationRejectsEmptyTerms(t *testing.T) {
	app := Analyze(complexity.Recurrence{Variable: nVar()})
	assert.NotNil(t, app.Not)
}

func TestValidationRejectsScaleFactorAtOrAboveOneOutsideSubtractForm(t *testing.T) {
	app := Analyze(complexity.Recurrence{
		Terms:    []complexity.RecurrenceTerm{{Coefficient: 1, ScaleFactor: 1.5}},
		Variable: nVar(),
	})
	assert.NotNil(t, app.Not)
}

func TestConfidenceMonotonicityOnSourceFactor(t *testing.T) {
	base := []ConfidenceFactor{
		{Name: "analysis-source", Score: 0.2, Weight: WeightSource},
		{Name: "verification", Score: 0.8, Weight: WeightVerification},
		{Name: "theorem-applicability", Score: 0.8, Weight: WeightTheoremApplicable},
		{Name: "numerical-stability", Score: 0.8, Weight: WeightNumericalStability},
		{Name: "expression-simplicity", Score: 0.8, Weight: WeightExpressionSimple},
	}
	lower := ComputeConfidence(base, nil, "")

	raised := append([]ConfidenceFactor(nil), base...)
	raised[0] = ConfidenceFactor{Name: "analysis-source", Score: 1.0, Weight: WeightSource}
	higher := ComputeConfidence(raised, nil, "")

	assert.True(t, higher.Overall > lower.Overall)
}

func TestRefineUnsolvedProducesVeryLowConfidencePlaceholder(t *testing.T) {
	app := Applicability{Not: &NotApplicable{Reason: "test gap"}}
	refined := Refine(complexity.Recurrence{Variable: nVar()}, app)
	assert.Equal(t, VeryLow, refined.Confidence.Level)
	assert.NotNil(t, refined.Expression)
}

func TestRefineMergeSortStaysHighConfidence(t *testing.T) {
	v := nVar()
	rec := complexity.Recurrence{
		Terms:            []complexity.RecurrenceTerm{{Coefficient: 2, ScaleFactor: 0.5}},
		Variable:         v,
		NonRecursiveWork: complexity.NewVar(v),
	}
	app := Analyze(rec)
	refined := Refine(rec, app)
	assert.False(t, refined.Boundary && refined.Confidence.Level == VeryLow)
	assert.True(t, refined.Confidence.Level >= High)
	assert.Equal(t, "O(n log n)", complexity.ToBigO(refined.Expression))
}
