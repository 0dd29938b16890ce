package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func n() Variable { return Variable{Name: "n", Role: RoleInputSize} }
func m() Variable { return Variable{Name: "m", Role: RoleSecondarySize} }

func TestNormalizeIdempotent(t *testing.T) {
	exprs := []Expression{
		Add(NewVar(n()), NewConst(0)),
		Mul(NewConst(1), NewVar(n())),
		Add(NewVar(n()), Add(NewVar(n()), NewConst(3))),
		Max(NewLinear(2, n()), NewPoly(n(), map[int]float64{2: 1})),
		Mul(NewVar(n()), NewVar(n())),
		Add(NewPoly(n(), map[int]float64{2: 1, 0: 5}), NewLinear(3, n())),
		NewConditional("data-dependent", NewVar(n()), NewLog(1, n(), 2)),
	}
	for _, e := range exprs {
		once := Normalize(e)
		twice := Normalize(once)
		assert.True(t, Equal(once, twice), "normalize should be idempotent for %#v -> %s vs %s", e, ToBigO(once), ToBigO(twice))
	}
}

func TestNormalizeIdentities(t *testing.T) {
	assert.True(t, Equal(Normalize(Add(NewVar(n()), NewConst(0))), Var{V: n()}))
	assert.True(t, Equal(Normalize(Mul(NewVar(n()), NewConst(1))), Var{V: n()}))
	assert.True(t, Equal(Normalize(Mul(NewVar(n()), NewConst(0))), Const{K: 0}))
	assert.True(t, Equal(Normalize(Max(NewVar(n()), NewVar(n()))), Var{V: n()}))
	assert.True(t, Equal(Normalize(Min(NewVar(n()), NewVar(n()))), Var{V: n()}))
}

func TestNormalizeDominance(t *testing.T) {
	// n^2 dominates n, so n + n^2 normalizes to just n^2.
	sum := Add(NewVar(n()), NewPoly(n(), map[int]float64{2: 1}))
	got := Normalize(sum)
	assert.Equal(t, "O(n^2)", ToBigO(got))
}

func TestNormalizeIncomparableKept(t *testing.T) {
	// Linear(n) + Linear(m) with both variables in a primary role:
	// neither dominates (different variables, same category, same
	// role), so both are retained. A SecondarySize m would lose the
	// tie to n instead.
	mPrimary := Variable{Name: "m", Role: RoleInputSize}
	sum := Add(NewVar(n()), NewVar(mPrimary))
	got := Normalize(sum)
	fv := FreeVariables(got)
	assert.True(t, fv.Contains(n()))
	assert.True(t, fv.Contains(mPrimary))
}

func TestFreeVariablesSubstitutionLaw(t *testing.T) {
	e := Add(NewVar(n()), NewLinear(2, m()))
	replacement := NewPoly(m(), map[int]float64{2: 1})
	substituted := Substitute(e, n(), replacement)

	want := NewVarSet()
	orig := FreeVariables(e)
	for _, v := range orig.Slice() {
		if v != n() {
			want.Add(v)
		}
	}
	want.AddAll(FreeVariables(replacement))

	got := FreeVariables(substituted)
	assert.ElementsMatch(t, want.Slice(), got.Slice())
}

func TestFreeVariablesRecurrenceBindsOwnVariable(t *testing.T) {
	rec := Recurrence{
		Terms: []RecurrenceTerm{{Coefficient: 2, SubproblemWork: NewConst(1), ScaleFactor: 0.5}},
		Variable: n(),
		NonRecursiveWork: NewVar(n()),
		Base: NewConst(1),
	}
	fv := FreeVariables(rec)
	assert.False(t, fv.Contains(n()))
}

func TestToBigOStableUnderNormalize(t *testing.T) {
	e := Add(NewVar(n()), NewConst(0))
	assert.Equal(t, ToBigO(e), ToBigO(Normalize(e)))
}

func TestEvaluateAgreesAfterNormalize(t *testing.T) {
	e := Add(NewLinear(2, n()), NewLinear(3, n()))
	a := Assignment{n(): 10}
	before, ok1 := Evaluate(e, a)
	after, ok2 := Evaluate(Normalize(e), a)
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.InDelta(t, before, after, 1e-6)
}

func TestPolyLogCombination(t *testing.T) {
	// n * log(n) should combine to PolyLog(1, 1, n) and render "n log n".
	e := Mul(NewVar(n()), NewLog(1, n(), 2))
	got := Normalize(e)
	assert.Equal(t, "O(n log n)", ToBigO(got))
}

func TestFactorialDominatesExpDominatesPoly(t *testing.T) {
	assert.True(t, Dominates(NewFactorial(n(), 1), NewExp(2, n(), 1)))
	assert.True(t, Dominates(NewExp(2, n(), 1), NewPoly(n(), map[int]float64{5: 1})))
	assert.True(t, Dominates(NewPoly(n(), map[int]float64{2: 1}), NewVar(n())))
	assert.True(t, Dominates(NewVar(n()), NewLog(1, n(), 2)))
}
