package complexity

import "math"

// Assignment maps a Variable to a concrete non-negative value for
// numerical evaluation.
type Assignment map[Variable]float64

// Evaluate numerically evaluates e under assignment (spec §4.1).
// The second return value is false if any required variable's value was
// not supplied. max/min use real comparison; Exp and Factorial use
// natural arithmetic with overflow saturating to +Inf rather than
// panicking or wrapping.
func Evaluate(e Expression, assignment Assignment) (float64, bool) {
	if e == nil {
		return 0, false
	}
	switch n := e.(type) {
	case Const:
		return n.K, true
	case Var:
		val, ok := assignment[n.V]
		return val, ok
	case Linear:
		val, ok := assignment[n.V]
		if !ok {
			return 0, false
		}
		return n.C * val, true
	case Poly:
		val, ok := assignment[n.V]
		if !ok {
			return 0, false
		}
		sum := 0.0
		for degree, coef := range n.Terms {
			sum += coef * math.Pow(val, float64(degree))
		}
		return sum, true
	case Log:
		val, ok := assignment[n.V]
		if !ok {
			return 0, false
		}
		return n.C * logBase(val, n.Base), true
	case PolyLog:
		val, ok := assignment[n.V]
		if !ok {
			return 0, false
		}
		base := math.Pow(val, n.K)
		if n.J == 0 {
			return base, true
		}
		return base * math.Pow(logBase(val, 2), float64(n.J)), true
	case Exp:
		val, ok := assignment[n.V]
		if !ok {
			return 0, false
		}
		return saturate(n.Coef * math.Pow(n.Base, val)), true
	case Factorial:
		val, ok := assignment[n.V]
		if !ok {
			return 0, false
		}
		f, err := factorial(val)
		if err != nil {
			return math.Inf(1), true
		}
		return saturate(n.Coef * f), true
	case Power:
		base, ok := Evaluate(n.BaseExpr, assignment)
		if !ok {
			return 0, false
		}
		return saturate(math.Pow(base, n.Exponent)), true
	case LogOf:
		val, ok := Evaluate(n.Expr, assignment)
		if !ok {
			return 0, false
		}
		return logBase(val, n.Base), true
	case ExpOf:
		val, ok := Evaluate(n.Expr, assignment)
		if !ok {
			return 0, false
		}
		return saturate(math.Pow(n.Base, val)), true
	case FactorialOf:
		val, ok := Evaluate(n.Expr, assignment)
		if !ok {
			return 0, false
		}
		f, err := factorial(val)
		if err != nil {
			return math.Inf(1), true
		}
		return saturate(f), true
	case Binary:
		l, ok1 := Evaluate(n.Left, assignment)
		r, ok2 := Evaluate(n.Right, assignment)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch n.Op {
		case OpAdd:
			return l + r, true
		case OpMul:
			return l * r, true
		case OpMax:
			return math.Max(l, r), true
		case OpMin:
			return math.Min(l, r), true
		}
		return 0, false
	case Conditional:
		// Conservative: evaluate to the worse (larger) of the two
		// branches, consistent with the extractor composing branches as
		// max(cost(A), cost(B)).
		t, ok1 := Evaluate(n.Then, assignment)
		e2, ok2 := Evaluate(n.Else, assignment)
		if !ok1 || !ok2 {
			return 0, false
		}
		return math.Max(t, e2), true
	case Recurrence:
		return evaluateRecurrenceUnrolled(n, assignment, 0)
	case Amortized:
		return Evaluate(n.Worst, assignment)
	case Parallel:
		return Evaluate(n.Work, assignment)
	case Memory:
		return Evaluate(n.Total, assignment)
	case Probabilistic:
		return Evaluate(n.Worst, assignment)
	}
	return 0, false
}

// logBase computes log_base(x), returning 0 for x <= 1 since asymptotic
// log terms are conventionally floored at the origin.
func logBase(x, base float64) float64 {
	if x <= 1 {
		return 0
	}
	if base <= 1 {
		base = 2
	}
	return math.Log(x) / math.Log(base)
}

func saturate(x float64) float64 {
	if math.IsNaN(x) {
		return math.Inf(1)
	}
	return x
}

func factorial(n float64) (float64, error) {
	if n < 0 {
		return 0, errNegativeFactorial
	}
	if n > 170 {
		return math.Inf(1), nil
	}
	result := 1.0
	for i := 2.0; i <= math.Floor(n); i++ {
		result *= i
	}
	return result, nil
}

var errNegativeFactorial = errNegFactorial{}

type errNegFactorial struct{}

func (errNegFactorial) Error() string { return "factorial of negative value" }

// evaluateRecurrenceUnrolled evaluates an unsolved Recurrence by direct
// unrolling, used as a fallback (e.g. by the refinement pipeline's
// slack-optimization numeric sampling) when a recurrence reaches
// Evaluate before the solver has produced a closed form. depth guards
// against runaway recursion on pathological inputs.
func evaluateRecurrenceUnrolled(r Recurrence, assignment Assignment, depth int) (float64, bool) {
	const maxDepth = 64
	val, ok := assignment[r.Variable]
	if !ok {
		return 0, false
	}
	if val <= 1 || depth > maxDepth {
		if r.Base != nil {
			return Evaluate(r.Base, assignment)
		}
		return 1, true
	}
	work, ok := Evaluate(r.NonRecursiveWork, assignment)
	if !ok {
		work = 0
	}
	total := work
	for _, t := range r.Terms {
		sub := val * t.ScaleFactor
		if t.IsSubtractForm() {
			sub = val - 1
		}
		subAssignment := Assignment{r.Variable: sub}
		for k, v := range assignment {
			if _, exists := subAssignment[k]; !exists {
				subAssignment[k] = v
			}
		}
		subVal, ok := evaluateRecurrenceUnrolled(Recurrence{
			Terms: r.Terms, Variable: r.Variable, NonRecursiveWork: r.NonRecursiveWork, Base: r.Base,
		}, subAssignment, depth+1)
		if !ok {
			continue
		}
		total += t.Coefficient * subVal
	}
	return total, true
}
