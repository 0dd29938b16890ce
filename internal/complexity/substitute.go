package complexity

// Substitute replaces every free occurrence of v in e with replacement
// and returns a fresh expression (spec §4.1). Capture-avoidance is
// trivial here because the only binder in the algebra is Recurrence's
// own variable, and a recurrence is never itself the replacement target
// inside its own scope during extraction.
func Substitute(e Expression, v Variable, replacement Expression) Expression {
	if e == nil {
		return e
	}
	switch n := e.(type) {
	case Const:
		return n
	case Var:
		if n.V.Equal(v) {
			return replacement
		}
		return n
	case Linear:
		if n.V.Equal(v) {
			return Mul(NewConst(n.C), replacement)
		}
		return n
	case Poly:
		if n.V.Equal(v) {
			return substitutePolyVar(n, replacement)
		}
		return n
	case Log:
		if n.V.Equal(v) {
			logged := NewLogOf(replacement, n.Base)
			if n.C == 1 {
				return logged
			}
			return Mul(NewConst(n.C), logged)
		}
		return n
	case PolyLog:
		if n.V.Equal(v) {
			return substitutePolyLogVar(n, replacement)
		}
		return n
	case Exp:
		if n.V.Equal(v) {
			exped := NewExpOf(n.Base, replacement)
			if n.Coef == 1 {
				return exped
			}
			return Mul(NewConst(n.Coef), exped)
		}
		return n
	case Factorial:
		if n.V.Equal(v) {
			facted := NewFactorialOf(replacement)
			if n.Coef == 1 {
				return facted
			}
			return Mul(NewConst(n.Coef), facted)
		}
		return n
	case Power:
		return Power{BaseExpr: Substitute(n.BaseExpr, v, replacement), Exponent: n.Exponent}
	case LogOf:
		return LogOf{Expr: Substitute(n.Expr, v, replacement), Base: n.Base}
	case ExpOf:
		return ExpOf{Base: n.Base, Expr: Substitute(n.Expr, v, replacement)}
	case FactorialOf:
		return FactorialOf{Expr: Substitute(n.Expr, v, replacement)}
	case Binary:
		return Binary{Left: Substitute(n.Left, v, replacement), Op: n.Op, Right: Substitute(n.Right, v, replacement)}
	case Conditional:
		return Conditional{
			Description: n.Description,
			Then:        Substitute(n.Then, v, replacement),
			Else:        Substitute(n.Else, v, replacement),
		}
	case Recurrence:
		if n.Variable.Equal(v) {
			// v is bound here; substitution does not reach inside.
			return n
		}
		terms := make([]RecurrenceTerm, len(n.Terms))
		for i, t := range n.Terms {
			terms[i] = RecurrenceTerm{
				Coefficient:    t.Coefficient,
				SubproblemWork: Substitute(t.SubproblemWork, v, replacement),
				ScaleFactor:    t.ScaleFactor,
				SubtractOffset: t.SubtractOffset,
			}
		}
		return Recurrence{
			Terms:            terms,
			Variable:         n.Variable,
			NonRecursiveWork: Substitute(n.NonRecursiveWork, v, replacement),
			Base:             Substitute(n.Base, v, replacement),
		}
	case Amortized:
		return Amortized{AmortizedExpr: Substitute(n.AmortizedExpr, v, replacement), Worst: Substitute(n.Worst, v, replacement)}
	case Parallel:
		return Parallel{
			Work: Substitute(n.Work, v, replacement), Span: Substitute(n.Span, v, replacement),
			PatternTag: n.PatternTag, IsTaskBased: n.IsTaskBased, HasSync: n.HasSync,
		}
	case Memory:
		allocs := make([]Allocation, len(n.Allocations))
		for i, a := range n.Allocations {
			allocs[i] = Allocation{Size: Substitute(a.Size, v, replacement), Iterations: Substitute(a.Iterations, v, replacement)}
		}
		return Memory{
			Total: Substitute(n.Total, v, replacement), Stack: Substitute(n.Stack, v, replacement),
			Heap: Substitute(n.Heap, v, replacement), Auxiliary: Substitute(n.Auxiliary, v, replacement),
			InPlace: n.InPlace, TailRecursive: n.TailRecursive, Allocations: allocs,
		}
	case Probabilistic:
		return Probabilistic{
			Expected: Substitute(n.Expected, v, replacement), Worst: Substitute(n.Worst, v, replacement),
			SourceTag: n.SourceTag, Distribution: n.Distribution, Assumptions: n.Assumptions,
		}
	}
	return e
}

func substitutePolyVar(n Poly, replacement Expression) Expression {
	var acc Expression = NewConst(0)
	for degree, coef := range n.Terms {
		var term Expression
		switch degree {
		case 0:
			term = NewConst(coef)
		case 1:
			term = Mul(NewConst(coef), replacement)
		default:
			term = Mul(NewConst(coef), NewPower(replacement, float64(degree)))
		}
		acc = Add(acc, term)
	}
	return acc
}

func substitutePolyLogVar(n PolyLog, replacement Expression) Expression {
	var powerPart Expression
	if n.K == 0 {
		powerPart = NewConst(1)
	} else {
		powerPart = NewPower(replacement, n.K)
	}
	if n.J == 0 {
		return powerPart
	}
	logPart := NewLogOf(replacement, 2)
	acc := logPart
	for i := 1; i < n.J; i++ {
		acc = Mul(acc, logPart)
	}
	return Mul(powerPart, acc)
}
