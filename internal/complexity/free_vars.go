package complexity

// FreeVariables computes the set of variables referenced by e that are
// not bound (spec §3 invariant (d): Recurrence binds its own variable,
// excluding it from the result; everything mentioned in the recurrence's
// terms or non-recursive work other than the bound variable itself
// remains free, e.g. a secondary variable captured from an enclosing
// scope).
func FreeVariables(e Expression) *VarSet {
	s := NewVarSet()
	collectFreeVars(e, s)
	return s
}

func collectFreeVars(e Expression, s *VarSet) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case Const:
		// no variables
	case Var:
		s.Add(n.V)
	case Linear:
		s.Add(n.V)
	case Poly:
		s.Add(n.V)
	case Log:
		s.Add(n.V)
	case PolyLog:
		s.Add(n.V)
	case Exp:
		s.Add(n.V)
	case Factorial:
		s.Add(n.V)
	case Power:
		collectFreeVars(n.BaseExpr, s)
	case LogOf:
		collectFreeVars(n.Expr, s)
	case ExpOf:
		collectFreeVars(n.Expr, s)
	case FactorialOf:
		collectFreeVars(n.Expr, s)
	case Binary:
		collectFreeVars(n.Left, s)
		collectFreeVars(n.Right, s)
	case Conditional:
		collectFreeVars(n.Then, s)
		collectFreeVars(n.Else, s)
	case Recurrence:
		inner := NewVarSet()
		for _, t := range n.Terms {
			collectFreeVars(t.SubproblemWork, inner)
		}
		collectFreeVars(n.NonRecursiveWork, inner)
		collectFreeVars(n.Base, inner)
		inner.Remove(n.Variable)
		s.AddAll(inner)
	case Amortized:
		collectFreeVars(n.AmortizedExpr, s)
		collectFreeVars(n.Worst, s)
	case Parallel:
		collectFreeVars(n.Work, s)
		collectFreeVars(n.Span, s)
	case Memory:
		collectFreeVars(n.Total, s)
		collectFreeVars(n.Stack, s)
		collectFreeVars(n.Heap, s)
		collectFreeVars(n.Auxiliary, s)
		for _, a := range n.Allocations {
			collectFreeVars(a.Size, s)
			collectFreeVars(a.Iterations, s)
		}
	case Probabilistic:
		collectFreeVars(n.Expected, s)
		collectFreeVars(n.Worst, s)
	}
}
