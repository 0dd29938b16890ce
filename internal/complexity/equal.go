package complexity

import "math"

const floatTol = 1e-9

func floatEq(a, b float64) bool { return math.Abs(a-b) < floatTol }

// Equal reports structural equality between two expressions. It does
// not itself apply normalization; callers generally want
// Equal(Normalize(a), Normalize(b)) for an asymptotic comparison.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Const:
		return floatEq(x.K, b.(Const).K)
	case Var:
		return x.V.Equal(b.(Var).V)
	case Linear:
		y := b.(Linear)
		return floatEq(x.C, y.C) && x.V.Equal(y.V)
	case Poly:
		y := b.(Poly)
		if !x.V.Equal(y.V) || len(x.Terms) != len(y.Terms) {
			return false
		}
		for d, c := range x.Terms {
			c2, ok := y.Terms[d]
			if !ok || !floatEq(c, c2) {
				return false
			}
		}
		return true
	case Log:
		y := b.(Log)
		return floatEq(x.C, y.C) && x.V.Equal(y.V) && floatEq(x.Base, y.Base)
	case PolyLog:
		y := b.(PolyLog)
		return floatEq(x.K, y.K) && x.J == y.J && x.V.Equal(y.V)
	case Exp:
		y := b.(Exp)
		return floatEq(x.Base, y.Base) && x.V.Equal(y.V) && floatEq(x.Coef, y.Coef)
	case Factorial:
		y := b.(Factorial)
		return x.V.Equal(y.V) && floatEq(x.Coef, y.Coef)
	case Power:
		y := b.(Power)
		return Equal(x.BaseExpr, y.BaseExpr) && floatEq(x.Exponent, y.Exponent)
	case LogOf:
		y := b.(LogOf)
		return Equal(x.Expr, y.Expr) && floatEq(x.Base, y.Base)
	case ExpOf:
		y := b.(ExpOf)
		return floatEq(x.Base, y.Base) && Equal(x.Expr, y.Expr)
	case FactorialOf:
		return Equal(x.Expr, b.(FactorialOf).Expr)
	case Binary:
		y := b.(Binary)
		return x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case Conditional:
		y := b.(Conditional)
		return x.Description == y.Description && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	case Recurrence:
		y := b.(Recurrence)
		if !x.Variable.Equal(y.Variable) || len(x.Terms) != len(y.Terms) {
			return false
		}
		for i := range x.Terms {
			if !floatEq(x.Terms[i].Coefficient, y.Terms[i].Coefficient) ||
				!floatEq(x.Terms[i].ScaleFactor, y.Terms[i].ScaleFactor) ||
				x.Terms[i].SubtractOffset != y.Terms[i].SubtractOffset ||
				!Equal(x.Terms[i].SubproblemWork, y.Terms[i].SubproblemWork) {
				return false
			}
		}
		return Equal(x.NonRecursiveWork, y.NonRecursiveWork) && Equal(x.Base, y.Base)
	case Amortized:
		y := b.(Amortized)
		return Equal(x.AmortizedExpr, y.AmortizedExpr) && Equal(x.Worst, y.Worst)
	case Parallel:
		y := b.(Parallel)
		return Equal(x.Work, y.Work) && Equal(x.Span, y.Span) && x.PatternTag == y.PatternTag &&
			x.IsTaskBased == y.IsTaskBased && x.HasSync == y.HasSync
	case Memory:
		y := b.(Memory)
		if len(x.Allocations) != len(y.Allocations) {
			return false
		}
		for i := range x.Allocations {
			if !Equal(x.Allocations[i].Size, y.Allocations[i].Size) || !Equal(x.Allocations[i].Iterations, y.Allocations[i].Iterations) {
				return false
			}
		}
		return Equal(x.Total, y.Total) && Equal(x.Stack, y.Stack) && Equal(x.Heap, y.Heap) &&
			Equal(x.Auxiliary, y.Auxiliary) && x.InPlace == y.InPlace && x.TailRecursive == y.TailRecursive
	case Probabilistic:
		y := b.(Probabilistic)
		return Equal(x.Expected, y.Expected) && Equal(x.Worst, y.Worst) && x.SourceTag == y.SourceTag && x.Distribution == y.Distribution
	}
	return false
}
