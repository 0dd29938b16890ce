package complexity

import (
	"fmt"
	"strings"
)

// ToBigO renders e as a conventional asymptotic string (spec §4.1),
// e.g. "O(1)", "O(n log n)", "O(n^2)", "O(2^n)", "O(n!)". Rendering
// operates on the normalized form so to_big_o(normalize(e)) ==
// to_big_o(e) modulo canonical form (spec §8).
func ToBigO(e Expression) string {
	return "O(" + renderInner(Normalize(e)) + ")"
}

// ToTheta is identical to ToBigO but with the Θ glyph, used by the
// recurrence solver whose results are typically tight bounds rather than
// plain upper bounds.
func ToTheta(e Expression) string {
	return "Θ(" + renderInner(Normalize(e)) + ")"
}

func renderInner(e Expression) string {
	switch n := e.(type) {
	case Const:
		if n.K == 0 {
			return "1"
		}
		return "1"
	case Var:
		return n.V.Name
	case Linear:
		return n.V.Name
	case Poly:
		return renderPoly(n)
	case Log:
		return fmt.Sprintf("log %s", n.V.Name)
	case PolyLog:
		return renderPolyLog(n)
	case Exp:
		return fmt.Sprintf("%s^%s", trimFloat(n.Base), n.V.Name)
	case Factorial:
		return fmt.Sprintf("%s!", n.V.Name)
	case Power:
		return fmt.Sprintf("%s^%s", renderInner(n.BaseExpr), trimFloat(n.Exponent))
	case LogOf:
		return fmt.Sprintf("log(%s)", renderInner(n.Expr))
	case ExpOf:
		return fmt.Sprintf("%s^(%s)", trimFloat(n.Base), renderInner(n.Expr))
	case FactorialOf:
		return fmt.Sprintf("(%s)!", renderInner(n.Expr))
	case Binary:
		return renderBinary(n)
	case Conditional:
		return fmt.Sprintf("max(%s, %s)", renderInner(n.Then), renderInner(n.Else))
	case Recurrence:
		return fmt.Sprintf("T(%s)", n.Variable.Name)
	case Amortized:
		return renderInner(n.Worst)
	case Parallel:
		return renderInner(n.Work)
	case Memory:
		return renderInner(n.Total)
	case Probabilistic:
		return renderInner(n.Worst)
	}
	return "?"
}

func renderPoly(n Poly) string {
	degrees := sortedDegrees(n.Terms)
	if len(degrees) == 1 && degrees[0] == 1 {
		return n.V.Name
	}
	top := degrees[len(degrees)-1]
	if top == 2 {
		return fmt.Sprintf("%s^2", n.V.Name)
	}
	return fmt.Sprintf("%s^%s", n.V.Name, trimFloat(float64(top)))
}

func sortedDegrees(terms map[int]float64) []int {
	degs := make([]int, 0, len(terms))
	for d, c := range terms {
		if c != 0 {
			degs = append(degs, d)
		}
	}
	for i := 0; i < len(degs); i++ {
		for j := i + 1; j < len(degs); j++ {
			if degs[j] < degs[i] {
				degs[i], degs[j] = degs[j], degs[i]
			}
		}
	}
	return degs
}

func renderPolyLog(n PolyLog) string {
	var parts []string
	if n.K != 0 {
		if n.K == 1 {
			parts = append(parts, n.V.Name)
		} else {
			parts = append(parts, fmt.Sprintf("%s^%s", n.V.Name, trimFloat(n.K)))
		}
	}
	if n.J > 0 {
		if n.J == 1 {
			parts = append(parts, fmt.Sprintf("log %s", n.V.Name))
		} else {
			parts = append(parts, fmt.Sprintf("log^%d %s", n.J, n.V.Name))
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, " ")
}

func renderBinary(n Binary) string {
	switch n.Op {
	case OpAdd:
		return renderInner(n.Left) + " + " + renderInner(n.Right)
	case OpMul:
		return renderInner(n.Left) + " " + renderInner(n.Right)
	case OpMax:
		return fmt.Sprintf("max(%s, %s)", renderInner(n.Left), renderInner(n.Right))
	case OpMin:
		return fmt.Sprintf("min(%s, %s)", renderInner(n.Left), renderInner(n.Right))
	}
	return "?"
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.4g", f)
	return s
}
