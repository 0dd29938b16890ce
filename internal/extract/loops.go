package extract

import (
	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/diag"
	"github.com/kanso-complexity/complexity/internal/hostiface"
)

// stepClass is the loop step pattern classification (spec §4.3.1 step
// 3): "+-c -> Linear, x//c (c>1) -> Logarithmic, else Unknown".
type stepClass int

const (
	stepLinear stepClass = iota
	stepLogarithmic
	stepUnknown
)

// walkLoop implements "current <- current + iterations * cost(body)"
// (spec §4.3), do-while adding 1 for the guaranteed first iteration.
func (w *walker) walkLoop(loop hostiface.LoopStmt) complexity.Expression {
	iterations, warn := w.iterationCount(loop)
	if warn != "" {
		w.addDiag(diag.New(diag.SeverityWarning, diag.CodeLoopBoundUnknown, warn).
			At(loop.Pos()).
			WithSuggestion("annotate the loop bound or the enclosing procedure's complexity"))
	}

	w.ctx.pushLoop(loopBound{iterations: iterations})
	body := w.walkStmt(loop.Body())
	w.ctx.popLoop()

	cost := complexity.Mul(iterations, body)
	if loop.IsDoWhile() {
		cost = complexity.Add(cost, body)
	}
	return cost
}

// iterationCount derives the loop's iteration-count expression (spec
// §4.3.1). For a counted loop the returned warning is non-empty iff the
// bound fell back to the free variable "n"; a foreach loop never gets a
// warning, even when its count falls back to "n".
func (w *walker) iterationCount(loop hostiface.LoopStmt) (complexity.Expression, string) {
	if loop.IsForEach() {
		return w.foreachIterationCount(loop), ""
	}

	bound, class, ok := w.countedLoopBound(loop)
	if !ok {
		return fallbackIterations(), "loop bound could not be classified; falling back to the free variable n"
	}

	switch class {
	case stepLinear:
		return bound, ""
	case stepLogarithmic:
		return complexity.NewLogOf(bound, 2), ""
	default:
		return fallbackIterations(), "loop step pattern is neither additive nor multiplicative; falling back to the free variable n"
	}
}

// foreachIterationCount derives a foreach loop's iteration count from
// the enumerated collection (spec §4.3.1 "For foreach, iteration count
// is the size of the enumerated collection").
func (w *walker) foreachIterationCount(loop hostiface.LoopStmt) complexity.Expression {
	coll := loop.Collection()
	if coll == nil {
		return fallbackIterations()
	}
	if sym := coll.ResolvedSymbol(); sym != nil {
		if v, ok := w.ctx.variableFor(sym); ok {
			return complexity.NewVar(v)
		}
		// A member/local collection not bound as a parameter still gets
		// its own DataCount-tagged variable rather than collapsing to the
		// generic "n", preserving distinct collection identities when a
		// procedure iterates more than one collection.
		v := complexity.Variable{Name: sym.Name(), Role: complexity.RoleDataCount}
		return complexity.NewVar(v)
	}
	return fallbackIterations()
}

// countedLoopBound implements spec §4.3.1 steps 1-3 for a counted
// for/while loop: identify the induction variable, extract the bound
// expression, and classify the step.
func (w *walker) countedLoopBound(loop hostiface.LoopStmt) (complexity.Expression, stepClass, bool) {
	cond := loop.Condition()
	if cond == nil {
		return nil, stepUnknown, false
	}
	bin, ok := cond.(hostiface.BinaryExpr)
	if !ok {
		return nil, stepUnknown, false
	}

	bound, ok := w.boundExpression(bin.Right())
	if !ok {
		bound, ok = w.boundExpression(bin.Left())
	}
	if !ok {
		return nil, stepUnknown, false
	}

	class := classifyStep(loop.Step())
	return bound, class, true
}

// boundExpression resolves a condition operand to a symbolic bound: a
// literal, a parameter variable, a collection-size access, or simple
// arithmetic over one (spec §4.3.1 step 2).
func (w *walker) boundExpression(e hostiface.Expr) (complexity.Expression, bool) {
	if e == nil {
		return nil, false
	}
	switch e.Kind() {
	case hostiface.ExprLiteral:
		return complexity.One, true
	case hostiface.ExprIdentifier, hostiface.ExprMemberAccess:
		if sym := e.ResolvedSymbol(); sym != nil {
			if v, ok := w.ctx.variableFor(sym); ok {
				return complexity.NewVar(v), true
			}
		}
		if isSizeAccessor(e.Text()) {
			v := complexity.Variable{Name: "n", Role: complexity.RoleDataCount}
			return complexity.NewVar(v), true
		}
		return nil, false
	case hostiface.ExprBinaryOp:
		bin := e.(hostiface.BinaryExpr)
		left, ok := w.boundExpression(bin.Left())
		if !ok {
			return nil, false
		}
		return left, true
	default:
		return nil, false
	}
}

func isSizeAccessor(text string) bool {
	return containsFold(text, "Count") || containsFold(text, "Length") || containsFold(text, "Size")
}

// classifyStep implements spec §4.3.1 step 3.
func classifyStep(step hostiface.Stmt) stepClass {
	if step == nil {
		return stepUnknown
	}
	exprStmt, ok := step.(hostiface.ExprStmt)
	if !ok {
		return stepUnknown
	}
	expr := exprStmt.Expression()
	if expr == nil {
		return stepUnknown
	}
	switch expr.Kind() {
	case hostiface.ExprUnaryOp:
		return stepLinear
	case hostiface.ExprAssignment, hostiface.ExprBinaryOp:
		if bin, ok := expr.(hostiface.BinaryExpr); ok {
			op := bin.Operator()
			if op == "=" {
				// Plain reassignment carries no operator of its own;
				// classify by the shape of its right-hand side instead
				// (`i = i * 2` is equivalent to `i *= 2`).
				if rhs, ok := bin.Right().(hostiface.BinaryExpr); ok {
					op = rhs.Operator()
				}
			}
			switch op {
			case "+=", "-=", "++", "--", "+", "-":
				return stepLinear
			case "*=", "/=", "*", "/":
				return stepLogarithmic
			}
		}
		return stepLinear
	default:
		return stepUnknown
	}
}

func fallbackIterations() complexity.Expression {
	return complexity.NewVar(complexity.Variable{Name: "n", Role: complexity.RoleInputSize})
}
