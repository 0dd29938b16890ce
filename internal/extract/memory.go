package extract

import (
	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/hostiface"
)

// allocatingMethodNames are the library calls treated as allocation
// sites by name (spec §4.3.4 "allocating library calls such as
// to-list/slice/concat, regex-style split").
var allocatingMethodNames = []string{"ToList", "ToArray", "ToSlice", "Concat", "Split", "Clone", "Copy"}

// allocationSize derives an allocation's size expression from an object
// creation or allocating call's arguments, when derivable. Shared by
// extractor.go's O(1)-by-default elemental rule and analyzeMemory's
// heap accounting, so both attribute the same size to the same sites.
func allocationSize(ctx *AnalysisContext, e hostiface.Expr) (complexity.Expression, bool) {
	children := e.Children()
	for _, c := range children {
		if c == nil {
			continue
		}
		if sym := c.ResolvedSymbol(); sym != nil {
			if v, ok := ctx.variableFor(sym); ok {
				return complexity.NewVar(v), true
			}
		}
	}
	return nil, false
}

// isAllocatingCall reports whether a call site is one of the
// allocating library calls (spec §4.3.4), independent of any BCL
// mapping, since the memory sub-analysis accounts for allocation size
// even when the BCL table prices the call's time cost.
func isAllocatingCall(call hostiface.CallExpr) bool {
	name := call.MethodName()
	for _, n := range allocatingMethodNames {
		if name == n {
			return true
		}
	}
	return false
}

// analyzeMemory implements spec §4.3.4's memory sub-analysis: walks the
// body counting allocation sites, each weighted by its enclosing loop's
// iteration count, and derives the stack contribution from the
// recursion shape discovered by the same body walk (tail recursion
// collapsing to O(1), divide-and-conquer shapes to log n, linear
// subtract-form and tree recursion to n).
func analyzeMemory(ctx *AnalysisContext, proc hostiface.Procedure, body hostiface.BlockStmt) complexity.Memory {
	mw := &memWalker{ctx: ctx}
	mw.walkStmt(body, complexity.One)

	heap := complexity.Expression(complexity.Zero)
	for _, a := range mw.allocations {
		heap = complexity.Add(heap, complexity.Mul(a.Size, a.Iterations))
	}

	stack, tailRecursive := recursionStackCost(ctx, proc, body)

	total := complexity.Add(heap, stack)
	return complexity.Memory{
		Total:         complexity.Normalize(total),
		Stack:         complexity.Normalize(stack),
		Heap:          complexity.Normalize(heap),
		Auxiliary:     complexity.Zero,
		InPlace:       len(mw.allocations) == 0,
		TailRecursive: tailRecursive,
		Allocations:   mw.allocations,
	}
}

type memWalker struct {
	ctx         *AnalysisContext
	allocations []complexity.Allocation
}

func (mw *memWalker) walkStmt(s hostiface.Stmt, multiplier complexity.Expression) {
	if s == nil {
		return
	}
	switch s.Kind() {
	case hostiface.StmtBlock:
		for _, stmt := range s.(hostiface.BlockStmt).Statements() {
			mw.walkStmt(stmt, multiplier)
		}
	case hostiface.StmtExpr:
		mw.walkExpr(s.(hostiface.ExprStmt).Expression(), multiplier)
	case hostiface.StmtVarDecl:
		mw.walkExpr(s.(hostiface.VarDeclStmt).Init(), multiplier)
	case hostiface.StmtReturn:
		mw.walkExpr(s.(hostiface.ReturnStmt).Value(), multiplier)
	case hostiface.StmtIf:
		ifs := s.(hostiface.IfStmt)
		mw.walkStmt(ifs.Then(), multiplier)
		mw.walkStmt(ifs.Else(), multiplier)
	case hostiface.StmtSwitch:
		for _, arm := range s.(hostiface.SwitchStmt).Arms() {
			mw.walkStmt(arm, multiplier)
		}
	case hostiface.StmtTry:
		t := s.(hostiface.TryStmt)
		mw.walkStmt(t.Try(), multiplier)
		for _, c := range t.Catches() {
			mw.walkStmt(c, multiplier)
		}
		mw.walkStmt(t.Finally(), multiplier)
	case hostiface.StmtFor, hostiface.StmtForEach, hostiface.StmtWhile, hostiface.StmtDoWhile:
		loop := s.(hostiface.LoopStmt)
		w := &walker{ctx: mw.ctx}
		iterations, _ := w.iterationCount(loop)
		mw.walkStmt(loop.Body(), complexity.Mul(multiplier, iterations))
	}
}

func (mw *memWalker) walkExpr(e hostiface.Expr, multiplier complexity.Expression) {
	if e == nil {
		return
	}
	switch e.Kind() {
	case hostiface.ExprObjectCreation:
		size, ok := allocationSize(mw.ctx, e)
		if !ok {
			size = complexity.One
		}
		mw.allocations = append(mw.allocations, complexity.Allocation{Size: size, Iterations: multiplier})
	case hostiface.ExprCall:
		call := e.(hostiface.CallExpr)
		if isAllocatingCall(call) {
			size, ok := allocationSize(mw.ctx, e)
			if !ok {
				size = complexity.One
			}
			mw.allocations = append(mw.allocations, complexity.Allocation{Size: size, Iterations: multiplier})
		}
	}
	for _, c := range e.Children() {
		mw.walkExpr(c, multiplier)
	}
}

// recursionStackCost derives stack depth from the argument
// transformation at each recursive call site discovered while walking
// the body for time complexity (spec §4.3.4: "n/k => log n, n-k => n,
// tree recursion => n") and detects tail recursion (spec §4.3.4: "sole
// recursive call is the syntactic tail of all returning paths and is
// not inside a combining expression").
func recursionStackCost(ctx *AnalysisContext, proc hostiface.Procedure, body hostiface.BlockStmt) (complexity.Expression, bool) {
	if len(ctx.recurring) == 0 {
		return complexity.One, false
	}

	v := complexity.Variable{Name: "n", Role: complexity.RoleInputSize}
	if len(ctx.recurring) > 1 {
		return complexity.NewVar(v), false
	}

	site := ctx.recurring[0]
	_, form, _ := argumentScale(site.call)
	tailRecursive := isSoleTailCall(body, site.call)

	if tailRecursive {
		return complexity.One, true
	}
	if form == scaleDivide {
		return complexity.NewLogOf(complexity.NewVar(v), 2), false
	}
	return complexity.NewVar(v), false
}

// isSoleTailCall reports whether call is the only statement reachable
// as the tail of every returning path in body, and is not itself nested
// inside a combining expression (e.g. `1 + f(n-1)`), a coarse structural
// approximation of spec §4.3.4's tail-recursion detection sufficient for
// the common accumulator-parameter pattern.
func isSoleTailCall(body hostiface.BlockStmt, call hostiface.CallExpr) bool {
	stmts := body.Statements()
	if len(stmts) == 0 {
		return false
	}
	last := stmts[len(stmts)-1]
	ret, ok := last.(hostiface.ReturnStmt)
	if !ok || ret.Value() == nil {
		return false
	}
	return ret.Value().Kind() == hostiface.ExprCall && ret.Value() == hostiface.Expr(call)
}
