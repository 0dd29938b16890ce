// Package extract implements the complexity extractor (spec §4.3): a
// recursive walker over hostiface's bound syntax tree that accumulates a
// per-procedure ComplexityExpression, grounded directly on the teacher's
// internal/semantic.Analyzer (a walker struct holding accumulated
// errors/state, dispatching on concrete AST node type) and its
// context.go (ContextRegistry, a per-analysis scope/state holder).
package extract

import (
	"context"

	"github.com/kanso-complexity/complexity/internal/bcl"
	"github.com/kanso-complexity/complexity/internal/callgraph"
	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/config"
	"github.com/kanso-complexity/complexity/internal/diag"
	"github.com/kanso-complexity/complexity/internal/hostiface"
)

// CancelToken is the cooperative cancellation mechanism (spec §5
// "Cancellation is cooperative via a token checked between procedures
// and between solver attempts"), a thin wrapper over context.Context
// the way the teacher's LSP entry point threads a context.Context
// through long-running requests.
type CancelToken struct {
	ctx context.Context
}

// NewCancelToken wraps ctx. A nil ctx is treated as context.Background().
func NewCancelToken(ctx context.Context) CancelToken {
	if ctx == nil {
		ctx = context.Background()
	}
	return CancelToken{ctx: ctx}
}

// Context exposes the wrapped context.Context, for operations (the
// symbolic helper subprocess call, in particular) that need to honor
// the same cancellation/timeout signal rather than just polling
// Cancelled.
func (c CancelToken) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Cancelled reports whether the token's context has been cancelled.
func (c CancelToken) Cancelled() bool {
	if c.ctx == nil {
		return false
	}
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// loopBound is the accumulated fact about one enclosing loop, pushed by
// the walker when it descends into a loop body and popped on exit, so
// nested loop analysis (§4.3.1) can see outer induction variables when
// classifying an inner bound expression that references one.
type loopBound struct {
	inductionVar hostiface.Symbol
	iterations   complexity.Expression
}

// AnalysisContext is the per-call state the extractor threads through
// one analyze_procedure invocation (spec §4.3 "State per call"):
// parameter-symbol-to-Variable mapping, outer loop bounds, and a
// procedure-result cache shared across the whole module analysis so
// callees are looked up, not re-walked.
type AnalysisContext struct {
	Registry *bcl.Registry
	Graph    *callgraph.Graph
	Cancel   CancelToken
	Settings config.Settings

	params     map[string]complexity.Variable // Symbol.Identity() -> Variable
	outerLoops []loopBound
	cache      map[string]ProcedureResult // Procedure.Identity() -> memoized result
	// inProgress marks identities currently being walked, for
	// self/mutual-recursion detection (spec §4.3.3): a call whose callee
	// is inProgress is replaced by a recursion marker instead of
	// recursing into the walker.
	inProgress map[string]bool
	// recurring collects the recursive call sites discovered while
	// walking the current procedure's own body, consumed by the
	// recurrence-formation step (recurrence.go) once the body walk
	// completes.
	recurring []recursiveCallSite
	diags     []diag.Diagnostic
}

// recursiveCallSite records one self-referential call discovered mid-walk
// along with the enclosing loop-iteration multiplier in effect at the
// call site, since a recursive call inside a loop contributes its term
// once per iteration (tree/multi-branch recursion shapes this module
// does not attempt to fully resolve fall back to the Akra-Bazzi
// candidate path in recurrence.go).
type recursiveCallSite struct {
	call       hostiface.CallExpr
	multiplier complexity.Expression
}

// NewAnalysisContext builds a fresh per-procedure context sharing the
// module-wide registry, call graph, and result cache.
func NewAnalysisContext(reg *bcl.Registry, g *callgraph.Graph, cancel CancelToken, settings config.Settings, cache map[string]ProcedureResult) *AnalysisContext {
	if cache == nil {
		cache = make(map[string]ProcedureResult)
	}
	return &AnalysisContext{
		Registry:   reg,
		Graph:      g,
		Cancel:     cancel,
		Settings:   settings,
		params:     make(map[string]complexity.Variable),
		cache:      cache,
		inProgress: make(map[string]bool),
	}
}

// bindParameters populates ctx.params from a procedure's formal
// parameters, inferring DataCount for collection-typed parameters and
// InputSize otherwise (spec §4.3 "ctx... maps parameter symbols to
// Variables").
func (ctx *AnalysisContext) bindParameters(proc hostiface.Procedure) {
	for _, p := range proc.Parameters() {
		if p.Symbol == nil {
			continue
		}
		role := complexity.RoleInputSize
		if p.Type != nil && p.Type.IsCollection() {
			role = complexity.RoleDataCount
		}
		ctx.params[p.Symbol.Identity()] = complexity.Variable{Name: p.Symbol.Name(), Role: role}
	}
}

// variableFor resolves a symbol to its Variable, if it is a bound
// parameter (or a local data-flow-traced alias registered by loops.go).
func (ctx *AnalysisContext) variableFor(sym hostiface.Symbol) (complexity.Variable, bool) {
	if sym == nil {
		return complexity.Variable{}, false
	}
	v, ok := ctx.params[sym.Identity()]
	return v, ok
}

func (ctx *AnalysisContext) pushLoop(b loopBound) {
	ctx.outerLoops = append(ctx.outerLoops, b)
}

func (ctx *AnalysisContext) popLoop() {
	if len(ctx.outerLoops) == 0 {
		return
	}
	ctx.outerLoops = ctx.outerLoops[:len(ctx.outerLoops)-1]
}

func (ctx *AnalysisContext) addDiag(d diag.Diagnostic) {
	ctx.diags = append(ctx.diags, d)
}

// loopMultiplier combines every currently-enclosing loop's iteration
// count into one multiplicative expression, Const(1) if none.
func (ctx *AnalysisContext) loopMultiplier() complexity.Expression {
	m := complexity.Expression(complexity.One)
	for _, b := range ctx.outerLoops {
		m = complexity.Mul(m, b.iterations)
	}
	return m
}
