package extract

import (
	"github.com/kanso-complexity/complexity/internal/bcl"
	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/diag"
	"github.com/kanso-complexity/complexity/internal/hostiface"
)

// recursionMarkerName names the recursion marker of spec §4.3.3. No
// Variable of this name is built: walkCall records each recursive call
// site in ctx.recurring and charges the site only its argument cost plus
// O(1), and recurrence.go forms the recurrence from those records.
const recursionMarkerName = "__recursive_call__"

// AnalyzeProcedure is the extractor's public operation (spec §4.3
// "analyze_procedure(procedure) → (expression, confidence,
// diagnostics)"). It is re-entrant only through ctx's shared cache:
// callees must already be present in ctx's cache (or be self/mutually
// recursive with proc) by the time this is invoked, which the
// layered-parallel driver in module.go guarantees by walking callees
// before callers.
func AnalyzeProcedure(ctx *AnalysisContext, proc hostiface.Procedure) ProcedureResult {
	if cached, ok := ctx.cache[proc.Identity()]; ok {
		return cached
	}

	if lit, ok := proc.ComplexityAnnotation(); ok {
		if expr, parseOK := parseAnnotation(lit); parseOK {
			result := ProcedureResult{
				Name: proc.Name(), File: proc.File(), Line: proc.Line(),
				TimeComplexity: expr,
				Confidence: trustedAnnotationConfidence(),
				Diagnostics: []diag.Diagnostic{
					diag.New(diag.SeverityNote, diag.CodeAnnotationAccepted,
						"trusting declared complexity annotation "+lit).At(procedurePosition(proc)),
				},
			}
			ctx.cache[proc.Identity()] = result
			return result
		}
	}

	w := &walker{ctx: ctx, proc: proc}

	body := proc.Body()
	if body == nil {
		w.addDiag(diag.New(diag.SeverityWarning, diag.CodeMissingBody,
			"procedure has no body available; assuming O(1)").At(procedurePosition(proc)))
		result := ProcedureResult{
			Name: proc.Name(), File: proc.File(), Line: proc.Line(),
			TimeComplexity: complexity.One,
			Confidence:     lowConfidence("no body available"),
			RequiresReview: true,
			Diagnostics:    w.diags,
		}
		ctx.cache[proc.Identity()] = result
		return result
	}

	ctx.inProgress[proc.Identity()] = true
	ctx.bindParameters(proc)

	work := w.walkStmt(body)

	delete(ctx.inProgress, proc.Identity())

	finalExpr, confidence, requiresReview := finalizeWork(ctx, proc, work, w)

	memory := analyzeMemory(ctx, proc, body)
	parallel := analyzeParallel(ctx, body)
	prob := analyzeProbabilistic(ctx, body)

	result := ProcedureResult{
		Name: proc.Name(), File: proc.File(), Line: proc.Line(),
		TimeComplexity:     complexity.Normalize(finalExpr),
		SpaceComplexity:    memory.Total,
		ParallelComplexity: parallel,
		Probabilistic:      prob,
		Confidence:         confidence,
		RequiresReview:     requiresReview,
		Diagnostics:        w.diags,
	}
	ctx.cache[proc.Identity()] = result
	return result
}

// walker holds the state of one in-progress procedure walk: the
// accumulated "current" expression plus the diagnostics and recursive
// call sites discovered so far. Grounded on the teacher's
// semantic.Analyzer (walker struct carrying accumulated state + error
// slice, dispatching on concrete AST node type via type switches).
type walker struct {
	ctx   *AnalysisContext
	proc  hostiface.Procedure
	diags []diag.Diagnostic
}

func (w *walker) addDiag(d diag.Diagnostic) {
	w.diags = append(w.diags, d)
}

// walkStmt dispatches on hostiface.Stmt's concrete kind, composing cost
// per spec §4.3's composition rules.
func (w *walker) walkStmt(s hostiface.Stmt) complexity.Expression {
	if s == nil {
		return complexity.Zero
	}
	switch s.Kind() {
	case hostiface.StmtBlock:
		block := s.(hostiface.BlockStmt)
		total := complexity.Expression(complexity.Zero)
		for _, stmt := range block.Statements() {
			total = complexity.Add(total, w.walkStmt(stmt))
		}
		return total
	case hostiface.StmtExpr:
		return w.walkExpr(s.(hostiface.ExprStmt).Expression())
	case hostiface.StmtVarDecl:
		decl := s.(hostiface.VarDeclStmt)
		if decl.Init() == nil {
			return complexity.One
		}
		return complexity.Add(complexity.One, w.walkExpr(decl.Init()))
	case hostiface.StmtReturn:
		ret := s.(hostiface.ReturnStmt)
		if ret.Value() == nil {
			return complexity.One
		}
		return complexity.Add(complexity.One, w.walkExpr(ret.Value()))
	case hostiface.StmtIf:
		return w.walkIf(s.(hostiface.IfStmt))
	case hostiface.StmtSwitch:
		return w.walkSwitch(s.(hostiface.SwitchStmt))
	case hostiface.StmtTry:
		return w.walkTry(s.(hostiface.TryStmt))
	case hostiface.StmtFor, hostiface.StmtForEach, hostiface.StmtWhile, hostiface.StmtDoWhile:
		return w.walkLoop(s.(hostiface.LoopStmt))
	default:
		w.addDiag(diag.New(diag.SeverityWarning, diag.CodeUnrecognizedExpression,
			"unrecognized statement shape; assuming O(1)").At(s.Pos()))
		return complexity.One
	}
}

// walkIf implements "Branch if c then A else B: current <- current +
// max(cost(A), cost(B))" (spec §4.3).
func (w *walker) walkIf(ifs hostiface.IfStmt) complexity.Expression {
	cond := w.walkExpr(ifs.Condition())
	then := w.walkStmt(ifs.Then())
	var els complexity.Expression = complexity.Zero
	if ifs.Else() != nil {
		els = w.walkStmt(ifs.Else())
	}
	return complexity.Add(cond, complexity.Max(then, els))
}

// walkSwitch takes max over every arm (spec §4.3 "switch takes max over
// all arms").
func (w *walker) walkSwitch(sw hostiface.SwitchStmt) complexity.Expression {
	arms := sw.Arms()
	if len(arms) == 0 {
		return complexity.One
	}
	total := w.walkStmt(arms[0])
	for _, arm := range arms[1:] {
		total = complexity.Max(total, w.walkStmt(arm))
	}
	return total
}

// walkTry implements "try...catch...finally is max(try, catches) +
// finally" (spec §4.3).
func (w *walker) walkTry(t hostiface.TryStmt) complexity.Expression {
	tryCost := w.walkStmt(t.Try())
	total := tryCost
	for _, c := range t.Catches() {
		total = complexity.Max(total, w.walkStmt(c))
	}
	if t.Finally() != nil {
		total = complexity.Add(total, w.walkStmt(t.Finally()))
	}
	return total
}

// walkExpr dispatches on hostiface.Expr's concrete kind. Most shapes are
// O(1) "elemental expressions" (spec §4.3); calls and lambdas recurse.
func (w *walker) walkExpr(e hostiface.Expr) complexity.Expression {
	if e == nil {
		return complexity.Zero
	}
	switch e.Kind() {
	case hostiface.ExprCall:
		return w.walkCall(e.(hostiface.CallExpr))
	case hostiface.ExprBinaryOp:
		bin := e.(hostiface.BinaryExpr)
		return complexity.Add(complexity.One, complexity.Add(w.walkExpr(bin.Left()), w.walkExpr(bin.Right())))
	case hostiface.ExprAssignment, hostiface.ExprUnaryOp, hostiface.ExprCast:
		total := complexity.Expression(complexity.One)
		for _, c := range e.Children() {
			total = complexity.Add(total, w.walkExpr(c))
		}
		return total
	case hostiface.ExprObjectCreation:
		return w.walkObjectCreation(e)
	case hostiface.ExprLambda:
		// Lambda bodies are costed at their point of invocation (via the
		// BCL entry for the combinator they're passed to, e.g.
		// IEnumerable.Select's DeferredExecution note); constructing the
		// closure itself is O(1).
		return complexity.One
	case hostiface.ExprLiteral, hostiface.ExprIdentifier, hostiface.ExprMemberAccess:
		return complexity.One
	default:
		return complexity.One
	}
}

// walkObjectCreation costs array/collection allocation by its size
// expression when derivable (spec §4.3 "array creation whose size
// expression is evaluated as the allocation size"); memory.go reuses
// the same sizing logic for the heap-accounting sub-analysis.
func (w *walker) walkObjectCreation(e hostiface.Expr) complexity.Expression {
	if size, ok := allocationSize(w.ctx, e); ok {
		return complexity.Max(complexity.One, size)
	}
	return complexity.One
}

// walkCall implements spec §4.3's call-cost rule: a callee already in
// progress is recorded as a recursive call site; otherwise the BCL
// mapping, else the cached (or on-demand analyzed) callee result, else
// the heuristic.
func (w *walker) walkCall(call hostiface.CallExpr) complexity.Expression {
	argCost := complexity.Expression(complexity.Zero)
	for _, a := range call.Arguments() {
		argCost = complexity.Add(argCost, w.walkExpr(a))
	}

	callee := call.Callee()

	// Self/mutual recursion: replace with a marker and record the site
	// for recurrence formation (spec §4.3.3).
	if callee != nil && w.ctx.inProgress[callee.Identity()] {
		w.ctx.recurring = append(w.ctx.recurring, recursiveCallSite{
			call:       call,
			multiplier: w.ctx.loopMultiplier(),
		})
		return complexity.Add(argCost, complexity.One)
	}

	if call.DeclaringTypeName() != "" {
		argCount := len(call.Arguments())
		if m, ok := w.ctx.Registry.Lookup(call.DeclaringTypeName(), call.MethodName(), argCount); ok {
			return complexity.Add(argCost, instantiateMapping(w.ctx, m, call))
		}
	}

	if callee != nil {
		if cached, ok := w.ctx.cache[callee.Identity()]; ok {
			return complexity.Add(argCost, substituteCallArguments(cached, call))
		}
		if w.ctx.Graph != nil {
			if idx, ok := w.ctx.Graph.IndexOf(callee.Identity()); ok {
				calleeProc := w.ctx.Graph.Procedure(idx)
				sub := AnalyzeProcedure(w.ctx, calleeProc)
				return complexity.Add(argCost, substituteCallArguments(sub, call))
			}
		}
	}

	// Unresolved symbol or a resolved-but-out-of-set callee: fall back
	// to the conservative name-based heuristic (spec §4.3, §7
	// "Structural... unresolvable symbol").
	if callee == nil {
		w.addDiag(diag.New(diag.SeverityWarning, diag.CodeUnresolvedSymbol,
			"call to an unresolved symbol; using a conservative heuristic").At(call.Pos()))
	}
	return complexity.Add(argCost, heuristicCallCost(call))
}

// heuristicCallCost implements the fallback table (spec §4.3: "name
// contains 'Sort' -> n log n; contains 'Find'/'Contains' -> n; on a
// collection type -> n; else 1").
func heuristicCallCost(call hostiface.CallExpr) complexity.Expression {
	name := call.MethodName()
	if name == "" {
		name = call.Text()
	}
	v := complexity.Variable{Name: "n", Role: complexity.RoleDataCount}
	if containsFold(name, "Sort") {
		return complexity.NewPolyLog(1, 1, v)
	}
	if containsFold(name, "Find") || containsFold(name, "Contains") {
		return complexity.NewVar(v)
	}
	if call.DeclaringTypeName() != "" {
		return complexity.NewVar(v)
	}
	return complexity.One
}

func containsFold(haystack, needle string) bool {
	hl, nl := len(haystack), len(needle)
	if nl == 0 || nl > hl {
		return false
	}
	lowerHaystack := toLowerASCII(haystack)
	lowerNeedle := toLowerASCII(needle)
	for i := 0; i+nl <= hl; i++ {
		if lowerHaystack[i:i+nl] == lowerNeedle {
			return true
		}
	}
	return false
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// instantiateMapping applies a BCL mapping, substituting the BCL
// table's generic receiver variable (bcl.GenericVariable) for the
// call's actual receiver variable when one is resolvable (spec §4.3
// "Actual-argument expressions are substituted for the callee's
// parameter variables" — a method receiver is the BCL callee's
// implicit first parameter). When no receiver is resolvable (a static
// helper call, or a receiver with no bound symbol), the mapping's
// expression is returned as-is.
func instantiateMapping(ctx *AnalysisContext, m bcl.Mapping, call hostiface.CallExpr) complexity.Expression {
	receiver := callReceiver(call)
	if receiver == nil {
		return m.Complexity
	}
	sym := receiver.ResolvedSymbol()
	if sym == nil {
		return m.Complexity
	}
	v, ok := ctx.variableFor(sym)
	if !ok {
		return m.Complexity
	}
	return complexity.Substitute(m.Complexity, bcl.GenericVariable, complexity.NewVar(v))
}

// callReceiver returns a method call's receiver expression. The bound
// tree (hostfixture's binder) prepends the receiver to Children() ahead
// of the arguments when one is present, so its presence shows up as a
// one-element gap between Children() and Arguments().
func callReceiver(call hostiface.CallExpr) hostiface.Expr {
	children := call.Children()
	args := call.Arguments()
	if len(children) == len(args)+1 {
		return children[0]
	}
	return nil
}

func procedurePosition(proc hostiface.Procedure) hostiface.Position {
	return hostiface.Position{File: proc.File(), Line: proc.Line()}
}
