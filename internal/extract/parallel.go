package extract

import (
	"strings"

	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/hostiface"
)

// sharedStateMarkers are the identifier substrings that flag a
// synchronization-bearing parallel body (spec §4.3.4 "Shared-state
// heuristics (identifiers containing 'lock', 'mutex', 'interlocked', or
// 'concurrent')").
var sharedStateMarkers = []string{"lock", "mutex", "interlocked", "concurrent"}

// parallelPatternPriority orders the fork/join pattern table (spec
// §4.3.4 "Patterns are prioritized; the highest-priority detected
// pattern is returned"), highest first.
type parallelPattern int

const (
	patternNone parallelPattern = iota
	patternSequentialAwait
	patternTaskAwaitAll
	patternParallelReduce
	patternParallelFor
)

// analyzeParallel implements spec §4.3.4's parallelism sub-analysis,
// returning nil when no fork/join pattern is detected in the body.
func analyzeParallel(ctx *AnalysisContext, body hostiface.BlockStmt) *complexity.Parallel {
	pw := &parallelWalker{ctx: ctx}
	pw.walkStmt(body)
	if pw.best == patternNone {
		return nil
	}

	result := &complexity.Parallel{
		PatternTag:  pw.best.String(),
		HasSync:     pw.hasSync,
		IsTaskBased: pw.best == patternTaskAwaitAll || pw.best == patternSequentialAwait,
	}

	switch pw.best {
	case patternParallelFor:
		result.Work = complexity.Mul(pw.iterations, pw.body)
		if pw.hasSync {
			result.Span = result.Work
		} else {
			result.Span = pw.body
		}
	case patternParallelReduce:
		result.Work = complexity.Mul(pw.iterations, pw.body)
		v := complexity.Variable{Name: "n", Role: complexity.RoleDataCount}
		result.Span = complexity.NewLogOf(complexity.NewVar(v), 2)
	case patternTaskAwaitAll:
		result.Work = pw.taskSum
		result.Span = pw.taskMax
	case patternSequentialAwait:
		result.Work = pw.taskSum
		result.Span = pw.taskSum
	}
	return result
}

func (p parallelPattern) String() string {
	switch p {
	case patternParallelFor:
		return "parallel-for"
	case patternParallelReduce:
		return "parallel-reduce"
	case patternTaskAwaitAll:
		return "task-await-all"
	case patternSequentialAwait:
		return "sequential-await"
	default:
		return "none"
	}
}

type parallelWalker struct {
	ctx        *AnalysisContext
	best       parallelPattern
	hasSync    bool
	iterations complexity.Expression
	body       complexity.Expression
	taskSum    complexity.Expression
	taskMax    complexity.Expression
}

func (pw *parallelWalker) consider(p parallelPattern) bool {
	if p > pw.best {
		pw.best = p
		return true
	}
	return false
}

func (pw *parallelWalker) walkStmt(s hostiface.Stmt) {
	if s == nil {
		return
	}
	switch s.Kind() {
	case hostiface.StmtBlock:
		for _, stmt := range s.(hostiface.BlockStmt).Statements() {
			pw.walkStmt(stmt)
		}
	case hostiface.StmtExpr:
		pw.walkExpr(s.(hostiface.ExprStmt).Expression())
	case hostiface.StmtIf:
		ifs := s.(hostiface.IfStmt)
		pw.walkStmt(ifs.Then())
		pw.walkStmt(ifs.Else())
	case hostiface.StmtFor, hostiface.StmtForEach, hostiface.StmtWhile, hostiface.StmtDoWhile:
		loop := s.(hostiface.LoopStmt)
		pw.scanLoopBody(loop)
		pw.walkStmt(loop.Body())
	case hostiface.StmtVarDecl:
		pw.walkExpr(s.(hostiface.VarDeclStmt).Init())
	case hostiface.StmtReturn:
		pw.walkExpr(s.(hostiface.ReturnStmt).Value())
	}
}

func (pw *parallelWalker) scanLoopBody(loop hostiface.LoopStmt) {
	name := strings.ToLower(loopCollectionText(loop))
	if !strings.Contains(name, "parallel") {
		return
	}
	w := &walker{ctx: pw.ctx}
	iterations, _ := w.iterationCount(loop)
	body := w.walkStmt(loop.Body())
	if stmtMentionsAny(loop.Body(), sharedStateMarkers) {
		pw.hasSync = true
	}
	if containsFold(name, "Reduce") || containsFold(name, "Aggregate") {
		if pw.consider(patternParallelReduce) {
			pw.iterations, pw.body = iterations, body
		}
		return
	}
	if pw.consider(patternParallelFor) {
		pw.iterations, pw.body = iterations, body
	}
}

func loopCollectionText(loop hostiface.LoopStmt) string {
	if loop.Collection() != nil {
		return loop.Collection().Text()
	}
	return ""
}

func containsMarker(text string, markers []string) bool {
	lower := strings.ToLower(text)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// stmtMentionsAny reports whether any expression reachable from s has
// source text containing one of markers, used for the shared-state
// heuristic (spec §4.3.4) since hostiface exposes no structured lock
// construct.
func stmtMentionsAny(s hostiface.Stmt, markers []string) bool {
	found := false
	var walkS func(hostiface.Stmt)
	var walkE func(hostiface.Expr)
	walkE = func(e hostiface.Expr) {
		if e == nil || found {
			return
		}
		if containsMarker(e.Text(), markers) {
			found = true
			return
		}
		for _, c := range e.Children() {
			walkE(c)
		}
	}
	walkS = func(st hostiface.Stmt) {
		if st == nil || found {
			return
		}
		switch st.Kind() {
		case hostiface.StmtBlock:
			for _, stmt := range st.(hostiface.BlockStmt).Statements() {
				walkS(stmt)
			}
		case hostiface.StmtExpr:
			walkE(st.(hostiface.ExprStmt).Expression())
		case hostiface.StmtIf:
			ifs := st.(hostiface.IfStmt)
			walkS(ifs.Then())
			walkS(ifs.Else())
		case hostiface.StmtVarDecl:
			walkE(st.(hostiface.VarDeclStmt).Init())
		case hostiface.StmtReturn:
			walkE(st.(hostiface.ReturnStmt).Value())
		case hostiface.StmtFor, hostiface.StmtForEach, hostiface.StmtWhile, hostiface.StmtDoWhile:
			walkS(st.(hostiface.LoopStmt).Body())
		}
	}
	walkS(s)
	return found
}

func (pw *parallelWalker) walkExpr(e hostiface.Expr) {
	if e == nil {
		return
	}
	if e.Kind() == hostiface.ExprCall {
		call := e.(hostiface.CallExpr)
		name := call.MethodName()
		switch {
		case containsFold(name, "WhenAll") || containsFold(name, "AwaitAll") || containsFold(name, "Join"):
			pw.accumulateTasks(call, true)
		case containsFold(name, "Await"):
			pw.accumulateTasks(call, false)
		}
		if containsMarker(name, sharedStateMarkers) {
			pw.hasSync = true
		}
	}
	for _, c := range e.Children() {
		pw.walkExpr(c)
	}
}

func (pw *parallelWalker) accumulateTasks(call hostiface.CallExpr, parallel bool) {
	w := &walker{ctx: pw.ctx}
	sum := complexity.Expression(complexity.Zero)
	max := complexity.Expression(complexity.Zero)
	for _, arg := range call.Arguments() {
		cost := w.walkExpr(arg)
		sum = complexity.Add(sum, cost)
		max = complexity.Max(max, cost)
	}
	if parallel {
		if pw.consider(patternTaskAwaitAll) {
			pw.taskSum, pw.taskMax = sum, max
		}
	} else {
		if pw.consider(patternSequentialAwait) {
			pw.taskSum, pw.taskMax = sum, sum
		}
	}
}
