package extract

import (
	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/hostiface"
)

// probabilisticPattern orders the detected-pattern priority table (spec
// §4.3.4 "The dominant pattern (by a fixed priority table) governs the
// aggregate"), highest first.
type probabilisticPattern int

const (
	probNone probabilisticPattern = iota
	probHashAccess
	probMonteCarlo
	probRandomPivot
	probShuffle
)

// analyzeProbabilistic implements spec §4.3.4's probabilistic
// sub-analysis, returning nil when no recognized pattern is present.
func analyzeProbabilistic(ctx *AnalysisContext, body hostiface.BlockStmt) *complexity.Probabilistic {
	best := probNone
	var tag string
	n := complexity.Variable{Name: "n", Role: complexity.RoleDataCount}

	scan(body, func(e hostiface.Expr) {
		if e == nil || e.Kind() != hostiface.ExprCall {
			return
		}
		call := e.(hostiface.CallExpr)
		name := call.MethodName()
		declType := call.DeclaringTypeName()

		switch {
		case containsFold(declType, "HashSet") || containsFold(declType, "HashMap") || containsFold(declType, "Dictionary"):
			if probHashAccess > best {
				best, tag = probHashAccess, "hash-based-container-access"
			}
		case containsFold(name, "Shuffle"):
			if probShuffle > best {
				best, tag = probShuffle, "fisher-yates-shuffle"
			}
		case containsFold(name, "MonteCarlo") || containsFold(name, "Sample") || containsFold(name, "Estimate"):
			if probMonteCarlo > best {
				best, tag = probMonteCarlo, "monte-carlo-predicate"
			}
		case containsFold(name, "Random") || containsFold(name, "NextInt") || containsFold(name, "Rand"):
			if containsFold(name, "Pivot") {
				if probRandomPivot > best {
					best, tag = probRandomPivot, "random-pivot-selection"
				}
			} else if probHashAccess > best {
				best, tag = probHashAccess, "random-number-api"
			}
		}
	})

	if best == probNone {
		return nil
	}

	switch best {
	case probHashAccess:
		return &complexity.Probabilistic{
			Expected:     complexity.One,
			Worst:        complexity.NewVar(n),
			SourceTag:    tag,
			Distribution: complexity.DistUniform,
			Assumptions:  []string{"hash function distributes keys uniformly"},
		}
	case probShuffle:
		return &complexity.Probabilistic{
			Expected:     complexity.NewVar(n),
			Worst:        complexity.NewVar(n),
			SourceTag:    tag,
			Distribution: complexity.DistUniform,
		}
	case probRandomPivot:
		return &complexity.Probabilistic{
			Expected:     complexity.NewPolyLog(1, 1, n),
			Worst:        complexity.NewPolyLog(2, 0, n),
			SourceTag:    tag,
			Distribution: complexity.DistGeometric,
			Assumptions:  []string{"pivot chosen uniformly at random each partition"},
		}
	case probMonteCarlo:
		return &complexity.Probabilistic{
			Expected:     complexity.NewVar(n),
			Worst:        complexity.NewVar(n),
			SourceTag:    tag,
			Distribution: complexity.DistHighProbabilityBound,
			Assumptions:  []string{"fixed number of sampling trials"},
		}
	}
	return nil
}

// scan walks every expression reachable from s, depth-first, invoking
// visit once per node. Shared by the probabilistic sub-analysis (and
// available to any future sub-analysis needing a plain expression
// sweep independent of cost accumulation).
func scan(s hostiface.Stmt, visit func(hostiface.Expr)) {
	if s == nil {
		return
	}
	switch s.Kind() {
	case hostiface.StmtBlock:
		for _, stmt := range s.(hostiface.BlockStmt).Statements() {
			scan(stmt, visit)
		}
	case hostiface.StmtExpr:
		scanExpr(s.(hostiface.ExprStmt).Expression(), visit)
	case hostiface.StmtVarDecl:
		scanExpr(s.(hostiface.VarDeclStmt).Init(), visit)
	case hostiface.StmtReturn:
		scanExpr(s.(hostiface.ReturnStmt).Value(), visit)
	case hostiface.StmtIf:
		ifs := s.(hostiface.IfStmt)
		scanExpr(ifs.Condition(), visit)
		scan(ifs.Then(), visit)
		scan(ifs.Else(), visit)
	case hostiface.StmtSwitch:
		for _, arm := range s.(hostiface.SwitchStmt).Arms() {
			scan(arm, visit)
		}
	case hostiface.StmtTry:
		t := s.(hostiface.TryStmt)
		scan(t.Try(), visit)
		for _, c := range t.Catches() {
			scan(c, visit)
		}
		scan(t.Finally(), visit)
	case hostiface.StmtFor, hostiface.StmtForEach, hostiface.StmtWhile, hostiface.StmtDoWhile:
		loop := s.(hostiface.LoopStmt)
		scanExpr(loop.Condition(), visit)
		scan(loop.Body(), visit)
	}
}

func scanExpr(e hostiface.Expr, visit func(hostiface.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	for _, c := range e.Children() {
		scanExpr(c, visit)
	}
}
