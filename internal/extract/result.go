package extract

import (
	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/diag"
	"github.com/kanso-complexity/complexity/internal/recurrence"
)

// ProcedureResult is the produced result schema (spec §6), one per
// analyzed procedure.
type ProcedureResult struct {
	Name     string
	File     string
	Line     int

	TimeComplexity        complexity.Expression
	SpaceComplexity       complexity.Expression // nil if not computed
	ParallelComplexity    *complexity.Parallel  // nil if no parallel pattern detected
	Probabilistic         *complexity.Probabilistic
	Confidence            recurrence.ConfidenceAssessment
	RequiresReview        bool
	Diagnostics           []diag.Diagnostic
}

// ToBigO renders the canonical big-O string for the time complexity,
// matching spec §6 "Expression.to_big_o() is the canonical string
// form."
func (r ProcedureResult) ToBigO() string {
	return complexity.ToBigO(r.TimeComplexity)
}
