package extract

import (
	"strings"

	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/recurrence"
)

// parseAnnotation accepts the literal forms spec §6 documents: O(1),
// O(log n), O(n), O(n log n), O(n^k), O(k^n), O(n!).
func parseAnnotation(literal string) (complexity.Expression, bool) {
	s := strings.TrimSpace(literal)
	s = strings.TrimPrefix(s, "O(")
	s = strings.TrimSuffix(s, ")")
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)

	v := complexity.Variable{Name: "n", Role: complexity.RoleInputSize}

	switch s {
	case "1":
		return complexity.One, true
	case "log n", "logn":
		return complexity.NewLogOf(complexity.NewVar(v), 2), true
	case "n":
		return complexity.NewVar(v), true
	case "n log n", "nlogn":
		return complexity.NewPolyLog(1, 1, v), true
	case "n!":
		return complexity.NewFactorial(v, 1), true
	}

	if strings.HasSuffix(s, "^n") {
		base, ok := parseFloatLoose(strings.TrimSuffix(s, "^n"))
		if ok {
			return complexity.NewExp(base, v, 1), true
		}
	}
	if strings.HasPrefix(s, "n^") {
		exp, ok := parseFloatLoose(strings.TrimPrefix(s, "n^"))
		if ok {
			return complexity.NewPolyLog(exp, 0, v), true
		}
	}
	return nil, false
}

// trustedAnnotationConfidence reflects spec §6's "default is to trust
// the annotation when present": a VeryHigh-level assessment whose sole
// factor is the annotation source itself.
func trustedAnnotationConfidence() recurrence.ConfidenceAssessment {
	return recurrence.ComputeConfidence(
		[]recurrence.ConfidenceFactor{
			{Name: "annotation-trusted", Score: 1.0, Weight: recurrence.WeightSource},
		},
		nil,
		"trusted a declared Complexity(...) annotation",
	)
}

// lowConfidence builds the VeryLow-level assessment used for structural
// fallbacks (spec §7 "the worst outcome for any single procedure is
// requires_review = true with confidence VeryLow").
func lowConfidence(reason string) recurrence.ConfidenceAssessment {
	return recurrence.ComputeConfidence(
		[]recurrence.ConfidenceFactor{
			{Name: "structural-fallback", Score: 0.05, Weight: recurrence.WeightSource},
		},
		[]string{reason},
		"treat this result as a lower bound only; "+reason,
	)
}

// highConfidenceDirect is used when a procedure's cost was derived
// directly from the walk with no recursion involved, so no solver
// uncertainty applies.
func highConfidenceDirect() recurrence.ConfidenceAssessment {
	return recurrence.ComputeConfidence(
		[]recurrence.ConfidenceFactor{
			{Name: "direct-composition", Score: 0.97, Weight: recurrence.WeightSource},
			{Name: "expression-simple", Score: 0.9, Weight: recurrence.WeightExpressionSimple},
		},
		nil,
		"",
	)
}
