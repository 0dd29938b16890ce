// Package recurrence implements the recurrence solver (spec §4.5):
// Master Theorem and Akra-Bazzi case dispatch, subtract-form linear
// recurrence solving via characteristic polynomials, and a refinement
// pipeline that tightens theorem-derived bounds near boundary cases and
// attaches a confidence assessment. Its shape follows the teacher's
// internal/ir optimization passes: a fixed dispatch order over a sum
// type, each stage returning either a solved result or a reason to try
// the next stage, never panicking on an unsolvable input (spec §7
// "errors are values, not exceptions").
package recurrence

import (
	"math"

	"github.com/kanso-complexity/complexity/internal/complexity"
)

// Level buckets an overall confidence score (spec §3 ConfidenceAssessment).
type Level int

const (
	VeryLow Level = iota
	Low
	Medium
	High
	VeryHigh
)

func (l Level) String() string {
	switch l {
	case VeryLow:
		return "VeryLow"
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return "VeryHigh"
	}
}

// LevelFromScore applies the fixed thresholds from spec §4.5.4.
func LevelFromScore(overall float64) Level {
	switch {
	case overall >= 0.9:
		return VeryHigh
	case overall >= 0.75:
		return High
	case overall >= 0.5:
		return Medium
	case overall >= 0.25:
		return Low
	default:
		return VeryLow
	}
}

// ConfidenceFactor is one named, weighted input to the overall score.
type ConfidenceFactor struct {
	Name   string
	Score  float64 // in [0, 1]
	Weight float64
}

// Fixed factor weights (spec §4.5.4).
const (
	WeightSource             = 1.5
	WeightVerification       = 1.3
	WeightTheoremApplicable  = 1.2
	WeightNumericalStability = 1.0
	WeightExpressionSimple   = 0.8
)

// ConfidenceAssessment is the solver's self-reported trust in a result
// (spec §3).
type ConfidenceAssessment struct {
	Overall        float64
	Level          Level
	Factors        []ConfidenceFactor
	Warnings       []string
	Recommendation string
}

// ComputeConfidence combines factors by weighted geometric mean (spec
// §4.5.4): exp(sum(weight*ln(score)) / sum(weight)). A zero score on any
// factor collapses the whole product to (near) zero, matching the
// intent that a single badly-trusted factor should dominate the
// assessment rather than be averaged away.
func ComputeConfidence(factors []ConfidenceFactor, warnings []string, recommendation string) ConfidenceAssessment {
	const floor = 1e-6
	var weightedLogSum, weightSum float64
	for _, f := range factors {
		s := f.Score
		if s < floor {
			s = floor
		}
		if s > 1 {
			s = 1
		}
		weightedLogSum += f.Weight * math.Log(s)
		weightSum += f.Weight
	}
	overall := 0.0
	if weightSum > 0 {
		overall = math.Exp(weightedLogSum / weightSum)
	}
	return ConfidenceAssessment{
		Overall:        overall,
		Level:          LevelFromScore(overall),
		Factors:        append([]ConfidenceFactor(nil), factors...),
		Warnings:       append([]string(nil), warnings...),
		Recommendation: recommendation,
	}
}

// MasterCase identifies which of the Master Theorem's three cases applied.
type MasterCase int

const (
	Case1 MasterCase = 1
	Case2 MasterCase = 2
	Case3 MasterCase = 3
)

// MasterApplicable is the result of a successful Master Theorem dispatch
// (spec §4.5.1).
type MasterApplicable struct {
	MasterCase          MasterCase
	A                   float64
	B                   float64
	LogBA               float64
	Epsilon             float64
	K                   float64 // f's polynomial degree
	RegularityVerified  bool
	Solution            complexity.Expression
}

// AkraBazziApplicable is the result of a successful Akra-Bazzi dispatch
// (spec §4.5.2).
type AkraBazziApplicable struct {
	P        float64
	Terms    []complexity.RecurrenceTerm
	Integral string // human-readable driving-integral classification
	Solution complexity.Expression
}

// LinearMethod names how a subtract-form recurrence was solved.
type LinearMethod int

const (
	MethodSummation LinearMethod = iota
	MethodCharacteristicPolynomial
)

func (m LinearMethod) String() string {
	if m == MethodSummation {
		return "summation"
	}
	return "characteristic-polynomial"
}

// LinearRoot is one root of a characteristic polynomial, reported for
// diagnostics (spec §4.5.3 "report the full root set").
type LinearRoot struct {
	Real         float64
	Imag         float64
	Multiplicity int
}

// LinearSolved is the result of a successful subtract-form linear solve.
type LinearSolved struct {
	Solution complexity.Expression
	Method   LinearMethod
	Roots    []LinearRoot
}

// NotApplicable carries a reason and remediation hints when no solver
// stage could resolve the recurrence (spec §4.5 Applicability, §7
// "solver gap").
type NotApplicable struct {
	Reason      string
	Suggestions []string
}

// Applicability is the sealed result of analyzing one recurrence (spec
// §4.5). Exactly one of these fields is non-nil.
type Applicability struct {
	Master    *MasterApplicable
	AkraBazzi *AkraBazziApplicable
	Linear    *LinearSolved
	Not       *NotApplicable
}

// Solved reports whether any stage produced a closed form.
func (a Applicability) Solved() bool { return a.Not == nil }

// Expression returns the closed-form solution, or nil if unsolved.
func (a Applicability) Expression() complexity.Expression {
	switch {
	case a.Master != nil:
		return a.Master.Solution
	case a.AkraBazzi != nil:
		return a.AkraBazzi.Solution
	case a.Linear != nil:
		return a.Linear.Solution
	default:
		return nil
	}
}
