// Package diag implements this analyzer's diagnostic model (spec §7):
// errors are values, never exceptions. Adapted directly from the
// teacher's internal/errors package (ErrorReporter's Rust-style caret
// formatting, its Code/Suggestion/Note shape), retargeted from
// ast.Position to hostiface.Position and from compiler error codes to
// the analyzer's own taxonomy.
package diag

// Code ranges for this analyzer's diagnostics, mirroring the teacher's
// own documented E0xxx range layout.
//
// C0001-C0099: structural (missing body, unresolvable symbol, ...)
// C0100-C0199: loop bound analysis
// C0200-C0299: inter-procedural / call graph
// C0300-C0399: solver gap / recurrence
// C0400-C0499: numerical (non-convergence, divergence)
// C0500-C0599: host-adapter faults
// C0900-C0999: informational (annotation accepted, etc.)
const (
	CodeMissingBody            = "C0001"
	CodeUnrecognizedExpression = "C0002"
	CodeUnresolvedSymbol       = "C0003"

	CodeLoopBoundUnknown = "C0101"

	CodeMutualRecursionHeuristic = "C0201"

	CodeSolverGap          = "C0301"
	CodeRecurrenceNotSolved = "C0302"

	CodeNumericalNonConvergence = "C0401"
	CodeNumericalDivergence     = "C0402"

	CodeHostAdapterFault = "C0501"

	CodeAnnotationAccepted = "C0901"
)
