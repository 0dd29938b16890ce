// Package bcl implements the BCL (base class library) table (spec
// §4.2): a process-wide, immutable registry mapping known library
// signatures to complexity expressions with source attribution and
// notes. Its shape is grounded on the teacher's internal/stdlib package
// (ModuleDefinition/FunctionDefinition, built once and looked up by
// name) and internal/types.TypeRegistry's lookup-with-fallback style.
package bcl

import "github.com/kanso-complexity/complexity/internal/complexity"

// Source tags where a ComplexityMapping's figure came from (spec §3).
type Source int

const (
	SourceDocumented Source = iota
	SourceAttested
	SourceEmpirical
	SourceInferred
	SourceHeuristic
)

func (s Source) String() string {
	switch s {
	case SourceDocumented:
		return "Documented"
	case SourceAttested:
		return "Attested"
	case SourceEmpirical:
		return "Empirical"
	case SourceInferred:
		return "Inferred"
	default:
		return "Heuristic"
	}
}

// NoteFlag annotates special semantics a caller must account for beyond
// the raw complexity figure.
type NoteFlag string

const (
	NoteAmortized          NoteFlag = "Amortized"
	NoteDeferredExecution  NoteFlag = "DeferredExecution"
	NoteBacktrackingWarn   NoteFlag = "BacktrackingWarning"
	NoteInputDependent     NoteFlag = "InputDependent"
	NoteThreadSafe         NoteFlag = "ThreadSafe"
	NoteUnknown            NoteFlag = "Unknown"
)

// GenericVariable is the placeholder data-count variable every
// Mapping.Complexity expression in this package is expressed over (e.g.
// "List.Sort" is O(n log n) in this variable, not in any particular
// caller's parameter). Consumers instantiating a mapping at a call site
// substitute it for the call's actual receiver variable.
var GenericVariable = complexity.Variable{Name: "n", Role: complexity.RoleDataCount}

// Mapping is one BCL table entry (spec §3 ComplexityMapping).
type Mapping struct {
	Complexity complexity.Expression
	Source     Source
	Notes      []NoteFlag
}

// HasNote reports whether m carries the given flag.
func (m Mapping) HasNote(flag NoteFlag) bool {
	for _, n := range m.Notes {
		if n == flag {
			return true
		}
	}
	return false
}

// key identifies one signature: declaring type, method name, and
// argument count (-1 matches any arg count during fallthrough lookup).
type key struct {
	declaringType string
	method        string
	argCount      int
}
