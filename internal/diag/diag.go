package diag

import "github.com/kanso-complexity/complexity/internal/hostiface"

// Severity mirrors the teacher's ErrorLevel, renamed to this package's
// own vocabulary.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Suggestion is a remediation hint attached to a Diagnostic (spec §4.5
// NotApplicable's "suggestions").
type Suggestion struct {
	Message string
}

// Diagnostic is one structured finding attached to a ProcedureResult
// (spec §6 result schema, §7 error taxonomy).
type Diagnostic struct {
	Severity    Severity
	Code        string
	Message     string
	Position    hostiface.Position
	Suggestions []Suggestion
	Notes       []string
}

// New builds a Diagnostic with no position information, for findings
// that are not anchored to a specific source location (e.g. a
// module-wide solver gap summary).
func New(severity Severity, code, message string) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message}
}

// At attaches a source position.
func (d Diagnostic) At(pos hostiface.Position) Diagnostic {
	d.Position = pos
	return d
}

// WithSuggestion appends a remediation hint.
func (d Diagnostic) WithSuggestion(message string) Diagnostic {
	d.Suggestions = append(d.Suggestions, Suggestion{Message: message})
	return d
}

// WithNote appends a contextual note.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}
