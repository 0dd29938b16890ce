package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter formats Diagnostics with Rust-style caret context, adapted
// directly from the teacher's internal/errors.ErrorReporter (same
// header / location / context-line / suggestion / note layout), here
// driven by hostiface.Position instead of ast.Position.
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter builds a Reporter over one file's source text. source may
// be empty when no text is available (the reporter then omits context
// lines and prints only the header).
func NewReporter(filename, source string) *Reporter {
	var lines []string
	if source != "" {
		lines = strings.Split(source, "\n")
	}
	return &Reporter{filename: filename, lines: lines}
}

// Format renders one Diagnostic.
func (r *Reporter) Format(d Diagnostic) string {
	var b strings.Builder

	levelColor := r.levelColor(d.Severity)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if d.Code != "" {
		fmt.Fprintf(&b, "%s[%s]: %s\n", levelColor(string(d.Severity)), d.Code, d.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", levelColor(string(d.Severity)), d.Message)
	}

	if d.Position.Line > 0 {
		width := lineNumberWidth(d.Position.Line)
		indent := strings.Repeat(" ", width)
		fmt.Fprintf(&b, "%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, d.Position.Line, d.Position.Column)
		fmt.Fprintf(&b, "%s %s\n", indent, dim("│"))

		if d.Position.Line <= len(r.lines) {
			line := r.lines[d.Position.Line-1]
			fmt.Fprintf(&b, "%s %s %s\n", bold(pad(d.Position.Line, width)), dim("│"), line)
			marker := r.marker(d)
			fmt.Fprintf(&b, "%s %s %s\n", indent, dim("│"), marker)
		}
	}

	for i, s := range d.Suggestions {
		help := color.New(color.FgCyan).SprintFunc()
		if i == 0 {
			fmt.Fprintf(&b, "  %s: %s\n", help("help"), s.Message)
		} else {
			fmt.Fprintf(&b, "        %s\n", s.Message)
		}
	}
	for _, n := range d.Notes {
		note := color.New(color.FgBlue).SprintFunc()
		fmt.Fprintf(&b, "  %s %s\n", note("note:"), n)
	}

	return b.String()
}

func (r *Reporter) levelColor(s Severity) func(a ...interface{}) string {
	switch s {
	case SeverityError:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case SeverityWarning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgBlue).SprintFunc()
	}
}

func (r *Reporter) marker(d Diagnostic) string {
	col := d.Position.Column
	if col < 1 {
		col = 1
	}
	length := 1
	indicator := color.New(color.FgRed, color.Bold).SprintFunc()
	return strings.Repeat(" ", col-1) + indicator(strings.Repeat("^", length))
}

func lineNumberWidth(line int) int {
	width := 1
	for line >= 10 {
		line /= 10
		width++
	}
	return width
}

func pad(n, width int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) < width {
		s = strings.Repeat(" ", width-len(s)) + s
	}
	return s
}
