// Package resultserver exposes ProcedureResults over LSP hover text,
// adapted from the teacher's internal/lsp package: same
// glsp.Context/protocol.Handler wiring, same content-cache-by-URI
// shape, but serving inferred time/space complexity instead of
// inferred contract types.
package resultserver

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kanso-complexity/complexity/internal/bcl"
	"github.com/kanso-complexity/complexity/internal/complexity"
	"github.com/kanso-complexity/complexity/internal/config"
	"github.com/kanso-complexity/complexity/internal/diag"
	"github.com/kanso-complexity/complexity/internal/extract"
	"github.com/kanso-complexity/complexity/internal/hostfixture"
)

// Handler implements the LSP methods this server supports: open/change/
// close tracking plus hover, each re-running the complexity analyzer
// over the document's latest text (mirroring KansoHandler's
// content/asts cache, keyed the same way by local file path).
type Handler struct {
	mu       sync.RWMutex
	content  map[string]string
	results  map[string]extract.ModuleResult
	registry *bcl.Registry
	settings config.Settings
}

// NewHandler creates a Handler using the standard BCL table and default
// settings (spec §4.2, §9).
func NewHandler() *Handler {
	return &Handler{
		content:  make(map[string]string),
		results:  make(map[string]extract.ModuleResult),
		registry: bcl.NewDefaultRegistry().Freeze(),
		settings: config.Default(),
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("resultserver Initialize called")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			HoverProvider: ptrBool(true),
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("resultserver Initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("resultserver Shutdown")
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.analyze(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	full, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEvent)
	if !ok {
		return nil
	}
	return h.analyze(ctx, params.TextDocument.URI, full.Text)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.content, path)
	delete(h.results, path)
	h.mu.Unlock()
	return nil
}

// TextDocumentHover reports the hovered procedure's inferred time/space
// complexity and confidence level as markdown.
func (h *Handler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	module, ok := h.results[path]
	h.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	proc := procedureAtLine(module.Procedures, line)
	if proc == nil {
		return nil, nil
	}

	value := fmt.Sprintf("**%s**\n\ntime: `%s`\n\nspace: `%s`\n\nconfidence: %s",
		proc.Name, proc.ToBigO(), complexity.ToBigO(proc.SpaceComplexity), proc.Confidence.Level)
	if proc.RequiresReview {
		value += "\n\n_flagged for manual review_"
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value},
	}, nil
}

// procedureAtLine picks the procedure whose declaration line is the
// closest one at or before line, the same "nearest preceding
// declaration" heuristic editors use absent full end-of-body tracking.
func procedureAtLine(procs []extract.ProcedureResult, line int) *extract.ProcedureResult {
	var best *extract.ProcedureResult
	for i := range procs {
		p := &procs[i]
		if p.Line > line {
			continue
		}
		if best == nil || p.Line > best.Line {
			best = p
		}
	}
	return best
}

func (h *Handler) analyze(ctx *glsp.Context, rawURI protocol.DocumentUri, text string) error {
	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	tree, parseErr := hostfixture.Parse(path, text)
	if parseErr != nil {
		sendDiagnosticNotification(ctx, rawURI, []protocol.Diagnostic{{
			Range:    protocol.Range{Start: protocol.Position{Line: 0, Character: 0}, End: protocol.Position{Line: 0, Character: 1}},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("complexity-parser"),
			Message:  parseErr.Error(),
		}})
		return nil
	}

	module := extract.AnalyzeModule(context.Background(), tree, h.registry, h.settings)

	h.mu.Lock()
	h.results[path] = module
	h.mu.Unlock()

	var diagnostics []protocol.Diagnostic
	for _, proc := range module.Procedures {
		diagnostics = append(diagnostics, diagnosticsFor(proc.Diagnostics)...)
	}
	diagnostics = append(diagnostics, diagnosticsFor(module.Diagnostics)...)
	sendDiagnosticNotification(ctx, rawURI, diagnostics)
	return nil
}

// diagnosticsFor converts this analyzer's own diag.Diagnostic findings
// into LSP protocol diagnostics (mirroring ConvertParseErrors'
// 0-based-range conversion).
func diagnosticsFor(ds []diag.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(ds))
	for _, d := range ds {
		line := d.Position.Line - 1
		if line < 0 {
			line = 0
		}
		col := d.Position.Column - 1
		if col < 0 {
			col = 0
		}
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
				End:   protocol.Position{Line: uint32(line), Character: uint32(col + 1)},
			},
			Severity: ptrSeverity(severityFor(d.Severity)),
			Source:   ptrString("complexity"),
			Message:  d.Message,
		})
	}
	return out
}

func severityFor(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.SeverityError:
		return protocol.DiagnosticSeverityError
	case diag.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
