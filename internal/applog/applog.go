// Package applog centralizes the one logging-backend setup call shared
// by the CLI and the LSP entry points, mirroring cmd/kanso-lsp/main.go's
// commonlog.Configure(1, nil) call site. Call sites still log through
// the standard library's log package, exactly as kanso-lsp's handler
// does; commonlog only configures the backend glsp's server consults.
package applog

import "github.com/tliron/commonlog"

// Configure sets up process-wide logging at the given verbosity.
func Configure(verbosity int) {
	commonlog.Configure(verbosity, nil)
}
