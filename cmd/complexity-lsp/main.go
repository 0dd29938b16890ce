// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/kanso-complexity/complexity/internal/applog"
	"github.com/kanso-complexity/complexity/internal/resultserver"
)

const lsName = "complexity-lsp"

var version = "0.1.0"

func main() {
	applog.Configure(1)

	h := resultserver.NewHandler()

	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		SetTrace:              h.SetTrace,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
		TextDocumentHover:     h.TextDocumentHover,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting complexity LSP server...")

	if err := s.RunStdio(); err != nil {
		log.Println("Error starting complexity LSP server:", err)
		os.Exit(1)
	}
}
