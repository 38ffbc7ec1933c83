// Package lsp serves parse diagnostics for open pie documents over the
// Language Server Protocol.
package lsp

import (
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/pie-lang/pie/pkg/diagnostic"
	"github.com/pie-lang/pie/pkg/parser"
)

const serverName = "pie"

var log = commonlog.GetLogger("pie.lsp")

// Server keeps the text of open documents and republishes diagnostics each
// time one changes.
type Server struct {
	version string
	parser  *parser.Parser
	handler protocol.Handler
	server  *server.Server

	mu        sync.Mutex
	documents map[protocol.DocumentUri]string
}

// NewServer wires a language server around p.
func NewServer(p *parser.Parser, version string) *Server {
	s := &Server{
		version:   version,
		parser:    p,
		documents: map[protocol.DocumentUri]string{},
	}
	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.didOpen,
		TextDocumentDidChange: s.didChange,
		TextDocumentDidSave:   s.didSave,
		TextDocumentDidClose:  s.didClose,
	}
	s.server = server.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio serves on stdin/stdout until the client disconnects.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	openClose := true
	change := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
		Save:      &protocol.SaveOptions{IncludeText: &openClose},
	}
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("open %s", params.TextDocument.URI)
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	switch change := params.ContentChanges[len(params.ContentChanges)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		s.update(ctx, params.TextDocument.URI, change.Text)
	default:
		log.Warningf("ignoring incremental change to %s", params.TextDocument.URI)
	}
	return nil
}

func (s *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("close %s", uri)
	s.mu.Lock()
	delete(s.documents, uri)
	s.mu.Unlock()
	publish(ctx, uri, []protocol.Diagnostic{})
	return nil
}

// Document returns the last text received for uri.
func (s *Server) Document(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.documents[uri]
	return text, ok
}

func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	s.documents[uri] = text
	s.mu.Unlock()

	_, err := s.parser.Parse(text)
	publish(ctx, uri, Diagnostics([]byte(text), err))
}

func publish(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnostics converts a parse result into LSP diagnostics: none on success,
// one covering the error span otherwise. Positions use UTF-16 code units.
func Diagnostics(source []byte, err error) []protocol.Diagnostic {
	if err == nil {
		return []protocol.Diagnostic{}
	}
	severity := protocol.DiagnosticSeverityError
	origin := serverName
	perr, ok := parser.AsError(err)
	if !ok {
		return []protocol.Diagnostic{{
			Severity: &severity,
			Source:   &origin,
			Message:  err.Error(),
		}}
	}
	rng := diagnostic.RangeOf(source, perr.Span())
	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: position(rng.Start),
			End:   position(rng.End),
		},
		Severity: &severity,
		Source:   &origin,
		Message:  perr.Title() + ": " + perr.Help(),
	}}
}

func position(p diagnostic.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(max(p.Line-1, 0)),
		Character: protocol.UInteger(p.Character),
	}
}
