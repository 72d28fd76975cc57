// Package lsp serves Arvo syntax diagnostics over the Language Server Protocol.
package lsp

import (
	"errors"
	"strings"
	"unicode/utf16"

	"github.com/nihei9/arvo/driver/parser"
	"github.com/nihei9/arvo/syntax"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const (
	lsName = "arvo"

	methodPublishDiagnostics = "textDocument/publishDiagnostics"
)

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	opts    []parser.ParserOption
	log     commonlog.Logger
}

// NewServer returns a language server. `opts` are passed to the parser on every parse.
func NewServer(version string, opts ...parser.ParserOption) *Server {
	s := &Server{
		version: version,
		opts:    opts,
		log:     commonlog.GetLogger("arvo.lsp"),
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.log.Info("initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// The server asks for full synchronization, so the last change holds the whole document.
	switch change := params.ContentChanges[len(params.ContentChanges)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		s.update(ctx, params.TextDocument.URI, change.Text)
	case protocol.TextDocumentContentChangeEvent:
		s.log.Warningf("ignored an incremental change: %v", params.TextDocument.URI)
	}
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	// Clear the diagnostics of the closed document.
	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diags, err := s.check(text)
	if err != nil {
		s.log.Errorf("failed to parse %v: %v", uri, err)
		return
	}
	s.log.Debugf("%v: %v diagnostics", uri, len(diags))

	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func (s *Server) check(text string) ([]protocol.Diagnostic, error) {
	res, err := syntax.Parse(strings.NewReader(text), s.opts...)
	if err != nil {
		return nil, err
	}
	return diagnostics(text, res), nil
}

// diagnostics converts the syntax errors of `res` into diagnostics. The parser counts rows and columns
// from 1 in code points while the protocol counts lines from 0 and characters in UTF-16 code units.
func diagnostics(text string, res *syntax.Result) []protocol.Diagnostic {
	lines := strings.Split(text, "\n")
	diags := []protocol.Diagnostic{}
	for _, synErr := range res.SyntaxErrors {
		var line string
		if synErr.Row >= 1 && synErr.Row <= len(lines) {
			line = lines[synErr.Row-1]
		}
		start := protocol.Position{
			Line:      toUInteger(synErr.Row - 1),
			Character: protocol.UInteger(utf16Len(prefixRunes(line, synErr.Col-1))),
		}
		end := start
		if synErr.Token != nil && !synErr.Token.EOF() {
			end.Character += protocol.UInteger(utf16Len(string(synErr.Token.Lexeme())))
		}
		diags = append(diags, newDiagnostic(protocol.Range{Start: start, End: end}, synErr.Message))
	}

	// An unrecoverable error is already reported as a syntax error.
	if res.Status == parser.StatusAborted && res.Cause != nil && !errors.Is(res.Cause, parser.ErrUnrecoverable) {
		diags = append(diags, newDiagnostic(protocol.Range{}, res.Cause.Error()))
	}

	return diags
}

func newDiagnostic(rng protocol.Range, msg string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Source:   &source,
		Message:  msg,
	}
}

func toUInteger(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n)
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

// prefixRunes returns the first n code points of s. It returns s as is when s is shorter.
func prefixRunes(s string, n int) string {
	for i := range s {
		if n <= 0 {
			return s[:i]
		}
		n--
	}
	return s
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
