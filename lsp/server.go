// Package lsp implements a Language Server Protocol server for JSON5
// documents: parse diagnostics on open and change, and whole-document
// formatting that preserves comments.
package lsp

import (
	"errors"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/json5"
)

const lsName = "json5"

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	mu   sync.Mutex
	docs map[protocol.DocumentUri]string
}

func NewServer(version string, debug bool) *Server {
	s := &Server{
		version: version,
		docs:    make(map[protocol.DocumentUri]string),
	}

	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.textDocumentDidOpen,
		TextDocumentDidChange:  s.textDocumentDidChange,
		TextDocumentDidClose:   s.textDocumentDidClose,
		TextDocumentFormatting: s.textDocumentFormatting,
	}

	verbosity := 0
	if debug {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	s.server = server.NewServer(&s.handler, lsName, debug)

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
	s.setDocument(params.TextDocument.URI, params.TextDocument.Text)
	s.publishDiagnostics(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	whole, ok := change.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	s.setDocument(params.TextDocument.URI, whole.Text)
	s.publishDiagnostics(ctx, params.TextDocument.URI, whole.Text)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// textDocumentFormatting reformats the whole document, keeping comments.
// Documents that do not parse come back unchanged: the diagnostics already
// point at the problem.
func (s *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	value, comments, err := json5.ParseWithComments(text)
	if err != nil {
		return nil, nil
	}
	formatted, err := json5.SerializeWithComments(value, comments)
	if err != nil {
		return nil, nil
	}
	formatted += "\n"
	if formatted == text {
		return nil, nil
	}

	return []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   documentEnd(text),
			},
			NewText: formatted,
		},
	}, nil
}

func (s *Server) setDocument(uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()
}

func (s *Server) document(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[uri]
	return text, ok
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diagnostics := []protocol.Diagnostic{}
	if _, err := json5.Parse(text); err != nil {
		diagnostics = append(diagnostics, toDiagnostic(err))
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func toDiagnostic(err error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	message := err.Error()

	var rng protocol.Range
	var perr *json5.Error
	if errors.As(err, &perr) {
		if perr.Code != json5.CodeCustom {
			message = perr.Code.String()
		} else if perr.Message != "" {
			message = perr.Message
		}
		if perr.Pos != nil {
			start := protocol.Position{
				Line:      protocol.UInteger(perr.Pos.Line),
				Character: protocol.UInteger(perr.Pos.Column),
			}
			rng = protocol.Range{
				Start: start,
				End:   protocol.Position{Line: start.Line, Character: start.Character + 1},
			}
		}
	}

	return protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

// documentEnd locates the position one past the last character, in the
// UTF-16 units the protocol counts columns in.
func documentEnd(text string) protocol.Position {
	var line, character protocol.UInteger
	for _, r := range text {
		if r == '\n' {
			line++
			character = 0
			continue
		}
		character += protocol.UInteger(utf16RuneLen(r))
	}
	return protocol.Position{Line: line, Character: character}
}

// utf16RuneLen returns the number of 16-bit words in the UTF-16 encoding
// of the rune, and -1 if the rune cannot be encoded. It matches
// utf16.RuneLen, which is only available from Go 1.23 on.
func utf16RuneLen(r rune) int {
	switch {
	case 0 <= r && r < 0xD800, 0xE000 <= r && r < 0x10000:
		return 1
	case 0x10000 <= r && r <= '\U0010FFFF':
		return 2
	default:
		return -1
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
