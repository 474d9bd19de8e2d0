package main

import (
	"context"
	"errors"

	"github.com/signadot/ptree/engine"
	"github.com/signadot/ptree/pos"
	"github.com/signadot/ptree/span"
	"go.lsp.dev/protocol"
)

const diagSource = "pt"

func (s *Server) publishDiagnostics(ctx context.Context, uri string) {
	doc := s.docs.get(uri)
	if doc == nil {
		return
	}
	diagnostics := validate(doc.snapshot())
	if s.conn != nil {
		s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentURI(uri),
			Diagnostics: diagnostics,
		})
	}
}

func validate(snap *snapshot) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if snap.err != nil {
		msg := snap.err.Error()
		if errors.Is(snap.err, engine.ErrInternal) {
			msg = "internal error: " + msg
		}
		return append(diagnostics, protocol.Diagnostic{
			Range:    protocol.Range{},
			Severity: protocol.DiagnosticSeverityError,
			Message:  msg,
			Source:   diagSource,
		})
	}
	res := snap.res
	if res == nil {
		return diagnostics
	}
	for i := range res.Spans {
		sp := &res.Spans[i]
		if sp.Category != span.Error {
			continue
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    rangeOf(snap.pos, int(sp.Start), int(sp.End)),
			Severity: protocol.DiagnosticSeverityError,
			Message:  "syntax error",
			Source:   diagSource,
		})
	}
	if f := res.Failure; f != nil {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    rangeOf(snap.pos, f.Cursor, f.Cursor),
			Severity: protocol.DiagnosticSeverityError,
			Message:  f.Message,
			Source:   diagSource,
		})
	}
	return diagnostics
}

func position(d *pos.Doc, off int) protocol.Position {
	line, col := d.UTF16(off)
	return protocol.Position{Line: uint32(line), Character: uint32(col)}
}

func rangeOf(d *pos.Doc, start, end int) protocol.Range {
	return protocol.Range{Start: position(d, start), End: position(d, end)}
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.docs.open(uri).update(ctx, []byte(params.TextDocument.Text), params.TextDocument.Version)
	s.publishDiagnostics(ctx, uri)
	return nil
}

// DidChange takes the last change as the new document text; the server
// advertises full sync.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	doc := s.docs.get(uri)
	if doc == nil || len(params.ContentChanges) == 0 {
		return nil
	}
	content := []byte(params.ContentChanges[len(params.ContentChanges)-1].Text)
	doc.update(ctx, content, params.TextDocument.Version)
	s.publishDiagnostics(ctx, uri)
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(string(params.TextDocument.URI))
	return nil
}
