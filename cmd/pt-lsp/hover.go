package main

import (
	"context"
	"fmt"

	"github.com/signadot/ptree/span"
	"go.lsp.dev/protocol"
)

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return nil, nil
	}
	snap := doc.snapshot()
	if snap.res == nil {
		return nil, nil
	}
	off := snap.pos.Offset(int(params.Position.Line), int(params.Position.Character))
	i := span.At(snap.res.Spans, uint32(off))
	if i < 0 {
		return nil, nil
	}
	sp := snap.res.Spans[i]
	r := rangeOf(snap.pos, int(sp.Start), int(sp.End))
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hoverText(sp, s.lsp.TokenType(sp.Label)),
		},
		Range: &r,
	}, nil
}

func hoverText(sp span.Span, tokenType string) string {
	if sp.Category == span.Error {
		return fmt.Sprintf("**syntax error** `[%d,%d)`", sp.Start, sp.End)
	}
	return fmt.Sprintf("**%s** (%s) `[%d,%d)`", sp.Label, tokenType, sp.Start, sp.End)
}
