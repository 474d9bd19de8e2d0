package main

import (
	"bytes"
	"context"

	"github.com/signadot/ptree/pos"
	"github.com/signadot/ptree/span"
	"go.lsp.dev/protocol"
)

type semToken struct {
	line, char, length uint32
	typ                uint32
}

// collectTokens turns token spans into per line editor tokens.  Spans
// covering several lines are split at newlines.  Only spans overlapping
// [from, to) are kept.
func collectTokens(src []byte, d *pos.Doc, spans []span.Span, typeOf func(string) uint32, from, to int) []semToken {
	var res []semToken
	for i := range spans {
		sp := &spans[i]
		if sp.Category != span.Token || sp.Start == sp.End {
			continue
		}
		start, end := int(sp.Start), min(int(sp.End), len(src))
		if end <= from || start >= to {
			continue
		}
		typ := typeOf(sp.Label)
		for start < end {
			lineEnd := end
			if nl := bytes.IndexByte(src[start:end], '\n'); nl >= 0 {
				lineEnd = start + nl
			}
			if lineEnd > start {
				l, c := d.UTF16(start)
				_, ec := d.UTF16(lineEnd)
				res = append(res, semToken{line: uint32(l), char: uint32(c), length: uint32(ec - c), typ: typ})
			}
			start = lineEnd + 1
		}
	}
	return res
}

// encodeTokens delta encodes tokens, which must be in document order.
func encodeTokens(toks []semToken) []uint32 {
	data := make([]uint32, 0, 5*len(toks))
	var prevLine, prevChar uint32
	for _, t := range toks {
		deltaLine := t.line - prevLine
		deltaChar := t.char
		if deltaLine == 0 {
			deltaChar = t.char - prevChar
		}
		data = append(data, deltaLine, deltaChar, t.length, t.typ, 0)
		prevLine, prevChar = t.line, t.char
	}
	return data
}

func (s *Server) semanticTokens(uri string, rng *protocol.Range) *protocol.SemanticTokens {
	doc := s.docs.get(uri)
	if doc == nil {
		return &protocol.SemanticTokens{Data: []uint32{}}
	}
	snap := doc.snapshot()
	if snap.res == nil {
		return &protocol.SemanticTokens{Data: []uint32{}}
	}
	from, to := 0, len(snap.content)
	if rng != nil {
		from = snap.pos.Offset(int(rng.Start.Line), int(rng.Start.Character))
		to = snap.pos.Offset(int(rng.End.Line), int(rng.End.Character))
	}
	toks := collectTokens(snap.content, snap.pos, snap.res.Spans, s.tokenType, from, to)
	return &protocol.SemanticTokens{Data: encodeTokens(toks)}
}

func (s *Server) SemanticTokensFull(ctx context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	return s.semanticTokens(string(params.TextDocument.URI), nil), nil
}

func (s *Server) SemanticTokensRange(ctx context.Context, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	return s.semanticTokens(string(params.TextDocument.URI), &params.Range), nil
}
