package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/google/gops/agent"
	"github.com/signadot/ptree/config"
	"github.com/signadot/ptree/debug"
	"github.com/signadot/ptree/engine"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

const lsName = "pt-lsp"

var (
	version = "0.0.1"
)

func main() {
	level := slog.LevelInfo
	if debug.LSP() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if os.Getenv("PT_GOPS") != "" {
		if err := agent.Listen(agent.Options{}); err != nil {
			slog.Warn("gops agent failed", "error", err)
		}
	}
	cfg, err := config.Load(config.Path())
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{
		read:  os.Stdin,
		write: os.Stdout,
	})
	server := newServer(cfg, cfg.Engine.Engine())
	handler := protocol.ServerHandler(server, nil)
	conn := jsonrpc2.NewConn(stream)
	server.conn = conn
	conn.Go(ctx, handler)
	<-conn.Done()
	server.docs.closeAll()
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}

type Server struct {
	conn jsonrpc2.Conn
	docs *documentStore
	lsp  *config.LSP

	tokenTypes []protocol.SemanticTokenTypes
	typeIndex  map[string]uint32
}

func newServer(cfg *config.Config, eng engine.Engine) *Server {
	s := &Server{
		docs: newDocumentStore(eng),
		lsp:  &cfg.LSP,
	}
	seen := map[string]bool{config.DefaultTokenType: true}
	names := []string{config.DefaultTokenType}
	for _, t := range cfg.LSP.TokenTypes {
		if !seen[t] {
			seen[t] = true
			names = append(names, t)
		}
	}
	sort.Strings(names[1:])
	s.typeIndex = make(map[string]uint32, len(names))
	for i, n := range names {
		s.tokenTypes = append(s.tokenTypes, protocol.SemanticTokenTypes(n))
		s.typeIndex[n] = uint32(i)
	}
	return s
}

func (s *Server) tokenType(label string) uint32 {
	return s.typeIndex[s.lsp.TokenType(label)]
}

func (s *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			Change:    protocol.TextDocumentSyncKindFull,
			OpenClose: true,
			Save:      &protocol.SaveOptions{IncludeText: false},
		},
		HoverProvider: true,
		SemanticTokensProvider: map[string]interface{}{
			"full":  true,
			"range": true,
			"legend": protocol.SemanticTokensLegend{
				TokenTypes:     s.tokenTypes,
				TokenModifiers: []protocol.SemanticTokenModifiers{},
			},
		},
	}

	return &protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.ServerInfo{
			Name:    lsName,
			Version: version,
		},
	}, nil
}

func (s *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.docs.closeAll()
	return nil
}

func (s *Server) Exit(ctx context.Context) error {
	return nil
}

func (s *Server) SetTrace(ctx context.Context, params *protocol.SetTraceParams) error {
	return nil
}
