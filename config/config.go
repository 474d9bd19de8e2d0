// Package config loads the pt configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/signadot/ptree/engine"
	"github.com/signadot/ptree/format"
)

// DefaultTokenType is the semantic token type of labels missing from
// LSP.TokenTypes.
const DefaultTokenType = "variable"

type Engine struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// Engine returns an engine running the configured command.
func (e *Engine) Engine() *engine.ExecEngine {
	return &engine.ExecEngine{Command: e.Command, Args: e.Args, Timeout: e.Timeout}
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Output struct {
	Color  string
	Depth  int
	Format format.Format
}

type LSP struct {
	TokenTypes map[string]string
}

// TokenType maps a span label to a semantic token type.
func (l *LSP) TokenType(label string) string {
	if t, ok := l.TokenTypes[label]; ok {
		return t
	}
	return DefaultTokenType
}

type Config struct {
	Engine Engine
	Output Output
	LSP    LSP
}

func Default() *Config {
	return &Config{
		Engine: Engine{Timeout: 10 * time.Second},
		Output: Output{Color: ColorAuto, Format: format.TextFormat},
		LSP:    LSP{TokenTypes: map[string]string{}},
	}
}

type fileConfig struct {
	Engine struct {
		Command string   `toml:"command"`
		Args    []string `toml:"args"`
		Timeout string   `toml:"timeout"`
	} `toml:"engine"`
	Output struct {
		Color  string `toml:"color"`
		Depth  int    `toml:"depth"`
		Format string `toml:"format"`
	} `toml:"output"`
	LSP struct {
		TokenTypes map[string]string `toml:"token_types"`
	} `toml:"lsp"`
}

// Path returns $PT_CONFIG, or config.toml under the user config directory.
func Path() string {
	if p := os.Getenv("PT_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pt", "config.toml")
}

// Load reads the file at path over the defaults.  A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if meta.IsDefined("engine", "command") {
		cfg.Engine.Command = strings.TrimSpace(raw.Engine.Command)
	}
	if meta.IsDefined("engine", "args") {
		cfg.Engine.Args = raw.Engine.Args
	}
	if meta.IsDefined("engine", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Engine.Timeout))
		if err != nil {
			return nil, fmt.Errorf("parse engine.timeout: %w", err)
		}
		cfg.Engine.Timeout = d
	}
	if meta.IsDefined("output", "color") {
		switch c := strings.TrimSpace(raw.Output.Color); c {
		case ColorAuto, ColorAlways, ColorNever:
			cfg.Output.Color = c
		default:
			return nil, fmt.Errorf("output.color: unknown mode %q", c)
		}
	}
	if meta.IsDefined("output", "depth") {
		if raw.Output.Depth < 0 {
			return nil, fmt.Errorf("output.depth: negative depth %d", raw.Output.Depth)
		}
		cfg.Output.Depth = raw.Output.Depth
	}
	if meta.IsDefined("output", "format") {
		f, err := format.ParseFormat(strings.TrimSpace(raw.Output.Format))
		if err != nil {
			return nil, fmt.Errorf("output.format: %w", err)
		}
		cfg.Output.Format = f
	}
	for k, v := range raw.LSP.TokenTypes {
		cfg.LSP.TokenTypes[k] = v
	}
	return cfg, nil
}
