package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/ptree/config"
	"github.com/signadot/ptree/encode"
	"github.com/signadot/ptree/format"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='output in color'"`
	NoColor bool   `cli:"name=nocolor desc='never output in color'"`
	Config  string `cli:"name=config desc='configuration file (default $PT_CONFIG or ~/.config/pt/config.toml)'"`

	T bool `cli:"name=t aliases=text desc='output as text'"`
	J bool `cli:"name=j aliases=json desc='output as json'"`
	Y bool `cli:"name=y aliases=yaml desc='output as yaml'"`

	File *config.Config

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) loadConfig() error {
	path := cfg.Config
	if path == "" {
		path = config.Path()
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.File = c
	return nil
}

func (cfg *MainConfig) format() format.Format {
	switch {
	case cfg.T:
		return format.TextFormat
	case cfg.Y:
		return format.YAMLFormat
	case cfg.J:
		return format.JSONFormat
	}
	return cfg.File.Output.Format
}

// colors reports whether output to w is colored: flags first, then the
// configured mode, then whether w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) bool {
	switch {
	case cfg.NoColor:
		return false
	case cfg.Color:
		return true
	}
	switch cfg.File.Output.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) encOpts(w io.Writer, depth int) []encode.EncodeOption {
	if depth < 0 {
		depth = cfg.File.Output.Depth
	}
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.format()),
		encode.Depth(depth),
	}
	if cfg.format().IsText() && cfg.colors(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type TreeConfig struct {
	*MainConfig
	Source bool `cli:"name=s aliases=source desc='inputs are source files parsed with the configured engine'"`

	Depth   int    `cli:"name=d aliases=depth desc='collapse nodes below this depth'"`
	At      int    `cli:"name=at desc='start at this buffer offset'"`
	Find    string `cli:"name=find desc='print nodes matching this expression'"`
	Offsets bool   `cli:"name=offsets desc='show node offsets'"`

	Tree *cli.Command
}

type TokensConfig struct {
	*MainConfig
	Source bool `cli:"name=s aliases=source desc='inputs are source files parsed with the configured engine'"`

	Labels bool   `cli:"name=labels desc='show span labels'"`
	HTML   bool   `cli:"name=html desc='output html'"`
	Where  string `cli:"name=where desc='only highlight spans matching this expression'"`

	Tokens *cli.Command
}

type SpansConfig struct {
	*MainConfig
	Source bool `cli:"name=s aliases=source desc='inputs are source files parsed with the configured engine'"`

	Where string `cli:"name=where desc='only list spans matching this expression'"`

	Spans *cli.Command
}

type ShapesConfig struct {
	*MainConfig
	Source bool `cli:"name=s aliases=source desc='inputs are source files parsed with the configured engine'"`

	Shapes *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Source bool `cli:"name=s aliases=source desc='inputs are source files parsed with the configured engine'"`

	Check *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Source bool `cli:"name=s aliases=source desc='inputs are source files parsed with the configured engine'"`
	Merge  bool `cli:"name=merge desc='print a JSON merge patch instead of a line diff'"`

	Diff *cli.Command
}

type ParseConfig struct {
	*MainConfig

	Parse *cli.Command
}
