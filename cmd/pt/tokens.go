package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/ptree/engine"
	"github.com/signadot/ptree/highlight"
	"github.com/signadot/ptree/query"
	"github.com/signadot/ptree/span"
)

func tokensMain(cfg *TokensConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tokens.Parse(cc, args)
	if err != nil {
		return err
	}
	var inName, srcName string
	switch {
	case cfg.Source && len(args) <= 1:
		inName = inputArgs(args)[0]
	case !cfg.Source && len(args) == 2:
		inName, srcName = args[0], args[1]
	default:
		return fmt.Errorf("%w: need a dump and its source, or -s and a source", cli.ErrUsage)
	}
	where, err := compileWhere(cfg.Where)
	if err != nil {
		return err
	}
	in, err := cfg.load(cc, inName, cfg.Source)
	if err != nil {
		return err
	}
	defer in.Release()
	if srcName != "" {
		if in.Source, err = readNamed(cc, srcName); err != nil {
			return err
		}
	}
	spans, err := filterSpans(where, in)
	if err != nil {
		return err
	}
	if err := span.Check(spans); err != nil {
		return reportInternal(cc.Out, in.Name, fmt.Errorf("%w: %w", engine.ErrInternal, err))
	}
	opts := []highlight.Option{highlight.WithLabels(cfg.Labels)}
	switch {
	case cfg.HTML:
		opts = append(opts, highlight.HTML())
	case cfg.colors(cc.Out):
		opts = append(opts, highlight.WithColors(highlight.NewColors()))
	}
	if err := highlight.Write(cc.Out, in.Source, spans, opts...); err != nil {
		return err
	}
	reportFailure(cc.Out, in)
	return nil
}

func compileWhere(src string) (*query.Filter, error) {
	if src == "" {
		return nil, nil
	}
	f, err := query.CompileSpans(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return f, nil
}

func filterSpans(where *query.Filter, in *input) ([]span.Span, error) {
	if where == nil {
		return in.Spans, nil
	}
	return where.Spans(in.Spans, in.Source)
}
