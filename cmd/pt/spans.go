package main

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
	"github.com/signadot/ptree/encode"
	"github.com/signadot/ptree/span"
)

func spansMain(cfg *SpansConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Spans.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: at most one input", cli.ErrUsage)
	}
	where, err := compileWhere(cfg.Where)
	if err != nil {
		return err
	}
	in, err := cfg.load(cc, inputArgs(args)[0], cfg.Source)
	if err != nil {
		return err
	}
	defer in.Release()
	spans, err := filterSpans(where, in)
	if err != nil {
		return err
	}
	f := cfg.format()
	if f.IsText() {
		var colors *encode.Colors
		if cfg.colors(cc.Out) {
			colors = encode.NewColors()
		}
		for _, s := range spans {
			fmt.Fprintln(cc.Out, spanLine(s, colors))
		}
		reportFailure(cc.Out, in)
		return nil
	}
	if spans == nil {
		spans = []span.Span{}
	}
	var opts []yaml.EncodeOption
	if f.IsJSON() {
		opts = append(opts, yaml.JSON())
	}
	d, err := yaml.MarshalWithOptions(spans, opts...)
	if err != nil {
		return err
	}
	_, err = cc.Out.Write(d)
	return err
}

func spanLine(s span.Span, colors *encode.Colors) string {
	r := fmt.Sprintf("[%d,%d)", s.Start, s.End)
	if colors == nil {
		return r + " " + s.Label
	}
	attr := encode.FieldColor
	if s.Category == span.Error {
		attr = encode.NoneColor
	}
	return colors.Color(encode.OffsetColor, r) + " " + colors.Color(attr, s.Label)
}
