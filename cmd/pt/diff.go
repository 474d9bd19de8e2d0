package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/ptree/encode"
	"github.com/signadot/ptree/format"
	"github.com/signadot/ptree/libdiff"
)

func diffMain(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: need two inputs", cli.ErrUsage)
	}
	var opts []encode.EncodeOption
	if cfg.Merge {
		opts = append(opts, encode.EncodeFormat(format.JSONFormat))
	}
	var docs [2]string
	for i, name := range args {
		if docs[i], err = renderTree(cfg.MainConfig, cc, name, cfg.Source, opts...); err != nil {
			return err
		}
	}
	if cfg.Merge {
		p, err := libdiff.MergePatch([]byte(docs[0]), []byte(docs[1]))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cc.Out, "%s\n", p)
		return err
	}
	var colors *libdiff.Colors
	if cfg.colors(cc.Out) {
		colors = libdiff.NewColors()
	}
	differ, err := libdiff.Write(cc.Out, docs[0], docs[1], colors)
	if err != nil {
		return err
	}
	if differ {
		theLog.Debug("trees differ", "a", args[0], "b", args[1])
	}
	return nil
}

// renderTree renders an input's tree uncolored, as text unless opts say
// otherwise.  A failed parse renders as its failure.
func renderTree(cfg *MainConfig, cc *cli.Context, name string, isSource bool, opts ...encode.EncodeOption) (string, error) {
	in, err := cfg.load(cc, name, isSource)
	if err != nil {
		return "", err
	}
	defer in.Release()
	if in.Failure != nil {
		if encode.FormatFromOpts(opts...).IsJSON() {
			return "", fmt.Errorf("%s: parse failed at %d: %s", name, in.Failure.Cursor, in.Failure.Message)
		}
		return fmt.Sprintf("<error @ %d>\n%s\n", in.Failure.Cursor, in.Failure.Message), nil
	}
	root, ok := in.Tree.Root()
	if !ok {
		if encode.FormatFromOpts(opts...).IsJSON() {
			return "null", nil
		}
		return "<empty>\n", nil
	}
	s, err := encode.String(in.Tree, root, opts...)
	if err != nil {
		return "", reportInternal(cc.Out, name, err)
	}
	return s, nil
}
