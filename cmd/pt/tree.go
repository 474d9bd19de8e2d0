package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"github.com/signadot/ptree/encode"
	"github.com/signadot/ptree/query"
)

func treeMain(cfg *TreeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tree.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: at most one input", cli.ErrUsage)
	}
	var find *query.Filter
	if cfg.Find != "" {
		find, err = query.CompileNodes(cfg.Find)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	in, err := cfg.load(cc, inputArgs(args)[0], cfg.Source)
	if err != nil {
		return err
	}
	defer in.Release()
	if reportFailure(cc.Out, in) {
		return nil
	}
	root, ok := in.Tree.Root()
	if !ok {
		fmt.Fprintln(cc.Out, "<empty>")
		return nil
	}
	if cfg.At >= 0 {
		root = uint32(cfg.At)
	}
	offs := []uint32{root}
	if find != nil {
		if offs, err = find.Nodes(in.Tree); err != nil {
			return reportInternal(cc.Out, in.Name, err)
		}
	}
	return cfg.writeNodes(cc.Out, in, offs)
}

func (cfg *TreeConfig) writeNodes(w io.Writer, in *input, offs []uint32) error {
	opts := append(cfg.encOpts(w, cfg.Depth), encode.EncodeOffsets(cfg.Offsets || len(offs) > 1))
	for i, off := range offs {
		if i > 0 && cfg.format().IsText() {
			fmt.Fprintln(w, "---")
		}
		if err := encode.Encode(in.Tree, off, w, opts...); err != nil {
			return reportInternal(w, in.Name, err)
		}
	}
	return nil
}
