package main

import (
	"errors"
	"fmt"

	"github.com/scott-cotton/cli"
)

func checkMain(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	var errs []error
	for _, name := range inputArgs(args) {
		if err := checkOne(cfg, cc, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkOne(cfg *CheckConfig, cc *cli.Context, name string) error {
	in, err := cfg.load(cc, name, cfg.Source)
	if err != nil {
		return err
	}
	defer in.Release()
	st, err := in.Check()
	if err != nil {
		return reportInternal(cc.Out, name, err)
	}
	status := "ok"
	if in.Failure != nil {
		status = fmt.Sprintf("parse failed at %d", in.Failure.Cursor)
		if p := in.at(in.Failure.Cursor); p != nil {
			l, c := p.LineCol()
			status += fmt.Sprintf(" (line %d, col %d)", l+1, c+1)
		}
	}
	fmt.Fprintf(cc.Out, "%s: %s: %d nodes, depth %d, %d spans\n", name, status, st.Nodes, st.MaxDepth, len(in.Spans))
	return nil
}
