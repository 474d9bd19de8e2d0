package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/ptree/engine"
)

func parseMain(cfg *ParseConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Parse.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: at most one source", cli.ErrUsage)
	}
	src, err := readNamed(cc, inputArgs(args)[0])
	if err != nil {
		return err
	}
	out, err := cfg.File.Engine.Engine().Parse(context.Background(), src)
	if err != nil {
		return err
	}
	if out.Release != nil {
		defer out.Release()
	}
	return engine.WriteDump(cc.Out, out, cfg.format().IsJSON())
}
