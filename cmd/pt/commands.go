package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "pt").
		WithSynopsis("pt [opts] command [opts]").
		WithDescription("pt inspects the output of a parsing engine: trees, tokens and errors.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return ptMain(cfg, cc, args)
		}).
		WithSubs(
			TreeCommand(cfg),
			TokensCommand(cfg),
			SpansCommand(cfg),
			ShapesCommand(cfg),
			CheckCommand(cfg),
			DiffCommand(cfg),
			ParseCommand(cfg))
}

func TreeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TreeConfig{MainConfig: mainCfg, Depth: -1, At: -1}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Tree, "tree").
		WithAliases("t").
		WithSynopsis("tree [-d depth] [-at offset] [-find expr] [-s] [input]").
		WithDescription(treeDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return treeMain(cfg, cc, args)
		})
}

const treeDescription = `tree decodes and prints the parse tree of an input.

The input is an engine dump (YAML or JSON), or with -s a source file which is
parsed with the configured engine.  '-' or no input reads stdin.

-d limits the printed depth; deeper nodes are shown collapsed.  -at starts
at the node at the given buffer offset instead of the root.  -find prints
every node matching an expression, for example

  pt tree -find 'kind == "Call" && props.label != nil' dump.yaml

where kind, offset and props describe a node.`

func TokensCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TokensConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Tokens, "tokens").
		WithAliases("tok").
		WithSynopsis("tokens [-labels] [-html] [-where expr] [-s] [input] [source]").
		WithDescription("tokens prints the source highlighted with the merged token and error spans.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tokensMain(cfg, cc, args)
		})
}

func SpansCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SpansConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Spans, "spans").
		WithSynopsis("spans [-where expr] [-s] [input]").
		WithDescription("spans lists the merged token and error spans.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return spansMain(cfg, cc, args)
		})
}

func ShapesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ShapesConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Shapes, "shapes").
		WithSynopsis("shapes [-s] [input]").
		WithDescription("shapes lists the node kinds of an input's schema.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return shapesMain(cfg, cc, args)
		})
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithSynopsis("check [-s] [inputs]").
		WithDescription("check decodes every reachable node and validates the spans of each input.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return checkMain(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff [-s] [-merge] a b").
		WithDescription("diff compares the rendered trees of two inputs, as a line diff or a JSON merge patch.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diffMain(cfg, cc, args)
		})
}

func ParseCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ParseConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Parse, "parse").
		WithAliases("p").
		WithSynopsis("parse [source]").
		WithDescription("parse runs the configured engine on a source file and writes its dump.").
		WithRun(func(cc *cli.Context, args []string) error {
			return parseMain(cfg, cc, args)
		})
}
