package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
	"github.com/signadot/ptree/shape"
)

func shapesMain(cfg *ShapesConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Shapes.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: at most one input", cli.ErrUsage)
	}
	in, err := cfg.load(cc, inputArgs(args)[0], cfg.Source)
	if err != nil {
		return err
	}
	defer in.Release()
	if in.Registry == nil {
		reportFailure(cc.Out, in)
		return nil
	}
	kinds := in.Registry.Kinds()
	f := cfg.format()
	if !f.IsText() {
		var opts []yaml.EncodeOption
		if f.IsJSON() {
			opts = append(opts, yaml.JSON())
		}
		d, err := yaml.MarshalWithOptions(kinds, opts...)
		if err != nil {
			return err
		}
		_, err = cc.Out.Write(d)
		return err
	}
	writeKinds(cc.Out, kinds)
	return nil
}

// writeKinds lists kinds one per line with their minimum body width.
func writeKinds(w io.Writer, kinds []shape.Kind) {
	for i := range kinds {
		k := &kinds[i]
		props := make([]string, len(k.Properties))
		for j := range k.Properties {
			props[j] = k.Properties[j].String()
		}
		fmt.Fprintf(w, "%d %s(%s) min %d\n", k.Ordinal, k.Name, strings.Join(props, ", "), k.Width())
	}
}
