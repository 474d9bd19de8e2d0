package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/ptree/engine"
	"github.com/signadot/ptree/pos"
	"github.com/signadot/ptree/tree"
)

// input is a decoded engine result.  Source is set when the input was
// parsed from source.
type input struct {
	Name   string
	Source []byte
	*engine.Result
}

func readNamed(cc *cli.Context, name string) ([]byte, error) {
	if name == "-" {
		d, err := io.ReadAll(cc.In)
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return d, nil
	}
	d, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", name, err)
	}
	return d, nil
}

// load reads a dump, or parses source when isSource is set.
func (cfg *MainConfig) load(cc *cli.Context, name string, isSource bool) (*input, error) {
	d, err := readNamed(cc, name)
	if err != nil {
		return nil, err
	}
	in := &input{Name: name}
	var out *engine.Output
	if isSource {
		in.Source = d
		out, err = cfg.File.Engine.Engine().Parse(context.Background(), d)
	} else {
		out, err = engine.ReadDump(bytes.NewReader(d))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	res, err := engine.Decode(out)
	if err != nil {
		return nil, reportInternal(cc.Out, name, err)
	}
	in.Result = res
	theLog.Debug("loaded", "input", name, "spans", len(res.Spans), "failure", res.Failure != nil)
	return in, nil
}

// at locates a byte offset of the source.  It returns nil for dumps.
func (in *input) at(off uint32) *pos.Pos {
	if in.Source == nil {
		return nil
	}
	return pos.NewDoc(in.Source).Pos(int(off))
}

// reportFailure prints a normal parse failure and reports whether there
// was one.  With source at hand the cursor is also shown in context.
func reportFailure(w io.Writer, in *input) bool {
	if in.Failure == nil {
		return false
	}
	fmt.Fprintf(w, "<error @ %d>\n%s\n", in.Failure.Cursor, in.Failure.Message)
	if p := in.at(in.Failure.Cursor); p != nil {
		fmt.Fprintf(w, "near %s\n", p)
	}
	return true
}

// reportInternal prints the single user facing line for decoder failures
// and logs the detail.  Other errors are returned unchanged.
func reportInternal(w io.Writer, name string, err error) error {
	if errors.Is(err, tree.ErrMalformedTree) && !errors.Is(err, engine.ErrInternal) {
		err = fmt.Errorf("%w: %w", engine.ErrInternal, err)
	}
	if !errors.Is(err, engine.ErrInternal) {
		return err
	}
	fmt.Fprintln(w, "<internal error>")
	theLog.Error("decoding failed", "input", name, "error", err)
	return fmt.Errorf("%s: %w", name, err)
}

func inputArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}
