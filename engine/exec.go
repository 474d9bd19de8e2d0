package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/signadot/ptree/debug"
)

// ExecEngine runs an external engine process.  The source is written to its
// stdin and a dump document is read from its stdout.
type ExecEngine struct {
	Command string
	Args    []string
	Timeout time.Duration
}

func (e *ExecEngine) Parse(ctx context.Context, source []byte) (*Output, error) {
	if e.Command == "" {
		return nil, fmt.Errorf("no engine command configured")
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, e.Command, e.Args...)
	cmd.Stdin = bytes.NewReader(source)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if debug.Engine() {
		debug.LogAny(map[string]any{"command": e.Command, "args": e.Args, "timeout": e.Timeout.String()})
	}
	start := time.Now()
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("engine %s: %w: %s", e.Command, err, msg)
		}
		return nil, fmt.Errorf("engine %s: %w", e.Command, err)
	}
	if debug.Engine() {
		debug.Logf("engine %s: %d bytes in, %d bytes out in %s\n", e.Command, len(source), stdout.Len(), time.Since(start))
	}
	return ReadDump(stdout)
}
