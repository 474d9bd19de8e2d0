// Package libdiff computes line diffs between rendered trees.
package libdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

func (o Op) Prefix() string {
	switch o {
	case Delete:
		return "-"
	case Insert:
		return "+"
	default:
		return " "
	}
}

// Hunk is a run of lines sharing an Op.
type Hunk struct {
	Op    Op
	Lines []string
}

// Lines diffs a and b line by line.  Diff is nil when they are equal.
func Lines(a, b string) []Hunk {
	if a == b {
		return nil
	}
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	res := make([]Hunk, 0, len(diffs))
	for i := range diffs {
		d := &diffs[i]
		h := Hunk{Lines: splitLines(d.Text)}
		switch d.Type {
		case diffpatch.DiffDelete:
			h.Op = Delete
		case diffpatch.DiffInsert:
			h.Op = Insert
		}
		if len(h.Lines) == 0 {
			continue
		}
		if n := len(res); n > 0 && res[n-1].Op == h.Op {
			res[n-1].Lines = append(res[n-1].Lines, h.Lines...)
			continue
		}
		res = append(res, h)
	}
	return res
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Patch applies hunks produced by Lines(a, b) to a, giving b up to the
// trailing newline.
func Patch(a string, hunks []Hunk) (string, error) {
	if hunks == nil {
		return a, nil
	}
	src := splitLines(a)
	var res []string
	i := 0
	for _, h := range hunks {
		if h.Op == Insert {
			res = append(res, h.Lines...)
			continue
		}
		if !linesHasPrefix(src[i:], h.Lines) {
			return "", fmt.Errorf("cannot patch at line %d: unexpected text", i+1)
		}
		if h.Op == Equal {
			res = append(res, h.Lines...)
		}
		i += len(h.Lines)
	}
	if i != len(src) {
		return "", fmt.Errorf("cannot patch: %d trailing lines not covered", len(src)-i)
	}
	return strings.Join(res, "\n") + "\n", nil
}

func linesHasPrefix(lines, prefix []string) bool {
	if len(prefix) > len(lines) {
		return false
	}
	for i := range prefix {
		if lines[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Colors holds the deleted and inserted line colors.
type Colors struct {
	Delete *color.Color
	Insert *color.Color
}

func NewColors() *Colors {
	return &Colors{
		Delete: color.New(color.FgRed),
		Insert: color.New(color.FgGreen),
	}
}

// Write prints the diff of a and b in unified style, coloring changed
// lines when colors is not nil.  It reports whether a and b differ.
func Write(w io.Writer, a, b string, colors *Colors) (bool, error) {
	hunks := Lines(a, b)
	for _, h := range hunks {
		var c *color.Color
		if colors != nil {
			switch h.Op {
			case Delete:
				c = colors.Delete
			case Insert:
				c = colors.Insert
			}
		}
		for _, line := range h.Lines {
			line = h.Op.Prefix() + line
			if c != nil {
				line = c.Sprint(line)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return true, err
			}
		}
	}
	return hunks != nil, nil
}
