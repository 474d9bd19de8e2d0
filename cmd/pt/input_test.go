package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/signadot/ptree/engine"
	"github.com/signadot/ptree/tree"
)

func TestReportInternal(t *testing.T) {
	for _, tc := range []struct {
		name    string
		err     error
		printed bool
	}{
		{"internal", fmt.Errorf("%w: boom", engine.ErrInternal), true},
		{"tree", &tree.DecodeErr{Offset: 3, Err: tree.ErrTruncated}, true},
		{"other", errors.New("no such file"), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			err := reportInternal(buf, "in", tc.err)
			if !errors.Is(err, tc.err) {
				t.Errorf("lost original error: %v", err)
			}
			if got := buf.String() == "<internal error>\n"; got != tc.printed {
				t.Errorf("printed %q", buf.String())
			}
			if tc.printed && !errors.Is(err, engine.ErrInternal) {
				t.Errorf("expected internal error, got %v", err)
			}
		})
	}
}

func TestReportFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	in := &input{Result: &engine.Result{Failure: &engine.Failure{Cursor: 7, Message: "expected ')'"}}}
	if !reportFailure(buf, in) {
		t.Fatal("failure not reported")
	}
	if got := buf.String(); got != "<error @ 7>\nexpected ')'\n" {
		t.Errorf("got %q", got)
	}
	buf.Reset()
	in.Source = []byte("f(a,\nb")
	in.Failure.Cursor = 6
	reportFailure(buf, in)
	if got, want := buf.String(), "<error @ 6>\nexpected ')'\nnear `...(a,\\nb...` at offset 6 (line=1, col=1)\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if reportFailure(buf, &input{Result: &engine.Result{}}) {
		t.Error("reported a failure for a good parse")
	}
}

func TestCount(t *testing.T) {
	if count(true, false, true) != 2 {
		t.Error("bad count")
	}
}
