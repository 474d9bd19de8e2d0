// Package highlight slices source text around merged spans and renders
// the result for terminals or HTML.
package highlight

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/signadot/ptree/pos"
	"github.com/signadot/ptree/span"
)

var ErrBadRun = errors.New("bad highlight run")

// Run is a piece of the source.  Span is nil for plain text between spans.
type Run struct {
	Text string
	Span *span.Span
}

// Runs cuts source into plain and annotated runs.  Offsets are byte
// offsets, as produced by the engine.
func Runs(source []byte, spans []span.Span) ([]Run, error) {
	var (
		res  []Run
		last uint32
		n    = uint32(len(source))
	)
	for i := range spans {
		s := &spans[i]
		if s.Start < last {
			return nil, fmt.Errorf("%w: %s starts before %d, %s", ErrBadRun, s, last, pos.NewDoc(source).Pos(int(s.Start)))
		}
		if s.End > n || s.Start > s.End {
			return nil, fmt.Errorf("%w: %s outside source of %d bytes", ErrBadRun, s, n)
		}
		if s.Start != last {
			res = append(res, Run{Text: string(source[last:s.Start])})
		}
		res = append(res, Run{Text: string(source[s.Start:s.End]), Span: s})
		last = s.End
	}
	if last != n {
		res = append(res, Run{Text: string(source[last:])})
	}
	return res, nil
}

type Colors struct {
	Token func(string, ...any) string
	Error func(string, ...any) string
	Label func(string, ...any) string
}

func NewColors() *Colors {
	return &Colors{
		Token: color.New(color.FgCyan, color.Underline).SprintfFunc(),
		Error: color.New(color.FgRed, color.Bold, color.Underline).SprintfFunc(),
		Label: color.RGB(96, 96, 96).SprintfFunc(),
	}
}

type state struct {
	colors *Colors
	labels bool
	html   bool
}

type Option func(*state)

func WithColors(c *Colors) Option {
	return func(s *state) { s.colors = c }
}

// WithLabels appends each span's label after its text.
func WithLabels(v bool) Option {
	return func(s *state) { s.labels = v }
}

// HTML renders marks with the label as a tooltip.
func HTML() Option {
	return func(s *state) { s.html = true }
}

// Write renders source with spans highlighted.
func Write(w io.Writer, source []byte, spans []span.Span, opts ...Option) error {
	st := &state{}
	for _, opt := range opts {
		opt(st)
	}
	runs, err := Runs(source, spans)
	if err != nil {
		return err
	}
	b := &strings.Builder{}
	if st.html {
		b.WriteString(`<div class="tokenoutput">`)
	}
	for i := range runs {
		st.run(b, &runs[i])
	}
	if st.html {
		b.WriteString("</div>\n")
	}
	_, err = io.WriteString(w, b.String())
	return err
}

func (st *state) run(b *strings.Builder, r *Run) {
	if st.html {
		if r.Span == nil {
			b.WriteString(html.EscapeString(r.Text))
			return
		}
		class := "token"
		if r.Span.Category == span.Error {
			class = "tokenbad"
		}
		fmt.Fprintf(b, `<mark class="%s" title="%s">%s</mark>`, class, html.EscapeString(r.Span.Label), html.EscapeString(r.Text))
		return
	}
	if r.Span == nil {
		b.WriteString(r.Text)
		return
	}
	text, label := r.Text, "["+r.Span.Label+"]"
	if st.colors != nil {
		paint := st.colors.Token
		if r.Span.Category == span.Error {
			paint = st.colors.Error
		}
		text = paint(escape(text))
		label = st.colors.Label(escape(label))
	}
	b.WriteString(text)
	if st.labels {
		b.WriteString(label)
	}
}

func escape(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}
