// Package pos converts the engine's byte offsets into line and column
// positions, character offsets and UTF-16 editor positions.
package pos

import (
	"fmt"
	"sort"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// Doc indexes the newlines of a source document.
type Doc struct {
	d []byte
	n []int
}

func NewDoc(d []byte) *Doc {
	p := &Doc{d: d}
	for i, c := range d {
		if c == '\n' {
			p.n = append(p.n, i)
		}
	}
	return p
}

func (p *Doc) Len() int {
	return len(p.d)
}

// LineCol returns the 0-based line and byte column of off.
func (p *Doc) LineCol(off int) (int, int) {
	N := len(p.n)
	di := sort.Search(N, func(i int) bool {
		return p.n[i] >= off
	})
	switch di {
	case 0:
		return 0, off
	default:
		return di, off - p.n[di-1] - 1
	}
}

func (p *Doc) lineStart(line int) int {
	switch {
	case line <= 0:
		return 0
	case line > len(p.n):
		return len(p.d)
	default:
		return p.n[line-1] + 1
	}
}

func (p *Doc) clamp(off int) int {
	return min(max(off, 0), len(p.d))
}

// Rune returns the character offset of byte offset off.
func (p *Doc) Rune(off int) int {
	return utf8.RuneCount(p.d[:p.clamp(off)])
}

// UTF16 returns the 0-based line and UTF-16 column of off, as editors
// count them.
func (p *Doc) UTF16(off int) (int, int) {
	off = p.clamp(off)
	line, _ := p.LineCol(off)
	return line, utf16Len(p.d[p.lineStart(line):off])
}

// Offset is the inverse of UTF16.  Columns past the end of the line are
// clamped to the line end.
func (p *Doc) Offset(line, col int) int {
	start := p.lineStart(line)
	end := len(p.d)
	if line >= 0 && line < len(p.n) {
		end = p.n[line]
	}
	i, n := start, 0
	for i < end && n < col {
		r, size := utf8.DecodeRune(p.d[i:end])
		n += len(utf16.AppendRune(nil, r))
		i += size
	}
	return i
}

func utf16Len(d []byte) int {
	n := 0
	for len(d) > 0 {
		r, size := utf8.DecodeRune(d)
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
		d = d[size:]
	}
	return n
}

func (p *Doc) Pos(i int) *Pos {
	return &Pos{I: i, D: p}
}

type Pos struct {
	I int
	D *Doc
}

func (p *Pos) LineCol() (int, int) {
	return p.D.LineCol(p.I)
}

func (p Pos) String() string {
	sample := string(p.D.d[max(0, min(p.I-5, len(p.D.d))):min(p.I+5, len(p.D.d))])
	sample = strconv.Quote(sample)
	sample = sample[1 : len(sample)-1]
	l, c := p.LineCol()
	return fmt.Sprintf("`...%s...` at offset %d (line=%d, col=%d)", sample, p.I, l, c)
}
