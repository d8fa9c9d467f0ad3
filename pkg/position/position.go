// Package position converts byte offsets produced by the lexer into
// human-facing line and column numbers.
package position

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

// Place is a one-based line/column pair. Columns count grapheme clusters, so
// "é" written as e + combining accent is a single column.
type Place struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Place) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is the line/column span of a half-open byte range.
type Range struct {
	Start Place `json:"start"`
	End   Place `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// FromOffset returns the place of the byte at offset in text. Offsets past the
// end of text are clamped.
func FromOffset(text string, offset int) Place {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}

	line := 1 + strings.Count(text[:offset], "\n")
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1

	return Place{Line: line, Column: 1 + columns(text[lineStart:offset])}
}

// NewRange returns the range covering text[start:end].
func NewRange(text string, start, end int) Range {
	return Range{Start: FromOffset(text, start), End: FromOffset(text, end)}
}

func columns(segment string) int {
	if segment == "" {
		return 0
	}
	n, err := textseg.TokenCount([]byte(segment), textseg.ScanGraphemeClusters)
	if err != nil {
		// invalid utf-8 still has a byte width
		return len(segment)
	}
	return n
}
