package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/codehl/pkg/position"
)

func TestFromOffset(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{
			name:     "empty text",
			text:     "",
			offset:   0,
			wantLine: 1,
			wantCol:  1,
		},
		{
			name:     "single line, middle position",
			text:     "Hello, World!",
			offset:   7,
			wantLine: 1,
			wantCol:  8,
		},
		{
			name:     "multiple lines, second line",
			text:     "Hello\nWorld\nTest zzz",
			offset:   8,
			wantLine: 2,
			wantCol:  3,
		},
		{
			name:     "offset on newline",
			text:     "ab\ncd",
			offset:   2,
			wantLine: 1,
			wantCol:  3,
		},
		{
			name:     "start of line after newline",
			text:     "ab\ncd",
			offset:   3,
			wantLine: 2,
			wantCol:  1,
		},
		{
			name:     "combining accent counts once",
			text:     "e\u0301x",
			offset:   3,
			wantLine: 1,
			wantCol:  2,
		},
		{
			name:     "multibyte rune",
			text:     "const π = 3",
			offset:   len("const π"),
			wantLine: 1,
			wantCol:  8,
		},
		{
			name:     "clamped past end",
			text:     "abc",
			offset:   10,
			wantLine: 1,
			wantCol:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := position.FromOffset(tt.text, tt.offset)
			assert.Equal(t, tt.wantLine, got.Line, "line")
			assert.Equal(t, tt.wantCol, got.Column, "column")
		})
	}
}

func TestNewRange(t *testing.T) {
	text := "const x = 1;\nlet y = 2;"
	r := position.NewRange(text, 17, 18)
	assert.Equal(t, "2:5-2:6", r.String())
}
