package debug_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/codehl/pkg/debug"
)

func TestSplitFuncName(t *testing.T) {
	tests := []struct {
		in       string
		pkg      string
		function string
	}{
		{"github.com/walteh/codehl/pkg/lexer.Tokenize", "github.com/walteh/codehl/pkg/lexer", "Tokenize"},
		{"github.com/walteh/codehl/pkg/parser.(*Parser).Parse", "github.com/walteh/codehl/pkg/parser", "(*Parser).Parse"},
		{"main.main", "main", "main"},
		{"nodot", "nodot", ""},
	}
	for _, tt := range tests {
		pkg, fn := debug.SplitFuncName(tt.in)
		assert.Equal(t, tt.pkg, pkg, tt.in)
		assert.Equal(t, tt.function, fn, tt.in)
	}
}

func TestFormatCaller(t *testing.T) {
	assert.Equal(t, "pkg/lexer:scan.go:12", debug.FormatCaller("pkg/lexer", "/src/pkg/lexer/scan.go", 12, false))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := debug.NewLogger(&buf, debug.LoggerOptions{NoColor: true, Component: "test"})

	logger.Debug().Msg("hidden")
	logger.Info().Str("file", "a.js").Msg("rendered")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "rendered")
	assert.Contains(t, out, "file=a.js")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "run="+debug.RunID)

	buf.Reset()
	verbose := debug.NewLogger(&buf, debug.LoggerOptions{Debug: true, NoColor: true})
	verbose.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "debug_test.go")
}
