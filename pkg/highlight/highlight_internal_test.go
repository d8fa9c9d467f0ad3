package highlight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/codehl/pkg/lexer"
	"github.com/walteh/codehl/pkg/token"
)

func TestHighlight_RecoversPanics(t *testing.T) {
	tokenize = func(string, lexer.Language) []token.Token { panic("boom") }
	defer func() { tokenize = lexer.Tokenize }()

	h := New(Options{Language: "xstate", WrapCode: true})
	_, err := h.Try(context.Background(), "<x>")
	assert.ErrorContains(t, err, "highlight panicked: boom")

	got := h.Highlight(context.Background(), "<x>")
	assert.Contains(t, got, "<code>&lt;x&gt;</code>")
	assert.Contains(t, got, `data-language="xstate"`)
}
