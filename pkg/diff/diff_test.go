package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/codehl/pkg/diff"
	"github.com/walteh/codehl/pkg/token"
)

func TestTokens(t *testing.T) {
	src := "idle"
	want := []token.Token{token.New(token.StateName, src, 0, 4)}
	got := []token.Token{token.New(token.Identifier, src, 0, 4)}

	assert.Empty(t, diff.Tokens(want, want))

	d := diff.Tokens(want, got)
	assert.Contains(t, d, "-identifier")
	assert.Contains(t, d, "+stateName")
	assert.Contains(t, d, `"idle"`)

	withMeta := []token.Token{want[0].WithMeta(token.MetaSubType, "string")}
	assert.Contains(t, diff.Tokens(withMeta, want), "subType")
}

func TestValues(t *testing.T) {
	type pair struct {
		A string
		b int
	}
	assert.Empty(t, diff.Values(pair{"x", 1}, pair{"x", 2}), "unexported fields are ignored")
	d := diff.Values(pair{A: "x"}, pair{A: "y"})
	assert.Regexp(t, `(?m)^\+\s*A: "x"`, d)
	assert.Regexp(t, `(?m)^-\s*A: "y"`, d)
}
