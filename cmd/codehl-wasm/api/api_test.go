package api_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/codehl/cmd/codehl-wasm/api"
)

func TestTokenize(t *testing.T) {
	out, err := api.Tokenize(context.Background(), `<Foo bar="1" />`, "jsx")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotEmpty(t, got)
	assert.Contains(t, got[0], "range")

	types := map[string]string{}
	for _, tok := range got {
		types[tok["value"].(string)] = tok["type"].(string)
	}
	assert.Equal(t, "reactComponent", types["Foo"])
	assert.Equal(t, "jsxAttribute", types["bar"])
}

func TestRender(t *testing.T) {
	ctx := context.Background()

	html, err := api.Render(ctx, "x", `{"language":"xstate","theme":"light","wrapCode":true}`)
	require.NoError(t, err)
	assert.Contains(t, html, `data-language="xstate" data-theme="light"`)

	plain, err := api.Render(ctx, "x", "")
	require.NoError(t, err)
	assert.Equal(t, `<span class="identifier" style="color: var(--variable)">x</span>`, plain)

	_, err = api.Render(ctx, "x", "{")
	assert.ErrorContains(t, err, "decoding options")
}

func TestThemeCSS(t *testing.T) {
	css, err := api.ThemeCSS(context.Background(), "dracula")
	require.NoError(t, err)
	assert.Contains(t, css, `.code-block[data-theme="dracula"]`)

	_, err = api.ThemeCSS(context.Background(), "nope")
	assert.Error(t, err)
}
