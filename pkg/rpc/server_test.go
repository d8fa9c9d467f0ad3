package rpc_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/codehl/pkg/highlight"
	"github.com/walteh/codehl/pkg/rpc"
	"github.com/walteh/codehl/pkg/theme"
	"github.com/walteh/codehl/pkg/token"
)

func startClient(t *testing.T) (context.Context, *jrpc2.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ctx = zerolog.New(zerolog.NewTestWriter(t)).WithContext(ctx)

	store, err := theme.NewStore(ctx)
	require.NoError(t, err)

	serverReader, clientWriter := io.Pipe()
	clientReader, serverWriter := io.Pipe()

	errc := make(chan error, 1)
	go func() {
		errc <- rpc.Serve(ctx, rpc.NewService(store), serverReader, serverWriter)
	}()

	client := jrpc2.NewClient(channel.Line(clientReader, clientWriter), nil)
	t.Cleanup(func() {
		client.Close()
		cancel()
		assert.NoError(t, <-errc)
	})
	return ctx, client
}

func TestServe_Tokenize(t *testing.T) {
	ctx, client := startClient(t)

	var res rpc.TokenizeResult
	require.NoError(t, client.CallResult(ctx, "tokenize", rpc.TokenizeParams{Code: "const x\n= 5;", Language: "js"}, &res))

	require.Len(t, res.Tokens, 5)
	assert.Equal(t, token.Keyword, res.Tokens[0].Type)
	assert.Equal(t, "=", res.Tokens[2].Value)
	assert.Equal(t, 2, res.Tokens[2].Range.Start.Line)
	assert.Equal(t, 1, res.Tokens[2].Range.Start.Column)
}

func TestServe_Render(t *testing.T) {
	ctx, client := startClient(t)

	var res rpc.RenderResult
	require.NoError(t, client.CallResult(ctx, "render", rpc.RenderParams{
		Code:    "a /* unterminated",
		Options: highlight.Options{Language: "javascript", Theme: "light", WrapCode: true},
	}, &res))
	assert.Contains(t, res.HTML, `data-theme="light"`)
	assert.Contains(t, res.HTML, `<span class="comment" style="color: var(--comment)">/* unterminated</span>`)

	err := client.CallResult(ctx, "render", rpc.RenderParams{
		Code:    "x",
		Options: highlight.Options{Theme: "nope"},
	}, &res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme not found: nope")
}

func TestServe_SectionsAndThemes(t *testing.T) {
	ctx, client := startClient(t)

	var secs rpc.SectionsResult
	require.NoError(t, client.CallResult(ctx, "sections", rpc.TokenizeParams{
		Code: "// @section one\na;\n// @endsection\n",
	}, &secs))
	require.Len(t, secs.Sections, 1)
	assert.Equal(t, "one", secs.Sections[0].Name)

	var none rpc.SectionsResult
	require.NoError(t, client.CallResult(ctx, "sections", rpc.TokenizeParams{Code: "a;"}, &none))
	assert.Empty(t, none.Sections)

	var themes rpc.ThemesResult
	require.NoError(t, client.CallResult(ctx, "themes", rpc.ThemesParams{Names: []string{"dracula"}, CSS: true}, &themes))
	require.Len(t, themes.Themes, 1)
	assert.Equal(t, "dracula", themes.Themes[0].Name)
	assert.Contains(t, themes.CSS, `.code-block[data-theme="dracula"]`)

	var all rpc.ThemesResult
	require.NoError(t, client.CallResult(ctx, "themes", nil, &all))
	assert.Len(t, all.Themes, 3)
	assert.Empty(t, all.CSS)
}

func TestServe_BadParams(t *testing.T) {
	ctx, client := startClient(t)

	_, err := client.Call(ctx, "tokenize", []int{1, 2})
	require.Error(t, err)

	var rpcErr *jrpc2.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.EqualValues(t, -32700, rpcErr.Code)
}
