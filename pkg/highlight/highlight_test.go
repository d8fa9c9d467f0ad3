package highlight_test

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/codehl/pkg/highlight"
	"github.com/walteh/codehl/pkg/render"
	"github.com/walteh/codehl/pkg/token"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

var spanTags = regexp.MustCompile(`<span[^>]*>|</span>`)

func TestTokenize_Languages(t *testing.T) {
	tests := []struct {
		name     string
		language string
		code     string
		typ      token.Type
		value    string
	}{
		{"base", "javascript", "const x = 5;", token.Keyword, "const"},
		{"alias_ts", "ts", "let y", token.Keyword, "let"},
		{"jsx", "jsx", `<Foo bar="1" />`, token.ReactComponent, "Foo"},
		{"tsx_alias", "TSX", `<Foo bar="1" />`, token.JSXAttribute, "bar"},
		{"xstate", "xstate", "states: { idle: {} }", token.StateName, "idle"},
		{"unknown_falls_back", "cobol", "return /abc/;", token.Regex, "/abc/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := false
			for _, tok := range highlight.Tokenize(tt.code, highlight.Options{Language: tt.language}) {
				if tok.Type == tt.typ && tok.Value == tt.value {
					found = true
				}
			}
			assert.True(t, found, "expected %s %q", tt.typ, tt.value)
		})
	}
}

func TestHighlight_UnterminatedComment(t *testing.T) {
	code := "a /* unterminated"
	got := highlight.Render(testContext(t), code, highlight.Options{Language: "javascript"})

	assert.Equal(t, render.Escape(code), spanTags.ReplaceAllString(got, ""))
	assert.Equal(t, 1, strings.Count(got, `class="comment"`))
	assert.Contains(t, got, `<span class="comment" style="color: var(--comment)">/* unterminated</span>`)
}

func TestHighlight_FallbackOnParseError(t *testing.T) {
	tests := []struct {
		name string
		opts highlight.Options
		code string
	}{
		{"unclosed_block", highlight.Options{Language: "javascript"}, "function f() { return <b>&"},
		{"mismatched_jsx", highlight.Options{Language: "jsx", UseAST: true}, "const a = <div></span>;"},
		{"do_without_while", highlight.Options{Language: "js"}, "do { x() } until (y)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := highlight.New(tt.opts)
			_, err := h.Try(testContext(t), tt.code)
			require.Error(t, err)

			assert.Equal(t, render.Escape(tt.code), h.Highlight(testContext(t), tt.code))
		})
	}
}

func TestHighlight_UnclosedJSXTags(t *testing.T) {
	code := "const A = () => <p>" + strings.Repeat("line<br>", 300) + "</p>;"

	start := time.Now()
	got := highlight.Render(testContext(t), code, highlight.Options{Language: "jsx"})
	elapsed := time.Since(start)

	assert.Less(t, elapsed, time.Second, "render took %s", elapsed)
	assert.Equal(t, render.Escape(code), spanTags.ReplaceAllString(got, ""))
	assert.Equal(t, 300, strings.Count(got, `<span class="jsxTag" style="color: var(--jsx-tag)">br</span>`))
}

func TestHighlight_Idempotent(t *testing.T) {
	code := "const App = () => <div className=\"x\">{count}</div>;\n// @section a\nlet b = 1;\n// @endsection\n"
	opts := highlight.Options{
		Language:         "jsx",
		Theme:            "light",
		HighlightMode:    render.ModeSection,
		HighlightSection: "a",
		WrapCode:         true,
		TabSize:          4,
	}

	first := highlight.Render(testContext(t), code, opts)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = highlight.Render(context.Background(), code, opts)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, first, r)
	}
}

func TestHighlight_WrapCode(t *testing.T) {
	code := "x"
	got := highlight.Render(testContext(t), code, highlight.Options{Language: "tsx", WrapCode: true, TabSize: 2})

	id := highlight.BlockID("jsx", "dark", code)
	assert.Regexp(t, `^code-[0-9a-f-]{36}$`, id)
	assert.Equal(t,
		`<pre class="code-block" data-language="jsx" data-theme="dark" id="`+id+`" style="tab-size: 2"><code>`+
			`<span class="identifier" style="color: var(--variable)">x</span></code></pre>`,
		got,
	)

	assert.NotEqual(t, id, highlight.BlockID("jsx", "dark", "y"))
	assert.Equal(t, id, highlight.BlockID("tsx", "dark", code), "aliases share ids")
}

func TestHighlight_AST(t *testing.T) {
	code := "function App() { return <Title>Hi</Title>; }"
	got := highlight.Render(testContext(t), code, highlight.Options{Language: "jsx", UseAST: true})

	assert.Contains(t, got, `data-kind="function" data-name="App"`)
	assert.Contains(t, got, `data-tag="Title" data-component="App"`)
	assert.Equal(t, render.Escape(code), spanTags.ReplaceAllString(got, ""))
}
