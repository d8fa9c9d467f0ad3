package render_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/codehl/pkg/lexer"
	"github.com/walteh/codehl/pkg/parser"
	"github.com/walteh/codehl/pkg/render"
	"github.com/walteh/codehl/pkg/token"
)

var spanTags = regexp.MustCompile(`<span[^>]*>|</span>`)

func stripSpans(html string) string {
	return spanTags.ReplaceAllString(html, "")
}

func TestEscape(t *testing.T) {
	assert.Equal(t,
		"&lt;a href=&quot;x&quot;&gt;&#039;&amp;&#039;&lt;/a&gt;",
		render.Escape(`<a href="x">'&'</a>`),
	)
}

func TestRenderTokens(t *testing.T) {
	code := "const x = 5;"
	got := render.New(render.Config{}).RenderTokens(lexer.Tokenize(code, lexer.Base()), code)

	expected := `<span class="keyword" style="color: var(--keyword)">const</span>` +
		` <span class="identifier" style="color: var(--variable)">x</span>` +
		` <span class="operator" style="color: var(--operator)">=</span>` +
		` <span class="number" style="color: var(--number)">5</span>` +
		`<span class="punctuation" style="color: var(--punctuation)">;</span>`
	assert.Equal(t, expected, got)
}

func TestRenderTokens_UnknownType(t *testing.T) {
	code := "x"
	got := render.New(render.Config{}).RenderTokens([]token.Token{token.New("mystery", code, 0, 1)}, code)
	assert.Equal(t, `<span class="default" style="color: var(--default)">x</span>`, got)
}

func TestRenderTokens_RoundTrip(t *testing.T) {
	inputs := []struct {
		lang string
		code string
	}{
		{"javascript", "if (a < b && c > d) { return \"<b>\" + '&'; }\n\t// done"},
		{"jsx", "const App = () => <div title=\"a&b\">Tom & Jerry's</div>;"},
		{"jsx", "&lt;Foo /&gt; § ¶"},
		{"xstate", "createMachine({ states: { idle: { on: { GO: 'run' } } } })"},
		{"javascript", "a /* unterminated <script>"},
	}
	for _, in := range inputs {
		l, _ := lexer.ForLanguage(in.lang)
		got := render.New(render.Config{}).RenderTokens(lexer.Tokenize(in.code, l), in.code)
		assert.Equal(t, render.Escape(in.code), stripSpans(got), "input %q", in.code)
	}
}

func TestRenderAST(t *testing.T) {
	code := "function App() {\n  return <div className=\"x\">Hi  there {n}</div>;\n}\n"
	nodes, err := parser.New(lexer.Tokenize(code, lexer.JSX()), parser.WithJSX(), parser.WithSource(code)).Parse()
	require.NoError(t, err)

	got := render.New(render.Config{}).RenderAST(nodes, code)
	assert.Equal(t, render.Escape(code), stripSpans(got))
	assert.Contains(t, got, `<span class="declaration" data-kind="function" data-name="App">`)
	assert.Contains(t, got, `<span class="jsx-element" data-tag="div" data-component="App">`)
	assert.Contains(t, got, `<span class="jsxText" style="color: var(--default)">Hi  there</span>`)
}

const sectioned = `a;
// @section main
b;
// @endsection
c;`

func TestSections(t *testing.T) {
	tokens := lexer.Tokenize(sectioned, lexer.Base())
	secs := render.Sections(tokens, sectioned)
	require.Len(t, secs, 1)
	assert.Equal(t, "main", secs[0].Name)
	assert.Equal(t, "\nb;\n", sectioned[secs[0].Start:secs[0].End])

	unclosed := "/* @section tail */ x"
	secs = render.Sections(lexer.Tokenize(unclosed, lexer.Base()), unclosed)
	require.Len(t, secs, 1)
	assert.Equal(t, " x", unclosed[secs[0].Start:secs[0].End])
}

func TestRenderTokens_SectionMode(t *testing.T) {
	tokens := lexer.Tokenize(sectioned, lexer.Base())

	got := render.New(render.Config{HighlightMode: render.ModeSection, HighlightSection: "main"}).RenderTokens(tokens, sectioned)
	assert.Equal(t, render.Escape(sectioned), stripSpans(got))
	assert.Regexp(t, `^<span class="dimmed">`, got)
	assert.Contains(t, got, `<span class="highlight-section" data-section="main">`+"\n"+
		`<span class="identifier" style="color: var(--variable)">b</span>`)

	plain := render.New(render.Config{}).RenderTokens(tokens, sectioned)
	missing := render.New(render.Config{HighlightMode: render.ModeSection, HighlightSection: "nope"}).RenderTokens(tokens, sectioned)
	assert.Equal(t, plain, missing)
}

func TestCSSVariables(t *testing.T) {
	vars := render.CSSVariables()
	for _, v := range []string{
		"keyword", "string", "number", "comment", "function", "operator", "punctuation",
		"variable", "property", "boolean", "null", "jsx-tag", "jsx-bracket", "jsx-attribute",
		"react-component", "xstate-keyword", "context-property", "event-property",
		"state-name", "event-name", "service-name", "default",
	} {
		assert.Contains(t, vars, v)
	}
	assert.Len(t, vars, 22)
}
