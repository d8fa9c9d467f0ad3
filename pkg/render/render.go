/*
Package render turns tokens or a parsed tree into themed HTML.

Every token becomes

	<span class="{class}" style="color: var(--{cssVar})">{escaped value}</span>

and the text between tokens (the gaps) is copied through escaped, so the
output always contains the whole source. Colors are never inlined: themes
only define the CSS variables, so switching themes needs no re-render.
*/
package render

import (
	"fmt"
	"strings"

	"github.com/walteh/codehl/pkg/ast"
	"github.com/walteh/codehl/pkg/token"
)

type HighlightMode string

const (
	ModeDefault HighlightMode = "default"
	ModeSection HighlightMode = "section"
)

type Config struct {
	Theme            string        `json:"theme" yaml:"theme"`
	Language         string        `json:"language" yaml:"language"`
	HighlightMode    HighlightMode `json:"highlightMode" yaml:"highlightMode"`
	HighlightSection string        `json:"highlightSection" yaml:"highlightSection"`
}

type Renderer struct {
	cfg Config
}

func New(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape applies the five-entity HTML escape map.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Span renders a single token value with the classes for typ.
func Span(typ token.Type, value string) string {
	return fmt.Sprintf(`<span class="%s" style="color: var(--%s)">%s</span>`, ClassFor(typ), CSSVarFor(typ), Escape(value))
}

// RenderTokens renders tokens over code. Tokens must be ordered and must not
// overlap; a token starting before the end of the previous one is skipped.
func (r *Renderer) RenderTokens(tokens []token.Token, code string) string {
	if r.cfg.HighlightMode == ModeSection && r.cfg.HighlightSection != "" {
		if sec, ok := FindSection(tokens, code, r.cfg.HighlightSection); ok {
			return renderSectioned(tokens, code, sec)
		}
	}
	var sb strings.Builder
	renderRange(&sb, tokens, code, 0, len(code))
	return sb.String()
}

// renderRange writes the tokens and gaps of code[from:to].
func renderRange(sb *strings.Builder, tokens []token.Token, code string, from, to int) {
	last := from
	for _, t := range tokens {
		if t.Start < last || t.End > to {
			continue
		}
		sb.WriteString(Escape(code[last:t.Start]))
		sb.WriteString(Span(t.Type, t.Value))
		last = t.End
	}
	if last < to {
		sb.WriteString(Escape(code[last:to]))
	}
}

// RenderAST renders a parsed tree. Statement nodes render as their tokens;
// declarations and JSX elements are additionally wrapped in a span naming the
// node, and JSX text is emitted as one run so its inner spacing survives.
func (r *Renderer) RenderAST(nodes []ast.Node, code string) string {
	w := &astWriter{code: code}
	for _, n := range nodes {
		w.node(n)
	}
	w.gap(len(code))
	return w.sb.String()
}

type astWriter struct {
	code string
	sb   strings.Builder
	last int
}

func (w *astWriter) gap(to int) {
	if to > len(w.code) {
		to = len(w.code)
	}
	if to > w.last {
		w.sb.WriteString(Escape(w.code[w.last:to]))
		w.last = to
	}
}

func (w *astWriter) token(t token.Token) {
	w.gap(t.Start)
	w.sb.WriteString(Span(t.Type, t.Value))
	w.last = t.End
}

func (w *astWriter) node(n ast.Node) {
	toks := n.Tokens()
	if len(toks) == 0 {
		if txt, ok := n.(*ast.JSXText); ok {
			w.sb.WriteString(Escape(txt.Text))
		}
		return
	}
	w.gap(toks[0].Start)

	switch n := n.(type) {
	case *ast.JSXElement:
		w.sb.WriteString(fmt.Sprintf(`<span class="jsx-element" data-tag="%s" data-component="%s">`, Escape(n.Name), Escape(n.Component)))
		w.walk(n)
		w.sb.WriteString("</span>")
	case *ast.JSXFragment:
		w.sb.WriteString(`<span class="jsx-element" data-tag="">`)
		w.walk(n)
		w.sb.WriteString("</span>")
	case *ast.FunctionDeclaration:
		w.sb.WriteString(fmt.Sprintf(`<span class="declaration" data-kind="function" data-name="%s">`, Escape(n.Name)))
		w.walk(n)
		w.sb.WriteString("</span>")
	case *ast.ClassDeclaration:
		w.sb.WriteString(fmt.Sprintf(`<span class="declaration" data-kind="class" data-name="%s">`, Escape(n.Name)))
		w.walk(n)
		w.sb.WriteString("</span>")
	case *ast.JSXText:
		start, end := toks[0].Start, toks[len(toks)-1].End
		text := n.Text
		if end <= len(w.code) {
			text = w.code[start:end]
		}
		w.sb.WriteString(Span(token.JSXText, text))
		w.last = end
	default:
		w.walk(n)
	}
}

// walk interleaves a node's own tokens with its children in source order.
func (w *astWriter) walk(n ast.Node) {
	children := n.Children()
	ci := 0
	for _, t := range n.Tokens() {
		for ci < len(children) && ast.Start(children[ci]) <= t.Start {
			w.node(children[ci])
			ci++
		}
		if t.Start < w.last {
			continue
		}
		w.token(t)
	}
	for ; ci < len(children); ci++ {
		w.node(children[ci])
	}
}
