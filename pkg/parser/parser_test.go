package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/codehl/pkg/ast"
	"github.com/walteh/codehl/pkg/lexer"
	"github.com/walteh/codehl/pkg/parser"
	"github.com/walteh/codehl/pkg/token"
)

func parse(t *testing.T, src string, jsx bool) []ast.Node {
	t.Helper()
	nodes, err := newParser(src, jsx).Parse()
	require.NoError(t, err)
	return nodes
}

func newParser(src string, jsx bool) *parser.Parser {
	if jsx {
		return parser.New(lexer.Tokenize(src, lexer.JSX()), parser.WithJSX(), parser.WithSource(src))
	}
	return parser.New(lexer.Tokenize(src, lexer.Base()), parser.WithSource(src))
}

func kinds(nodes []ast.Node) []ast.Kind {
	out := make([]ast.Kind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind()
	}
	return out
}

func TestParse_Statements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []ast.Kind
	}{
		{
			name:     "variable",
			input:    "const x = 5;",
			expected: []ast.Kind{ast.KindVariableDeclaration},
		},
		{
			name:     "comment_and_call",
			input:    "// hi\nfoo(1, 2);",
			expected: []ast.Kind{ast.KindComment, ast.KindExpression},
		},
		{
			name:     "function_and_class",
			input:    "function f(a) { return a; }\nclass A extends B { m() {} }",
			expected: []ast.Kind{ast.KindFunctionDeclaration, ast.KindClassDeclaration},
		},
		{
			name:     "loops",
			input:    "for (let i = 0; i < n; i++) {}\nwhile (x) x--;\ndo { y(); } while (y);",
			expected: []ast.Kind{ast.KindLoopStatement, ast.KindLoopStatement, ast.KindLoopStatement},
		},
		{
			name:     "modules",
			input:    "import React, { useState } from 'react';\nexport { a as b };\nexport * from \"./x\";",
			expected: []ast.Kind{ast.KindImportStatement, ast.KindExportStatement, ast.KindExportStatement},
		},
		{
			name:     "passthrough",
			input:    ") ; ]",
			expected: []ast.Kind{ast.KindToken, ast.KindToken, ast.KindToken},
		},
		{
			name:     "bare_block",
			input:    "{ a; b; }",
			expected: []ast.Kind{ast.KindExpression},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, kinds(parse(t, tt.input, false)))
		})
	}
}

func TestParse_ConsumesEveryToken(t *testing.T) {
	src := "import x from 'y'\nlet a = 1, [b, c] = d;\nif (a) { b() } else c()\nexport default a\n) stray"
	tokens := lexer.Tokenize(src, lexer.Base())
	nodes, err := parser.New(tokens).Parse()
	require.NoError(t, err)

	var got []token.Token
	for _, n := range nodes {
		got = append(got, n.Tokens()...)
	}
	assert.Equal(t, tokens, got)
}

func TestParse_Variable(t *testing.T) {
	nodes := parse(t, "let a: number = 1, { b, c: d } = e;", false)
	require.Len(t, nodes, 1)

	decl, ok := nodes[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "let", decl.DeclKind)
	require.Len(t, decl.Declarators, 2)
	assert.Equal(t, []string{"a"}, decl.Declarators[0].Names)
	assert.Equal(t, "1", decl.Declarators[0].Init.Source())
	assert.Equal(t, []string{"b", "d"}, decl.Declarators[1].Names)
	assert.Equal(t, "e", decl.Declarators[1].Init.Source())
}

func TestParse_IfElse(t *testing.T) {
	nodes := parse(t, "if (a) { b(); } else if (c) d(); else { e; }", false)
	require.Len(t, nodes, 1)

	stmt, ok := nodes[0].(*ast.IfStatement)
	require.True(t, ok)
	assert.Equal(t, "( a )", stmt.Test.Source())
	assert.Equal(t, []ast.Kind{ast.KindExpression}, kinds(stmt.Consequent))

	require.Len(t, stmt.Alternate, 1)
	elseIf, ok := stmt.Alternate[0].(*ast.IfStatement)
	require.True(t, ok)
	assert.Equal(t, "( c )", elseIf.Test.Source())
	assert.Equal(t, []ast.Kind{ast.KindExpression}, kinds(elseIf.Alternate))
}

func TestParse_Modules(t *testing.T) {
	nodes := parse(t, "import { a } from \"./a\";\nexport default function App() {}\nexport const X = 1;", false)
	require.Len(t, nodes, 3)

	imp := nodes[0].(*ast.ImportStatement)
	assert.Equal(t, "./a", imp.Source)

	def := nodes[1].(*ast.ExportStatement)
	assert.True(t, def.Default)
	fn, ok := def.Declaration.(*ast.FunctionDeclaration)
	require.True(t, ok)
	assert.Equal(t, "App", fn.Name)

	named := nodes[2].(*ast.ExportStatement)
	assert.False(t, named.Default)
	assert.Equal(t, ast.KindVariableDeclaration, named.Declaration.Kind())
}

func TestParse_JSXInFunction(t *testing.T) {
	src := `function App() {
  const handle = () => {};
  return <div onClick={handle}>Hi {name}</div>;
}`
	nodes := parse(t, src, true)
	require.Len(t, nodes, 1)

	fn, ok := nodes[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	assert.Equal(t, "App", fn.Name)
	assert.Equal(t, []ast.Kind{ast.KindVariableDeclaration, ast.KindReturnStatement}, kinds(fn.Body))

	ret := fn.Body[1].(*ast.ReturnStatement)
	require.Len(t, ret.Argument.Parts, 1)
	el, ok := ret.Argument.Parts[0].(*ast.JSXElement)
	require.True(t, ok)
	assert.Equal(t, "div", el.Name)
	assert.Equal(t, "App", el.Component)
	assert.False(t, el.SelfClosing)

	require.Len(t, el.Attributes, 1)
	assert.Equal(t, "onClick", el.Attributes[0].Name)
	require.NotNil(t, el.Attributes[0].Expr)
	assert.Equal(t, "handle", el.Attributes[0].Expr.Expression.Source())

	require.Equal(t, []ast.Kind{ast.KindJSXText, ast.KindJSXExpression}, kinds(el.Content))
	assert.Equal(t, "Hi", el.Content[0].(*ast.JSXText).Text)
}

func TestParse_JSXFragmentAndSpread(t *testing.T) {
	nodes := parse(t, `const el = <><A {...props} ok /></>;`, true)
	require.Len(t, nodes, 1)

	decl := nodes[0].(*ast.VariableDeclaration)
	parts := decl.Declarators[0].Init.Parts
	require.Len(t, parts, 1)

	frag, ok := parts[0].(*ast.JSXFragment)
	require.True(t, ok)
	assert.Empty(t, frag.Component)
	require.Len(t, frag.Content, 1)

	a := frag.Content[0].(*ast.JSXElement)
	assert.Equal(t, "A", a.Name)
	assert.True(t, a.SelfClosing)
	require.Len(t, a.Attributes, 2)
	assert.True(t, a.Attributes[0].Spread)
	assert.Equal(t, "ok", a.Attributes[1].Name)
	assert.Nil(t, a.Attributes[1].Value)
}

func TestParse_ArrowComponentScope(t *testing.T) {
	nodes := parse(t, `const Card = ({ title }) => <h1>{title}</h1>;`, true)
	decl := nodes[0].(*ast.VariableDeclaration)
	el := decl.Declarators[0].Init.Parts[0].(*ast.JSXElement)
	assert.Equal(t, "Card", el.Component)
}

func TestParse_ClassComponent(t *testing.T) {
	src := `class Counter extends React.Component {
  render() { return <span>{this.props.n}</span>; }
}`
	nodes := parse(t, src, true)
	require.Len(t, nodes, 1)

	cls := nodes[0].(*ast.ClassDeclaration)
	assert.Equal(t, "Counter", cls.Name)
	assert.Equal(t, "React.Component", cls.Extends)

	var elements []*ast.JSXElement
	ast.Walk(cls, func(n ast.Node) bool {
		if el, ok := n.(*ast.JSXElement); ok {
			elements = append(elements, el)
		}
		return true
	})
	require.Len(t, elements, 1)
	assert.Equal(t, "span", elements[0].Name)
	assert.Equal(t, "Counter", elements[0].Component)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		jsx       bool
		wantToken bool
	}{
		{name: "unclosed_block", input: "function f() {", wantToken: false},
		{name: "unclosed_if_header", input: "if (a", wantToken: false},
		{name: "missing_body", input: "function f()", wantToken: false},
		{name: "mismatched_closing_tag", input: "<div></span>", jsx: true, wantToken: true},
		{name: "do_without_while", input: "do {} x", wantToken: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newParser(tt.input, tt.jsx).Parse()
			require.Error(t, err)

			var tokErr *parser.UnexpectedTokenError
			var eofErr *parser.UnexpectedEndOfInputError
			if tt.wantToken {
				assert.True(t, errors.As(err, &tokErr), "got %v", err)
			} else {
				assert.True(t, errors.As(err, &eofErr), "got %v", err)
			}
		})
	}
}

func TestParse_MismatchedTagNamesExpected(t *testing.T) {
	_, err := newParser("<div></span>", true).Parse()
	var tokErr *parser.UnexpectedTokenError
	require.True(t, errors.As(err, &tokErr))
	assert.Equal(t, "span", tokErr.Token.Value)
	assert.Contains(t, tokErr.Error(), "</div>")
}

func TestParse_Repeatable(t *testing.T) {
	p := newParser("const a = <b/>;", true)
	first, err := p.Parse()
	require.NoError(t, err)
	second, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
