/*
Package ast defines the shallow syntax tree built by the parser.

The tree is intentionally flat where JavaScript is deep: statements and JSX
elements get their own nodes, while expressions stay opaque token runs.

	const App = () => <div className="x">{n}</div>;
	|-------------------------------------------------| VariableDeclaration
	                  |----------------------------|    Expression.Parts
	                        |------------------------|  JSXElement
	                                      |-|           JSXExpression

Every node owns the contiguous run of tokens it was parsed from (Tokens), so
a renderer can always fall back to re-emitting those tokens verbatim.
*/
package ast

import (
	"strings"

	"github.com/walteh/codehl/pkg/token"
)

// Kind names a node type. Values are stable and appear in rendered markup.
type Kind string

const (
	KindComment             Kind = "comment"
	KindFunctionDeclaration Kind = "functionDeclaration"
	KindClassDeclaration    Kind = "classDeclaration"
	KindVariableDeclaration Kind = "variableDeclaration"
	KindIfStatement         Kind = "ifStatement"
	KindLoopStatement       Kind = "loopStatement"
	KindReturnStatement     Kind = "returnStatement"
	KindImportStatement     Kind = "importStatement"
	KindExportStatement     Kind = "exportStatement"
	KindJSXElement          Kind = "jsxElement"
	KindJSXFragment         Kind = "jsxFragment"
	KindJSXText             Kind = "jsxText"
	KindJSXExpression       Kind = "jsxExpression"
	KindExpression          Kind = "expression"
	KindToken               Kind = "token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() Kind
	// Tokens returns the contiguous token run the node was parsed from,
	// including the tokens of its children.
	Tokens() []token.Token
	// Children returns the structural child nodes in source order.
	Children() []Node
}

// Span is embedded by every node and carries its token run.
type Span struct {
	Toks []token.Token
}

func (s Span) Tokens() []token.Token { return s.Toks }

type Comment struct {
	Span
}

func (*Comment) Kind() Kind       { return KindComment }
func (*Comment) Children() []Node { return nil }

// Text returns the comment source including its delimiters.
func (c *Comment) Text() string {
	if len(c.Toks) == 0 {
		return ""
	}
	return c.Toks[0].Value
}

type FunctionDeclaration struct {
	Span
	Name   string
	Async  bool
	Params []token.Token
	Body   []Node
	// Scope is the dotted path of the scope the function is declared in.
	Scope string
}

func (*FunctionDeclaration) Kind() Kind         { return KindFunctionDeclaration }
func (n *FunctionDeclaration) Children() []Node { return n.Body }

type ClassDeclaration struct {
	Span
	Name    string
	Extends string
	Body    []Node
	Scope   string
}

func (*ClassDeclaration) Kind() Kind         { return KindClassDeclaration }
func (n *ClassDeclaration) Children() []Node { return n.Body }

// Declarator is one name = init pair of a variable declaration.
type Declarator struct {
	// Names holds every identifier bound, more than one for destructuring.
	Names []string
	Init  *Expression
}

type VariableDeclaration struct {
	Span
	// DeclKind is const, let or var.
	DeclKind    string
	Declarators []Declarator
	Scope       string
}

func (*VariableDeclaration) Kind() Kind { return KindVariableDeclaration }

func (n *VariableDeclaration) Children() []Node {
	var out []Node
	for _, d := range n.Declarators {
		if d.Init != nil {
			out = append(out, d.Init)
		}
	}
	return out
}

type IfStatement struct {
	Span
	Test       *Expression
	Consequent []Node
	// Alternate is nil without an else branch; an else-if holds a single
	// *IfStatement.
	Alternate []Node
}

func (*IfStatement) Kind() Kind { return KindIfStatement }

func (n *IfStatement) Children() []Node {
	out := make([]Node, 0, 1+len(n.Consequent)+len(n.Alternate))
	if n.Test != nil {
		out = append(out, n.Test)
	}
	out = append(out, n.Consequent...)
	return append(out, n.Alternate...)
}

type LoopStatement struct {
	Span
	// Keyword is for, while or do.
	Keyword string
	Header  *Expression
	Body    []Node
}

func (*LoopStatement) Kind() Kind { return KindLoopStatement }

func (n *LoopStatement) Children() []Node {
	var out []Node
	if n.Keyword != "do" && n.Header != nil {
		out = append(out, n.Header)
	}
	out = append(out, n.Body...)
	if n.Keyword == "do" && n.Header != nil {
		out = append(out, n.Header)
	}
	return out
}

type ReturnStatement struct {
	Span
	Argument *Expression
}

func (*ReturnStatement) Kind() Kind { return KindReturnStatement }

func (n *ReturnStatement) Children() []Node {
	if n.Argument == nil {
		return nil
	}
	return []Node{n.Argument}
}

type ImportStatement struct {
	Span
	// Source is the unquoted module specifier.
	Source string
}

func (*ImportStatement) Kind() Kind       { return KindImportStatement }
func (*ImportStatement) Children() []Node { return nil }

type ExportStatement struct {
	Span
	Default     bool
	Declaration Node
}

func (*ExportStatement) Kind() Kind { return KindExportStatement }

func (n *ExportStatement) Children() []Node {
	if n.Declaration == nil {
		return nil
	}
	return []Node{n.Declaration}
}

// JSXAttribute is a name, name=value or {...spread} attribute.
type JSXAttribute struct {
	Name   string
	Value  *token.Token
	Expr   *JSXExpression
	Spread bool
}

type JSXElement struct {
	Span
	Name        string
	Attributes  []JSXAttribute
	Content     []Node
	SelfClosing bool
	// Component is the enclosing function or class scope name, if any.
	Component string
}

func (*JSXElement) Kind() Kind { return KindJSXElement }

func (n *JSXElement) Children() []Node {
	var out []Node
	for _, a := range n.Attributes {
		if a.Expr != nil {
			out = append(out, a.Expr)
		}
	}
	return append(out, n.Content...)
}

type JSXFragment struct {
	Span
	Content   []Node
	Component string
}

func (*JSXFragment) Kind() Kind         { return KindJSXFragment }
func (n *JSXFragment) Children() []Node { return n.Content }

type JSXText struct {
	Span
	Text string
}

func (*JSXText) Kind() Kind       { return KindJSXText }
func (*JSXText) Children() []Node { return nil }

// JSXExpression is a {...} container inside JSX. Expression is nil for {}.
type JSXExpression struct {
	Span
	Expression *Expression
}

func (*JSXExpression) Kind() Kind { return KindJSXExpression }

func (n *JSXExpression) Children() []Node {
	if n.Expression == nil {
		return nil
	}
	return []Node{n.Expression}
}

// Expression is an opaque token run. Parts holds the JSX nodes found inside
// it; the remaining tokens are only reachable through Tokens.
type Expression struct {
	Span
	Parts []Node
}

func (*Expression) Kind() Kind         { return KindExpression }
func (n *Expression) Children() []Node { return n.Parts }

// Source returns the token values joined with single spaces.
func (n *Expression) Source() string {
	vals := make([]string, len(n.Toks))
	for i, t := range n.Toks {
		vals[i] = t.Value
	}
	return strings.Join(vals, " ")
}

// Token is a raw passthrough for a token no statement rule claimed.
type Token struct {
	Span
}

func (*Token) Kind() Kind       { return KindToken }
func (*Token) Children() []Node { return nil }

// Walk calls fn for n and every descendant in depth-first source order.
// Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Start returns the byte offset where a node begins, or -1 when it has no
// tokens.
func Start(n Node) int {
	toks := n.Tokens()
	if len(toks) == 0 {
		return -1
	}
	return toks[0].Start
}

// End returns the byte offset where a node ends, or -1 when it has no tokens.
func End(n Node) int {
	toks := n.Tokens()
	if len(toks) == 0 {
		return -1
	}
	return toks[len(toks)-1].End
}
