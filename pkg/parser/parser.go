/*
Package parser builds a shallow ast from a token stream.

Statements are dispatched on their leading token:

	comment            -> Comment
	[async] function   -> FunctionDeclaration   (pushes a function scope)
	class              -> ClassDeclaration      (pushes a class scope)
	const | let | var  -> VariableDeclaration
	if                 -> IfStatement
	for | while | do   -> LoopStatement
	return             -> ReturnStatement
	import             -> ImportStatement
	export             -> ExportStatement
	identifier/literal -> Expression (opaque run up to ; , ) } ])
	anything else      -> Token (passthrough)

Expressions are never structured further. The only exception is JSX: with
WithJSX, a '<' (or &lt;) that can start an expression and is followed by a
name, '/' or '>' is parsed into JSXElement/JSXFragment nodes and recorded in
Expression.Parts.

Parse is the one stage of the pipeline that returns errors: a missing
required token (an unclosed block, a mismatched JSX closing tag) yields an
*UnexpectedTokenError or *UnexpectedEndOfInputError.
*/
package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/codehl/pkg/ast"
	"github.com/walteh/codehl/pkg/token"
)

type Parser struct {
	tokens []token.Token
	src    string
	jsx    bool
	pos    int
}

type Option func(*Parser)

// WithSource gives the parser the original code, used to rebuild JSX text
// with its inner whitespace intact.
func WithSource(src string) Option {
	return func(p *Parser) {
		p.src = src
	}
}

// WithJSX enables the JSX statement and expression hooks.
func WithJSX() Option {
	return func(p *Parser) {
		p.jsx = true
	}
}

func New(tokens []token.Token, opts ...Option) *Parser {
	p := &Parser{tokens: tokens}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse consumes every token and returns the top-level nodes. Parse may be
// called more than once; each call starts from the first token with a fresh
// scope stack.
func (p *Parser) Parse() ([]ast.Node, error) {
	p.pos = 0
	scopes := NewScopeStack()

	var nodes []ast.Node
	for !p.done() {
		n, err := p.parseStatement(scopes)
		if err != nil {
			return nil, errors.Errorf("parsing statement: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (p *Parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) peek() *token.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(k int) *token.Token {
	if p.pos+k >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos+k]
}

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) span(start int) ast.Span {
	return ast.Span{Toks: p.tokens[start:p.pos]}
}

// unexpected builds the error for the current position: end of input when
// the tokens ran out, otherwise the offending token.
func (p *Parser) unexpected(expected string) error {
	if t := p.peek(); t != nil {
		return errors.WithStack(&UnexpectedTokenError{Token: *t, Expected: expected})
	}
	return errors.WithStack(&UnexpectedEndOfInputError{Expected: expected})
}

func (p *Parser) expectPunct(value string) error {
	if t := p.peek(); t != nil && t.IsPunct(value) {
		p.advance()
		return nil
	}
	return p.unexpected(fmt.Sprintf("%q", value))
}

func (p *Parser) skipPunct(value string) {
	if t := p.peek(); t != nil && t.IsPunct(value) {
		p.advance()
	}
}

func (p *Parser) atKeyword(values ...string) bool {
	t := p.peek()
	if t == nil || t.Type != token.Keyword {
		return false
	}
	for _, v := range values {
		if t.Value == v {
			return true
		}
	}
	return false
}

func (p *Parser) atValue(value string) bool {
	t := p.peek()
	return t != nil && t.Value == value
}

func (p *Parser) parseStatement(s *ScopeStack) (ast.Node, error) {
	if p.jsx && p.jsxStart() {
		return p.parseJSXElement(s)
	}

	t := p.peek()
	switch {
	case t.Type == token.Comment:
		start := p.pos
		p.advance()
		return &ast.Comment{Span: p.span(start)}, nil
	case p.atKeyword("async"):
		if next := p.peekAt(1); next != nil && next.Is(token.Keyword, "function") {
			return p.parseFunction(s)
		}
		return p.parseExpressionStatement(s)
	case p.atKeyword("function"):
		return p.parseFunction(s)
	case p.atKeyword("class"):
		return p.parseClass(s)
	case p.atKeyword("const", "let", "var"):
		return p.parseVariable(s)
	case p.atKeyword("if"):
		return p.parseIf(s)
	case p.atKeyword("for", "while", "do"):
		return p.parseLoop(s)
	case p.atKeyword("return"):
		return p.parseReturn(s)
	case p.atKeyword("import"):
		if next := p.peekAt(1); next != nil && next.IsPunct("(", ".") {
			return p.parseExpressionStatement(s)
		}
		return p.parseImport()
	case p.atKeyword("export"):
		return p.parseExport(s)
	case t.IsPunct("{"):
		return p.collect(s, nil, true)
	case isExpressionStart(*t):
		return p.parseExpressionStatement(s)
	}

	start := p.pos
	p.advance()
	return &ast.Token{Span: p.span(start)}, nil
}

// parseBlock parses '{' statements '}'.
func (p *Parser) parseBlock(s *ScopeStack) ([]ast.Node, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var body []ast.Node
	for {
		t := p.peek()
		if t == nil {
			return nil, p.unexpected(`"}"`)
		}
		if t.IsPunct("}") {
			p.advance()
			return body, nil
		}
		n, err := p.parseStatement(s)
		if err != nil {
			return nil, err
		}
		body = append(body, n)
	}
}

// parseBody parses a block or a single statement, as used by if and loops.
func (p *Parser) parseBody(s *ScopeStack) ([]ast.Node, error) {
	t := p.peek()
	if t == nil {
		return nil, p.unexpected("statement")
	}
	if t.IsPunct("{") {
		return p.parseBlock(s)
	}
	n, err := p.parseStatement(s)
	if err != nil {
		return nil, err
	}
	return []ast.Node{n}, nil
}

func (p *Parser) parseFunction(s *ScopeStack) (ast.Node, error) {
	start := p.pos
	fn := &ast.FunctionDeclaration{Scope: s.Path()}

	if p.atKeyword("async") {
		fn.Async = true
		p.advance()
	}
	p.advance() // function

	if t := p.peek(); t != nil && t.Is(token.Operator, "*") {
		p.advance()
	}
	if t := p.peek(); t != nil && isWord(*t) {
		fn.Name = t.Value
		s.Declare(t.Value, "function", *t)
		p.advance()
	}

	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	paramStart := p.pos
	if err := p.skipBalanced("(", ")"); err != nil {
		return nil, err
	}
	fn.Params = p.tokens[paramStart : p.pos-1]

	// return type annotations, or a bodiless overload signature
	for t := p.peek(); t != nil && !t.IsPunct("{"); t = p.peek() {
		if t.IsPunct(";") {
			p.advance()
			fn.Span = p.span(start)
			return fn, nil
		}
		p.advance()
	}

	s.Push(ScopeFunction, fn.Name)
	for _, param := range fn.Params {
		if param.Type == token.Identifier {
			s.Declare(param.Value, "param", param)
		}
	}
	body, err := p.parseBlock(s)
	s.Pop()
	if err != nil {
		return nil, err
	}

	fn.Body = body
	fn.Span = p.span(start)
	return fn, nil
}

func (p *Parser) parseClass(s *ScopeStack) (ast.Node, error) {
	start := p.pos
	cls := &ast.ClassDeclaration{Scope: s.Path()}
	p.advance() // class

	if t := p.peek(); t != nil && isWord(*t) && t.Type != token.Keyword {
		cls.Name = t.Value
		s.Declare(t.Value, "class", *t)
		p.advance()
	}

	var heritage []string
	for t := p.peek(); t != nil && !t.IsPunct("{"); t = p.peek() {
		if t.Is(token.Keyword, "extends") {
			heritage = heritage[:0]
		} else if t.Type != token.Keyword {
			heritage = append(heritage, t.Value)
		}
		p.advance()
	}
	cls.Extends = strings.Join(heritage, "")

	s.Push(ScopeClass, cls.Name)
	body, err := p.parseBlock(s)
	s.Pop()
	if err != nil {
		return nil, err
	}

	cls.Body = body
	cls.Span = p.span(start)
	return cls, nil
}

func (p *Parser) parseVariable(s *ScopeStack) (ast.Node, error) {
	start := p.pos
	decl := &ast.VariableDeclaration{DeclKind: p.advance().Value, Scope: s.Path()}

	for {
		var d ast.Declarator
		d.Names = p.parseBindingNames(s, decl.DeclKind)

		if t := p.peek(); t != nil && t.Is(token.Operator, "=") {
			p.advance()
			function := len(d.Names) == 1 && p.initIsFunction()
			if function {
				s.Push(ScopeFunction, d.Names[0])
			}
			init, err := p.parseExpression(s)
			if function {
				s.Pop()
			}
			if err != nil {
				return nil, err
			}
			d.Init = init
		}
		decl.Declarators = append(decl.Declarators, d)

		if t := p.peek(); t != nil && t.IsPunct(",") {
			p.advance()
			continue
		}
		break
	}

	p.skipPunct(";")
	decl.Span = p.span(start)
	return decl, nil
}

// parseBindingNames consumes a binding target (a name or a destructuring
// pattern with an optional type annotation) and declares the bound names.
func (p *Parser) parseBindingNames(s *ScopeStack, kind string) []string {
	var names []string
	depth := 0
	annotated := false
	for t := p.peek(); t != nil; t = p.peek() {
		if depth == 0 && (t.Is(token.Operator, "=") || t.IsPunct(";", ",")) {
			break
		}
		switch {
		case t.IsPunct("{", "[", "("):
			depth++
		case t.IsPunct("}", "]", ")"):
			if depth == 0 {
				return names
			}
			depth--
		case depth == 0 && t.IsPunct(":"):
			annotated = true
		case isWord(*t) && t.Type != token.Keyword && !annotated:
			next := p.peekAt(1)
			if depth == 0 || next == nil || !next.IsPunct(":") {
				names = append(names, t.Value)
				s.Declare(t.Value, kind, *t)
			}
			if depth == 0 {
				annotated = true
			}
		}
		p.advance()
	}
	return names
}

// initIsFunction looks ahead over an initializer for a function or arrow at
// bracket depth 0, so the initializer can be parsed in its own scope.
func (p *Parser) initIsFunction() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		t := p.tokens[i]
		switch {
		case t.IsPunct("(", "[", "{"):
			depth++
		case t.IsPunct(")", "]", "}"):
			if depth == 0 {
				return false
			}
			depth--
		case depth > 0:
		case t.IsPunct(";", ","):
			return false
		case t.Is(token.Keyword, "function"), t.Is(token.Operator, "=>"):
			return true
		case t.Type == token.Keyword && declarationKeywords[t.Value]:
			return false
		}
	}
	return false
}

var declarationKeywords = map[string]bool{
	"const": true, "let": true, "var": true, "class": true, "import": true, "export": true,
}

func (p *Parser) parseIf(s *ScopeStack) (ast.Node, error) {
	start := p.pos
	stmt := &ast.IfStatement{}
	p.advance() // if

	test, err := p.parseParenGroup(s)
	if err != nil {
		return nil, err
	}
	stmt.Test = test

	if stmt.Consequent, err = p.parseBody(s); err != nil {
		return nil, err
	}

	if p.atKeyword("else") {
		p.advance()
		if p.atKeyword("if") {
			alt, err := p.parseIf(s)
			if err != nil {
				return nil, err
			}
			stmt.Alternate = []ast.Node{alt}
		} else if stmt.Alternate, err = p.parseBody(s); err != nil {
			return nil, err
		}
	}

	stmt.Span = p.span(start)
	return stmt, nil
}

func (p *Parser) parseLoop(s *ScopeStack) (ast.Node, error) {
	start := p.pos
	loop := &ast.LoopStatement{Keyword: p.advance().Value}

	var err error
	if loop.Keyword == "do" {
		if loop.Body, err = p.parseBody(s); err != nil {
			return nil, err
		}
		if !p.atKeyword("while") {
			return nil, p.unexpected(`"while"`)
		}
		p.advance()
		if loop.Header, err = p.parseParenGroup(s); err != nil {
			return nil, err
		}
		p.skipPunct(";")
		loop.Span = p.span(start)
		return loop, nil
	}

	if p.atKeyword("await") {
		p.advance()
	}
	if loop.Header, err = p.parseParenGroup(s); err != nil {
		return nil, err
	}
	if loop.Body, err = p.parseBody(s); err != nil {
		return nil, err
	}
	loop.Span = p.span(start)
	return loop, nil
}

func (p *Parser) parseReturn(s *ScopeStack) (ast.Node, error) {
	start := p.pos
	ret := &ast.ReturnStatement{}
	p.advance() // return

	if t := p.peek(); t != nil && !t.IsPunct(";", "}") {
		arg, err := p.parseExpression(s)
		if err != nil {
			return nil, err
		}
		if len(arg.Toks) > 0 {
			ret.Argument = arg
		}
	}
	p.skipPunct(";")
	ret.Span = p.span(start)
	return ret, nil
}

func (p *Parser) parseImport() (ast.Node, error) {
	start := p.pos
	imp := &ast.ImportStatement{}
	p.advance() // import

	for t := p.peek(); t != nil && !t.IsPunct(";"); t = p.peek() {
		p.advance()
		if t.Type == token.String {
			imp.Source = unquote(t.Value)
			break
		}
	}
	p.skipPunct(";")
	imp.Span = p.span(start)
	return imp, nil
}

func (p *Parser) parseExport(s *ScopeStack) (ast.Node, error) {
	start := p.pos
	exp := &ast.ExportStatement{}
	p.advance() // export

	if p.atKeyword("default") {
		exp.Default = true
		p.advance()
	}

	t := p.peek()
	switch {
	case t == nil:
	case p.atKeyword("function", "class", "const", "let", "var", "async"):
		decl, err := p.parseStatement(s)
		if err != nil {
			return nil, err
		}
		exp.Declaration = decl
	case t.IsPunct("{") && !exp.Default, t.Is(token.Operator, "*"):
		// export { a, b } [from "x"] / export * [as ns] from "x"
		p.advance()
		if t.IsPunct("{") {
			if err := p.skipBalanced("{", "}"); err != nil {
				return nil, err
			}
		} else if p.atValue("as") {
			p.advance()
			if next := p.peek(); next != nil && isWord(*next) {
				p.advance()
			}
		}
		if p.atValue("from") {
			p.advance()
			if next := p.peek(); next != nil && next.Type == token.String {
				p.advance()
			}
		}
		p.skipPunct(";")
	default:
		expr, err := p.parseExpression(s)
		if err != nil {
			return nil, err
		}
		exp.Declaration = expr
		p.skipPunct(";")
	}

	exp.Span = p.span(start)
	return exp, nil
}

func (p *Parser) parseExpressionStatement(s *ScopeStack) (ast.Node, error) {
	start := p.pos
	expr, err := p.parseExpression(s)
	if err != nil {
		return nil, err
	}
	if p.pos == start {
		p.advance()
		return &ast.Token{Span: p.span(start)}, nil
	}
	p.skipPunct(";")
	expr.Span = p.span(start)
	return expr, nil
}

// parseExpression collects an opaque run up to a ; , ) } or ] at bracket
// depth 0.
func (p *Parser) parseExpression(s *ScopeStack) (*ast.Expression, error) {
	return p.collect(s, func(t token.Token) bool {
		return t.IsPunct(";", ",", ")", "}", "]")
	}, false)
}

// parseParenGroup parses a parenthesized run, parens included.
func (p *Parser) parseParenGroup(s *ScopeStack) (*ast.Expression, error) {
	if t := p.peek(); t == nil || !t.IsPunct("(") {
		return nil, p.unexpected(`"("`)
	}
	return p.collect(s, nil, true)
}

// collect gathers tokens into an Expression. In group mode the current token
// must be an opening bracket and the run ends after its matching close;
// otherwise it ends before the first depth-0 token stop accepts. JSX found
// where an expression may start becomes a part.
func (p *Parser) collect(s *ScopeStack, stop func(token.Token) bool, group bool) (*ast.Expression, error) {
	start := p.pos
	expr := &ast.Expression{}
	depth := 0

loop:
	for {
		t := p.peek()
		if t == nil {
			if group && depth > 0 {
				return nil, p.unexpected("closing bracket")
			}
			break
		}
		if depth == 0 && stop != nil && stop(*t) {
			break
		}
		if p.jsx && p.jsxStart() {
			n, err := p.parseJSXElement(s)
			if err != nil {
				return nil, err
			}
			expr.Parts = append(expr.Parts, n)
			continue
		}

		switch {
		case t.IsPunct("(", "[", "{"):
			depth++
		case t.IsPunct(")", "]", "}"):
			if depth == 0 {
				break loop
			}
			depth--
			if group && depth == 0 {
				p.advance()
				break loop
			}
		}
		p.advance()
	}

	expr.Span = p.span(start)
	return expr, nil
}

// skipBalanced consumes tokens through the close matching an already
// consumed open.
func (p *Parser) skipBalanced(open, close string) error {
	depth := 1
	for t := p.peek(); t != nil; t = p.peek() {
		p.advance()
		switch {
		case t.IsPunct(open):
			depth++
		case t.IsPunct(close):
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return p.unexpected(fmt.Sprintf("%q", close))
}

// exprMayStart reports whether the previous token leaves room for a new
// operand. After a value, '<' is a comparison or type argument.
func (p *Parser) exprMayStart() bool {
	if p.pos == 0 {
		return true
	}
	prev := p.tokens[p.pos-1]
	switch prev.Type {
	case token.Identifier, token.Number, token.String, token.Template, token.Regex,
		token.Boolean, token.Null, token.ReactComponent, token.ReactHook, token.ReactKeyword:
		return false
	case token.Punctuation:
		return prev.Value != ")" && prev.Value != "]"
	}
	return true
}

func isExpressionStart(t token.Token) bool {
	switch t.Type {
	case token.Keyword:
		switch t.Value {
		case "this", "new", "await", "typeof", "void", "delete", "yield", "super":
			return true
		}
		return false
	case token.Punctuation:
		return t.Value == "(" || t.Value == "["
	case token.Operator:
		switch t.Value {
		case "!", "-", "+", "++", "--", "~":
			return true
		}
		return false
	case token.Comment, token.JSXBracket, token.JSXText:
		return false
	}
	return true
}

// isWord reports whether a token spells a name: an identifier of any
// classification, or a keyword.
func isWord(t token.Token) bool {
	switch t.Type {
	case token.Punctuation, token.Operator, token.String, token.Template, token.Number,
		token.Comment, token.Regex, token.JSXBracket, token.JSXText:
		return false
	}
	r, _ := utf8.DecodeRuneInString(t.Value)
	return r == '_' || r == '$' || r == '#' || unicode.IsLetter(r)
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return strings.Trim(s, `"'`)
}
