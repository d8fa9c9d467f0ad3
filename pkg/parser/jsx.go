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

func isOpenBracket(t token.Token) bool {
	return (t.Type == token.JSXBracket || t.Type == token.Operator) && (t.Value == "<" || t.Value == "&lt;")
}

func isCloseBracket(t token.Token) bool {
	return (t.Type == token.JSXBracket || t.Type == token.Operator) && (t.Value == ">" || t.Value == "&gt;")
}

func isSlash(t token.Token) bool {
	return (t.Type == token.JSXBracket || t.Type == token.Operator) && t.Value == "/"
}

// atJSX reports whether the current token opens a tag: a '<' followed by
// '/', '>' or a name.
func (p *Parser) atJSX() bool {
	t := p.peek()
	if t == nil || !isOpenBracket(*t) {
		return false
	}
	next := p.peekAt(1)
	if next == nil {
		return false
	}
	if isSlash(*next) || isCloseBracket(*next) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(next.Value)
	return unicode.IsLetter(r)
}

// jsxStart is atJSX restricted to positions where an operand may begin.
// Brackets the lexer already classified as JSX are trusted as-is.
func (p *Parser) jsxStart() bool {
	if !p.atJSX() {
		return false
	}
	return p.peek().Type == token.JSXBracket || p.exprMayStart()
}

func isFragmentName(name string) bool {
	return name == "Fragment" || name == "React.Fragment"
}

// parseJSXElement parses an element or fragment starting at '<'.
func (p *Parser) parseJSXElement(s *ScopeStack) (ast.Node, error) {
	start := p.pos
	p.advance() // <

	t := p.peek()
	if t == nil {
		return nil, p.unexpected("JSX tag name")
	}

	if isCloseBracket(*t) {
		p.advance()
		content, err := p.parseJSXChildren(s, "", true)
		if err != nil {
			return nil, err
		}
		frag := &ast.JSXFragment{Content: content, Component: s.Component()}
		frag.Span = p.span(start)
		return frag, nil
	}

	if isSlash(*t) {
		return nil, p.unexpected("JSX opening tag")
	}

	name, err := p.parseJSXName()
	if err != nil {
		return nil, err
	}
	el := &ast.JSXElement{Name: name, Component: s.Component()}

attributes:
	for {
		t := p.peek()
		if t == nil {
			return nil, p.unexpected(`">"`)
		}
		switch {
		case isCloseBracket(*t):
			p.advance()
			break attributes
		case isSlash(*t):
			next := p.peekAt(1)
			if next == nil || !isCloseBracket(*next) {
				p.advance()
				return nil, p.unexpected(`">"`)
			}
			p.advance()
			p.advance()
			el.SelfClosing = true
			break attributes
		case t.IsPunct("{"):
			expr, err := p.parseJSXExpression(s)
			if err != nil {
				return nil, err
			}
			spread := len(expr.Toks) > 1 && expr.Toks[1].Is(token.Operator, "...")
			el.Attributes = append(el.Attributes, ast.JSXAttribute{Expr: expr, Spread: spread})
		case t.Type == token.JSXAttribute || isWord(*t):
			attr, err := p.parseJSXAttribute(s)
			if err != nil {
				return nil, err
			}
			el.Attributes = append(el.Attributes, attr)
		default:
			return nil, p.unexpected("JSX attribute")
		}
	}

	if !el.SelfClosing {
		match := name
		if isFragmentName(name) {
			match = ""
		}
		content, err := p.parseJSXChildren(s, match, isFragmentName(name))
		if err != nil {
			return nil, err
		}
		el.Content = content
	}

	el.Span = p.span(start)
	return el, nil
}

// parseJSXName consumes a tag name. Names the lexer split into several
// tokens (member.name, custom-element) are joined back together.
func (p *Parser) parseJSXName() (string, error) {
	t := p.peek()
	if t == nil || !isWord(*t) {
		return "", p.unexpected("JSX tag name")
	}
	var sb strings.Builder
	sb.WriteString(p.advance().Value)
	for {
		sep, next := p.peek(), p.peekAt(1)
		if sep == nil || next == nil || !isWord(*next) || sep.End != next.Start {
			break
		}
		if !sep.IsPunct(".", ":") && !sep.Is(token.Operator, "-") {
			break
		}
		sb.WriteString(p.advance().Value)
		sb.WriteString(p.advance().Value)
	}
	return sb.String(), nil
}

func (p *Parser) parseJSXAttribute(s *ScopeStack) (ast.JSXAttribute, error) {
	attr := ast.JSXAttribute{Name: p.advance().Value}

	t := p.peek()
	if t == nil || !t.Is(token.Operator, "=") {
		return attr, nil
	}
	p.advance()

	v := p.peek()
	switch {
	case v == nil:
		return attr, p.unexpected("attribute value")
	case v.Type == token.String:
		val := p.advance()
		attr.Value = &val
	case v.IsPunct("{"):
		expr, err := p.parseJSXExpression(s)
		if err != nil {
			return attr, err
		}
		attr.Expr = expr
	default:
		return attr, p.unexpected("attribute value")
	}
	return attr, nil
}

// parseJSXExpression parses a {...} container.
func (p *Parser) parseJSXExpression(s *ScopeStack) (*ast.JSXExpression, error) {
	start := p.pos
	p.advance() // {

	c := &ast.JSXExpression{}
	if t := p.peek(); t != nil && !t.IsPunct("}") {
		expr, err := p.collect(s, func(t token.Token) bool { return t.IsPunct("}") }, false)
		if err != nil {
			return nil, err
		}
		c.Expression = expr
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	c.Span = p.span(start)
	return c, nil
}

// parseJSXChildren parses element content through the closing tag. name is
// the tag the closing tag must repeat; anyName skips that check (fragments).
func (p *Parser) parseJSXChildren(s *ScopeStack, name string, anyName bool) ([]ast.Node, error) {
	var out []ast.Node
	for {
		t := p.peek()
		if t == nil {
			return nil, p.unexpected(fmt.Sprintf("closing tag </%s>", name))
		}

		next := p.peekAt(1)
		switch {
		case isOpenBracket(*t) && next != nil && isSlash(*next):
			if err := p.parseJSXClosingTag(name, anyName); err != nil {
				return nil, err
			}
			return out, nil

		case p.atJSX():
			child, err := p.parseJSXElement(s)
			if err != nil {
				return nil, err
			}
			out = append(out, child)

		case t.Type == token.Comment:
			start := p.pos
			p.advance()
			out = append(out, &ast.Comment{Span: p.span(start)})

		case t.IsPunct("{"):
			expr, err := p.parseJSXExpression(s)
			if err != nil {
				return nil, err
			}
			out = append(out, expr)

		default:
			out = append(out, p.parseJSXText())
		}
	}
}

func (p *Parser) parseJSXClosingTag(name string, anyName bool) error {
	p.advance() // <
	p.advance() // /

	nameAt := p.peek()
	closing := ""
	if nameAt != nil && !isCloseBracket(*nameAt) {
		var err error
		if closing, err = p.parseJSXName(); err != nil {
			return err
		}
	}
	if !anyName && closing != name {
		tok := token.Token{}
		if nameAt != nil {
			tok = *nameAt
		}
		return errors.WithStack(&UnexpectedTokenError{Token: tok, Expected: fmt.Sprintf("closing tag </%s>", name)})
	}

	t := p.peek()
	if t == nil || !isCloseBracket(*t) {
		return p.unexpected(`">"`)
	}
	p.advance()
	return nil
}

// parseJSXText joins a run of non-JSX tokens into one text node. It always
// consumes at least one token.
func (p *Parser) parseJSXText() *ast.JSXText {
	start := p.pos
	p.advance()
	for t := p.peek(); t != nil && !isOpenBracket(*t) && !t.IsPunct("{") && t.Type != token.Comment; t = p.peek() {
		p.advance()
	}

	n := &ast.JSXText{Span: p.span(start)}
	toks := n.Toks
	if p.src != "" {
		n.Text = p.src[toks[0].Start:toks[len(toks)-1].End]
	} else {
		vals := make([]string, len(toks))
		for i, t := range toks {
			vals[i] = t.Value
		}
		n.Text = strings.Join(vals, " ")
	}
	return n
}
