package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/walteh/codehl/pkg/token"
)

/*
JSX Scanning:
------------

	<Tag attr="x" {...rest} on={fn}>  text  {expr}  <Child/>  </Tag>
	|||| |||| | |||||||||||  | || |   ||||  ||||||  ||||||||  |||||||
	 |    |   |  |           |  |     |       |        |         |
	 |    |   |  +- '{' sub-tokenized '}'     |        |      closing tag
	 |    |   +- string              jsxText  |     nested element (recursive)
	 |    +- jsxAttribute                     +- '{' sub-tokenized '}'
	 +- jsxBracket + jsxTag/reactComponent

Every match is speculative: it works on local offsets and only reports a
result when the whole construct (at least a complete opening tag) scanned
cleanly. On failure the caller sees ok=false and the cursor never moved, so
'<' falls through to the less-than operator.

A children scan stops at the first closing tag that no nested element
claims. A nested element that does not own that tag stays unclosed and its
content simply belongs to the parent, which then looks at the same closing
tag. Children scans are memoized by start offset for the whole input, so
text after an unclosed tag is walked once however many enclosing elements
(or later top-level retries) pass over it.

Documentation snippets often embed JSX already HTML-escaped (&lt;div&gt;),
so the same machine runs with the 4-character entities as brackets.
*/

// JSX returns the JSX/TSX language: tags, fragments, attributes, JSX
// comments and React-aware identifier classification.
func JSX() Language {
	return Language{
		Name:     "jsx",
		NewMatch: newJSXMatch,
		Classify: classifyJSX,
	}
}

type brackets struct {
	open  string
	close string
}

var (
	plainBrackets   = brackets{open: "<", close: ">"}
	escapedBrackets = brackets{open: "&lt;", close: "&gt;"}
)

// newJSXMatch builds the JSX hook for one scan. It keeps one jsxScanner per
// bracket style so children scans are shared between positions.
func newJSXMatch() MatchFunc {
	var input string
	var scanners map[brackets]*jsxScanner

	return func(src string, pos int, prev *token.Token) (Match, bool) {
		if scanners == nil || src != input {
			input = src
			scanners = make(map[brackets]*jsxScanner, 2)
		}
		return matchJSX(src, pos, prev, func(br brackets) *jsxScanner {
			j, ok := scanners[br]
			if !ok {
				j = newJSXScanner(src, br)
				scanners[br] = j
			}
			return j
		})
	}
}

func matchJSX(src string, pos int, prev *token.Token, scanner func(brackets) *jsxScanner) (Match, bool) {
	if m, ok := matchJSXComment(src, pos); ok {
		return m, true
	}

	for _, br := range []brackets{plainBrackets, escapedBrackets} {
		if !strings.HasPrefix(src[pos:], br.open) {
			continue
		}
		j := scanner(br)
		after := pos + len(br.open)
		if strings.HasPrefix(src[after:], "/") {
			if m, _, ok := j.closingTag(pos); ok {
				return m, true
			}
			return Match{}, false
		}
		if !startsExpression(prev) {
			return Match{}, false
		}
		return j.element(pos)
	}

	return Match{}, false
}

// startsExpression reports whether a tag may begin after prev. A '<' right
// after a value (identifier, literal, closing paren) is a comparison or a
// generic type argument, never JSX.
func startsExpression(prev *token.Token) bool {
	if prev == nil {
		return true
	}
	switch prev.Type {
	case token.Identifier, token.Number, token.String, token.Template, token.Regex,
		token.Boolean, token.Null, token.ReactComponent, token.ReactHook, token.ReactKeyword:
		return false
	case token.Punctuation:
		return prev.Value != ")" && prev.Value != "]"
	}
	return true
}

// matchJSXComment matches {/* ... */} textually, ignoring braces inside.
func matchJSXComment(src string, pos int) (Match, bool) {
	if !strings.HasPrefix(src[pos:], "{/*") {
		return Match{}, false
	}
	end := len(src)
	if i := strings.Index(src[pos+3:], "*/}"); i >= 0 {
		end = pos + 3 + i + 3
	}
	return Match{Tokens: []token.Token{token.New(token.Comment, src, pos, end)}, End: end}, true
}

type jsxScanner struct {
	src  string
	br   brackets
	memo map[int]contents
}

func newJSXScanner(src string, br brackets) *jsxScanner {
	return &jsxScanner{src: src, br: br, memo: map[int]contents{}}
}

// contents is the outcome of a children scan.
type contents struct {
	// tokens are the child tokens, without the closing tag.
	tokens []token.Token
	// closing is the closing tag that ended the scan, found at offset at.
	closing Match
	name    string
	at      int
	// ok is false when input ended or a brace group never closed first.
	ok bool
}

func (j *jsxScanner) tok(typ token.Type, start, end int) token.Token {
	return token.New(typ, j.src, start, end)
}

func (j *jsxScanner) skipSpace(i int) int {
	for i < len(j.src) {
		r, size := utf8.DecodeRuneInString(j.src[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

// element matches an opening tag or fragment at pos and, when the matching
// closing tag can be found, its children too. An element without a closing
// tag degrades to its opening tag alone.
func (j *jsxScanner) element(pos int) (Match, bool) {
	open, name, selfClosing, ok := j.openingTag(pos)
	if !ok {
		return Match{}, false
	}
	if selfClosing {
		return open, true
	}
	var buf []token.Token
	c := j.children(open.End, &buf)
	if !c.ok || c.name != name {
		return open, true
	}
	tokens := make([]token.Token, 0, len(open.Tokens)+len(c.tokens)+len(c.closing.Tokens))
	tokens = append(tokens, open.Tokens...)
	tokens = append(tokens, c.tokens...)
	tokens = append(tokens, c.closing.Tokens...)
	return Match{Tokens: tokens, End: c.closing.End}, true
}

// openingTag matches <Name attrs...> / <Name attrs.../> / <>.
func (j *jsxScanner) openingTag(pos int) (m Match, name string, selfClosing bool, ok bool) {
	src := j.src
	i := pos + len(j.br.open)
	m.Tokens = append(m.Tokens, j.tok(token.JSXBracket, pos, i))

	if strings.HasPrefix(src[i:], j.br.close) {
		end := i + len(j.br.close)
		m.Tokens = append(m.Tokens, j.tok(token.JSXBracket, i, end))
		m.End = end
		return m, "", false, true
	}

	nameEnd, ok := scanTagName(src, i)
	if !ok {
		return Match{}, "", false, false
	}
	name = src[i:nameEnd]
	m.Tokens = append(m.Tokens, j.tok(tagType(name), i, nameEnd))
	i = nameEnd

	for {
		i = j.skipSpace(i)
		if i >= len(src) {
			return Match{}, "", false, false
		}

		if strings.HasPrefix(src[i:], j.br.close) {
			end := i + len(j.br.close)
			m.Tokens = append(m.Tokens, j.tok(token.JSXBracket, i, end))
			m.End = end
			return m, name, false, true
		}

		if src[i] == '/' && strings.HasPrefix(src[i+1:], j.br.close) {
			end := i + 1 + len(j.br.close)
			m.Tokens = append(m.Tokens,
				j.tok(token.JSXBracket, i, i+1),
				j.tok(token.JSXBracket, i+1, end),
			)
			m.End = end
			return m, name, true, true
		}

		if src[i] == '{' {
			expr, ok := j.braced(i)
			if !ok {
				return Match{}, "", false, false
			}
			m.Tokens = append(m.Tokens, expr.Tokens...)
			i = expr.End
			continue
		}

		attr, ok := j.attribute(i)
		if !ok {
			return Match{}, "", false, false
		}
		m.Tokens = append(m.Tokens, attr.Tokens...)
		i = attr.End
	}
}

// attribute matches name, name="value", name='value' or name={expr}.
func (j *jsxScanner) attribute(pos int) (Match, bool) {
	src := j.src
	nameEnd, ok := scanAttributeName(src, pos)
	if !ok {
		return Match{}, false
	}
	m := Match{Tokens: []token.Token{j.tok(token.JSXAttribute, pos, nameEnd)}, End: nameEnd}

	i := j.skipSpace(nameEnd)
	if i >= len(src) || src[i] != '=' {
		// boolean attribute
		return m, true
	}
	m.Tokens = append(m.Tokens, j.tok(token.Operator, i, i+1))
	i = j.skipSpace(i + 1)
	if i >= len(src) {
		return Match{}, false
	}

	switch src[i] {
	case '"', '\'':
		end, _ := scanString(src, i)
		if end-1 <= i || src[end-1] != src[i] {
			// unterminated
			return Match{}, false
		}
		m.Tokens = append(m.Tokens, j.tok(token.String, i, end))
		m.End = end
		return m, true
	case '{':
		expr, ok := j.braced(i)
		if !ok {
			return Match{}, false
		}
		m.Tokens = append(m.Tokens, expr.Tokens...)
		m.End = expr.End
		return m, true
	}
	return Match{}, false
}

// braced matches a balanced {...} group, emitting the braces as punctuation
// and sub-tokenizing the inside with the JSX language. Spread attributes
// ({...props}) come out as '{' '...' expr '}'.
func (j *jsxScanner) braced(pos int) (Match, bool) {
	closeAt := scanBalanced(j.src, pos)
	if closeAt < 0 {
		return Match{}, false
	}
	open := j.tok(token.Punctuation, pos, pos+1)
	m := Match{Tokens: []token.Token{open}}
	m.Tokens = append(m.Tokens, tokenizeRange(j.src, pos+1, closeAt, JSX(), &open)...)
	m.Tokens = append(m.Tokens, j.tok(token.Punctuation, closeAt, closeAt+1))
	m.End = closeAt + 1
	return m, true
}

// children appends the element content starting at pos to buf and reports
// the closing tag that ended it. The result is memoized by pos.
func (j *jsxScanner) children(pos int, buf *[]token.Token) contents {
	if c, ok := j.memo[pos]; ok {
		*buf = append(*buf, c.tokens...)
		return c
	}
	start := len(*buf)
	c := j.scanChildren(pos, buf)
	if c.ok {
		c.tokens = (*buf)[start:len(*buf):len(*buf)]
	}
	j.memo[pos] = c
	return c
}

func (j *jsxScanner) scanChildren(pos int, buf *[]token.Token) contents {
	src := j.src
	i := pos
	for i < len(src) {
		switch {
		case strings.HasPrefix(src[i:], j.br.open+"/"):
			closing, name, ok := j.closingTag(i)
			if !ok {
				i = j.text(buf, i)
				continue
			}
			return contents{closing: closing, name: name, at: i, ok: true}

		case strings.HasPrefix(src[i:], j.br.open):
			open, name, selfClosing, ok := j.openingTag(i)
			if !ok {
				i = j.text(buf, i)
				continue
			}
			*buf = append(*buf, open.Tokens...)
			if selfClosing {
				i = open.End
				continue
			}
			c := j.children(open.End, buf)
			if !c.ok {
				return contents{}
			}
			if c.name != name {
				// left unclosed, the tag that stopped it is ours to check
				i = c.at
				continue
			}
			*buf = append(*buf, c.closing.Tokens...)
			i = c.closing.End

		case strings.HasPrefix(src[i:], "{/*"):
			c, _ := matchJSXComment(src, i)
			*buf = append(*buf, c.Tokens...)
			i = c.End

		case src[i] == '{':
			expr, ok := j.braced(i)
			if !ok {
				return contents{}
			}
			*buf = append(*buf, expr.Tokens...)
			i = expr.End

		default:
			i = j.text(buf, i)
		}
	}
	return contents{}
}

// text consumes child text starting at pos (always at least one byte) up to
// the next tag or brace and appends a jsxText token for its non-blank part.
func (j *jsxScanner) text(buf *[]token.Token, pos int) int {
	src := j.src
	end := pos + 1
	for end < len(src) && src[end] != '{' && !strings.HasPrefix(src[end:], j.br.open) {
		end++
	}

	start := pos
	for start < end && isSpaceByte(src[start]) {
		start++
	}
	stop := end
	for stop > start && isSpaceByte(src[stop-1]) {
		stop--
	}
	if stop > start {
		*buf = append(*buf, j.tok(token.JSXText, start, stop))
	}
	return end
}

// closingTag matches </Name> or </>.
func (j *jsxScanner) closingTag(pos int) (Match, string, bool) {
	src := j.src
	i := pos + len(j.br.open)
	if !strings.HasPrefix(src[i:], "/") {
		return Match{}, "", false
	}
	m := Match{Tokens: []token.Token{
		j.tok(token.JSXBracket, pos, i),
		j.tok(token.JSXBracket, i, i+1),
	}}
	i++

	name := ""
	if nameEnd, ok := scanTagName(src, i); ok {
		name = src[i:nameEnd]
		m.Tokens = append(m.Tokens, j.tok(tagType(name), i, nameEnd))
		i = j.skipSpace(nameEnd)
	}

	if !strings.HasPrefix(src[i:], j.br.close) {
		return Match{}, "", false
	}
	end := i + len(j.br.close)
	m.Tokens = append(m.Tokens, j.tok(token.JSXBracket, i, end))
	m.End = end
	return m, name, true
}

// tagType distinguishes DOM elements from components: a leading uppercase
// letter (which includes Fragment and React.Fragment) means a component.
func tagType(name string) token.Type {
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(r) {
		return token.ReactComponent
	}
	return token.JSXTag
}

// scanTagName matches Name, name, member.name, ns:name and custom-element
// names.
func scanTagName(src string, pos int) (int, bool) {
	if pos >= len(src) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(src[pos:])
	if !unicode.IsLetter(r) && r != '_' && r != '$' {
		return 0, false
	}
	i := pos + size
	for i < len(src) {
		r, size = utf8.DecodeRuneInString(src[i:])
		if !isIdentPart(r) && r != '-' && r != '.' && r != ':' {
			break
		}
		i += size
	}
	return i, true
}

func scanAttributeName(src string, pos int) (int, bool) {
	r, size := utf8.DecodeRuneInString(src[pos:])
	if !unicode.IsLetter(r) && r != '_' && r != '$' && r != ':' {
		return 0, false
	}
	i := pos + size
	for i < len(src) {
		r, size = utf8.DecodeRuneInString(src[i:])
		if !isIdentPart(r) && r != '-' && r != ':' {
			break
		}
		i += size
	}
	return i, true
}

// scanBalanced returns the index of the '}' closing the '{' at pos, or -1.
// Braces, parens and brackets are tracked together; strings and template
// literals are skipped so their contents never unbalance the count.
func scanBalanced(src string, pos int) int {
	depth := 0
	i := pos
	for i < len(src) {
		switch c := src[i]; c {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
			if depth == 0 {
				if c != '}' {
					return -1
				}
				return i
			}
			if depth < 0 {
				return -1
			}
		case '"', '\'':
			end, _ := scanString(src, i)
			i = end
			continue
		case '`':
			end, _, _ := scanTemplate(src, i)
			i = end
			continue
		}
		i++
	}
	return -1
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// reactAPI lists React names highlighted as framework keywords.
var reactAPI = map[string]bool{
	"React": true, "ReactDOM": true, "Component": true, "PureComponent": true,
	"Fragment": true, "Suspense": true, "StrictMode": true, "Profiler": true,
	"Children": true, "createElement": true, "cloneElement": true,
	"createContext": true, "createRef": true, "forwardRef": true, "memo": true,
	"lazy": true, "isValidElement": true, "startTransition": true,
	"createPortal": true, "createRoot": true, "hydrateRoot": true,
	"props": true, "setState": true, "forceUpdate": true,
	"defaultProps": true, "propTypes": true, "displayName": true,
	"componentDidMount": true, "componentDidUpdate": true,
	"componentWillUnmount": true, "shouldComponentUpdate": true,
	"getDerivedStateFromProps": true, "getSnapshotBeforeUpdate": true,
	"componentDidCatch": true,
}

// componentIntroducers are the token values after which a PascalCase word
// names a component.
var componentIntroducers = map[string]bool{
	"const": true, "let": true, "var": true, "function": true, "class": true,
	"=": true, "return": true,
}

func classifyJSX(word string, prev *token.Token) (token.Type, bool) {
	if isHookName(word) {
		return token.ReactHook, true
	}
	if reactAPI[word] {
		return token.ReactKeyword, true
	}
	if prev != nil && componentIntroducers[prev.Value] && isPascalCase(word) {
		return token.ReactComponent, true
	}
	return "", false
}

// isHookName matches /^use[A-Z]/.
func isHookName(word string) bool {
	if !strings.HasPrefix(word, "use") || len(word) < 4 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(word[3:])
	return unicode.IsUpper(r)
}

// isPascalCase requires a leading uppercase letter and at least one
// lowercase letter, so UPPER_SNAKE constants are not components.
func isPascalCase(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsUpper(r) {
		return false
	}
	return strings.IndexFunc(word, unicode.IsLower) >= 0
}
