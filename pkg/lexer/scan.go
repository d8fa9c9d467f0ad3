package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/walteh/codehl/pkg/token"
)

// The scan functions below are pure: given the source and a position they
// report where the construct ends, or ok=false without side effects.

// scanComment matches // line comments (up to, not including, the newline)
// and /* block */ comments. An unterminated block comment runs to the end of
// input.
func scanComment(src string, pos int) (int, bool) {
	if !strings.HasPrefix(src[pos:], "/") || pos+1 >= len(src) {
		return 0, false
	}
	switch src[pos+1] {
	case '/':
		if nl := strings.IndexByte(src[pos:], '\n'); nl >= 0 {
			return pos + nl, true
		}
		return len(src), true
	case '*':
		if end := strings.Index(src[pos+2:], "*/"); end >= 0 {
			return pos + 2 + end + 2, true
		}
		return len(src), true
	}
	return 0, false
}

// scanString matches a single or double quoted string with backslash
// escapes. An unterminated string runs to the end of input.
func scanString(src string, pos int) (int, bool) {
	quote := src[pos]
	if quote != '"' && quote != '\'' {
		return 0, false
	}
	for i := pos + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1, true
		}
	}
	return len(src), true
}

// scanTemplate matches a backtick template literal. Each ${...}
// interpolation is located with a brace counter and its inner range is
// returned; the interpolation itself is not tokenized here.
func scanTemplate(src string, pos int) (int, []token.Part, bool) {
	if src[pos] != '`' {
		return 0, nil, false
	}

	var parts []token.Part
	i := pos + 1
	for i < len(src) {
		switch {
		case src[i] == '\\':
			i += 2
		case src[i] == '`':
			return i + 1, parts, true
		case src[i] == '$' && i+1 < len(src) && src[i+1] == '{':
			start := i + 2
			depth := 1
			j := start
			for ; j < len(src); j++ {
				if src[j] == '{' {
					depth++
				} else if src[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			parts = append(parts, token.Part{Start: start, End: j})
			i = j + 1
		default:
			i++
		}
	}
	return len(src), parts, true
}

// regexPreceding lists the token values after which a '/' starts a regex.
var regexPreceding = map[string]bool{
	"=": true, "(": true, "[": true, ",": true, ":": true, ";": true,
	"!": true, "&": true, "|": true, "?": true, "{": true, "}": true,
	"return": true,
}

// isRegexContext reports whether a '/' following prev begins a regex
// literal. This is a heuristic over the previous token only.
func isRegexContext(prev *token.Token) bool {
	if prev == nil {
		return true
	}
	switch prev.Type {
	case token.Operator, token.Punctuation, token.Keyword:
		return regexPreceding[prev.Value]
	}
	return false
}

// scanRegex matches /body/flags. Slashes inside [...] classes and escaped
// slashes do not terminate the body. A regex cannot span lines, so an
// unterminated one ends at the newline.
func scanRegex(src string, pos int) (int, bool) {
	if src[pos] != '/' || pos+1 >= len(src) || src[pos+1] == '/' || src[pos+1] == '*' {
		return 0, false
	}

	inClass := false
	i := pos + 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			return i, true
		case c == '\\':
			if i+1 < len(src) && src[i+1] == '\n' {
				return i + 1, true
			}
			i += 2
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			i++
			for i < len(src) && isRegexFlag(src[i]) {
				i++
			}
			return i, true
		}
		i++
	}
	return len(src), true
}

// scanNumber greedily matches digits, '.', '_' and the radix/BigInt marker
// letters. The lexeme is not validated.
func scanNumber(src string, pos int) (int, bool) {
	c := src[pos]
	if !isDigit(c) && !(c == '.' && pos+1 < len(src) && isDigit(src[pos+1])) {
		return 0, false
	}
	i := pos
	for i < len(src) && isNumberChar(src[i]) {
		i++
	}
	return i, true
}

func isRegexFlag(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumberChar(c byte) bool {
	switch c {
	case '.', '_', 'x', 'X', 'b', 'B', 'o', 'O', 'n', 'N':
		return true
	}
	return isDigit(c)
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || r == '#' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// scanIdentifier matches an identifier (including keywords and private
// #names).
func scanIdentifier(src string, pos int) (int, bool) {
	first, size := utf8.DecodeRuneInString(src[pos:])
	if !isIdentStart(first) {
		return 0, false
	}
	i := pos + size
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if !isIdentPart(r) {
			break
		}
		i += size
	}
	if first == '#' && i == pos+1 {
		return 0, false
	}
	return i, true
}

// operators is ordered longest first so the first prefix hit is the longest
// match.
var operators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
	"=", "+", "-", "*", "/", "%", "<", ">", "!", "&", "|", "^", "~", "?", "@",
}

func scanOperator(src string, pos int) (int, bool) {
	rest := src[pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			// "?." followed by a digit is a conditional and a number, not
			// optional chaining.
			if op == "?." && len(rest) > 2 && isDigit(rest[2]) {
				continue
			}
			return pos + len(op), true
		}
	}
	return 0, false
}

func scanPunctuation(src string, pos int) (int, bool) {
	switch src[pos] {
	case '{', '}', '(', ')', '[', ']', ';', ',', '.', ':':
		return pos + 1, true
	}
	return 0, false
}
