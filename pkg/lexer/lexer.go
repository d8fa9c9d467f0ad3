/*
Package lexer turns JavaScript-family source into a flat []token.Token.

Scan Loop:
---------

	      cursor
	        |
	        v
	+----------------+   no   +--------+   no   +--------+        +-------------+
	| whitespace?    | -----> | comment| -----> | string | -> ... | punctuation | -> advance 1 rune
	+----------------+        +--------+        +--------+        +-------------+
	        | yes                 | ok               | ok                |
	        v                     v                  v                   v
	   gap (no token)          emit token, move cursor to match end, loop

Matchers run in a fixed priority order (comment, string, template literal,
regex, number, language hook, identifier/keyword, operator, punctuation). The
first matcher that consumes input wins.

Languages:
---------
A Language plugs into the loop without subclassing the scanner:

  - Match is tried before identifiers. It is a pure "try" function: it either
    returns a Match and ok=true, or ok=false and the loop continues with the
    next matcher from the same position.
  - NewMatch replaces Match when a language needs memory across positions of
    one input. It is called once per scan, so the matcher it builds is never
    shared between inputs or goroutines.
  - Classify reclassifies a scanned word without rescanning characters.
  - Reclassify runs once over the finished stream and returns a corrected
    copy (used by the XState dialect, which needs lookahead).
*/
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/walteh/codehl/pkg/token"
)

// Match is the result of a successful language-specific match.
type Match struct {
	// Tokens are the tokens produced, in source order.
	Tokens []token.Token
	// End is the byte offset where scanning resumes. It must be greater than
	// the position the match was tried at.
	End int
}

// MatchFunc tries a language-specific match at pos. prev is the last emitted
// token, or nil at the start of input.
type MatchFunc func(src string, pos int, prev *token.Token) (Match, bool)

// ClassifyFunc returns the type of an identifier-like word. Returning false
// delegates to the base keyword tables.
type ClassifyFunc func(word string, prev *token.Token) (token.Type, bool)

// ReclassifyFunc post-processes a finished token stream. It must not modify
// its input slice.
type ReclassifyFunc func(tokens []token.Token) []token.Token

// Language is a set of hooks composed into the base scan loop.
type Language struct {
	Name       string
	Match      MatchFunc
	NewMatch   func() MatchFunc
	Classify   ClassifyFunc
	Reclassify ReclassifyFunc
}

// Tokenize scans src with the hooks of lang. It never panics on well-formed
// UTF-8 and always terminates: unterminated constructs are consumed to the
// end of input.
func Tokenize(src string, lang Language) []token.Token {
	tokens := tokenizeRange(src, 0, len(src), lang, nil)
	if lang.Reclassify != nil {
		tokens = lang.Reclassify(tokens)
	}
	return tokens
}

// tokenizeRange scans src[start:end] keeping offsets relative to src. prev
// seeds the regex and classification context.
func tokenizeRange(src string, start, end int, lang Language, prev *token.Token) []token.Token {
	s := &scanner{
		src:   src[:end],
		pos:   start,
		lang:  lang,
		match: lang.Match,
		seed:  prev,
	}
	if lang.NewMatch != nil {
		s.match = lang.NewMatch()
	}
	s.run()
	return s.tokens
}

type scanner struct {
	src    string
	pos    int
	lang   Language
	match  MatchFunc
	tokens []token.Token
	seed   *token.Token
}

func (s *scanner) prev() *token.Token {
	if len(s.tokens) == 0 {
		return s.seed
	}
	return &s.tokens[len(s.tokens)-1]
}

func (s *scanner) emit(typ token.Type, start, end int) {
	s.tokens = append(s.tokens, token.New(typ, s.src, start, end))
	s.pos = end
}

func (s *scanner) run() {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if unicode.IsSpace(r) {
			s.pos += size
			continue
		}
		if !s.step() {
			s.pos += size
		}
	}
}

// step tries every matcher in priority order at the cursor.
func (s *scanner) step() bool {
	pos := s.pos

	if end, ok := scanComment(s.src, pos); ok {
		s.emit(token.Comment, pos, end)
		return true
	}

	if end, ok := scanString(s.src, pos); ok {
		s.emit(token.String, pos, end)
		return true
	}

	if end, parts, ok := scanTemplate(s.src, pos); ok {
		s.emit(token.Template, pos, end)
		if len(parts) > 0 {
			last := len(s.tokens) - 1
			s.tokens[last] = s.tokens[last].WithMeta(token.MetaParts, parts)
		}
		return true
	}

	if isRegexContext(s.prev()) {
		if end, ok := scanRegex(s.src, pos); ok {
			s.emit(token.Regex, pos, end)
			return true
		}
	}

	if end, ok := scanNumber(s.src, pos); ok {
		s.emit(token.Number, pos, end)
		return true
	}

	if s.match != nil {
		if m, ok := s.match(s.src, pos, s.prev()); ok && m.End > pos {
			s.tokens = append(s.tokens, m.Tokens...)
			s.pos = m.End
			return true
		}
	}

	if end, ok := scanIdentifier(s.src, pos); ok {
		s.emit(s.classify(s.src[pos:end]), pos, end)
		return true
	}

	if end, ok := scanOperator(s.src, pos); ok {
		s.emit(token.Operator, pos, end)
		return true
	}

	if end, ok := scanPunctuation(s.src, pos); ok {
		s.emit(token.Punctuation, pos, end)
		return true
	}

	return false
}

func (s *scanner) classify(word string) token.Type {
	if s.lang.Classify != nil {
		if typ, ok := s.lang.Classify(word, s.prev()); ok {
			return typ
		}
	}
	return ClassifyWord(word)
}
