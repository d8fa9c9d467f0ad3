/*
Package token defines the lexical units shared by the lexer, parser and renderer.

	Source Text                        Renderer
	     |                                 ^
	     v                                 |
	+----------+    []Token     +----------------------+
	|  @lexer  | -------------> | gaps + escaped spans |
	+----------+                +----------------------+

A Token covers the half-open byte range [Start, End) of the source it was
produced from. Tokens never overlap and are always ordered by Start, so the
text between two tokens (the "gap") is whitespace or characters no matcher
modeled, and can be re-emitted verbatim.
*/
package token

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// Type is the semantic class of a token. The string form is part of the
// stable JSON contract consumed by widgets, so values must never change.
type Type string

const (
	Keyword     Type = "keyword"
	Identifier  Type = "identifier"
	String      Type = "string"
	Template    Type = "template"
	Regex       Type = "regex"
	Number      Type = "number"
	Comment     Type = "comment"
	Operator    Type = "operator"
	Punctuation Type = "punctuation"
	Boolean     Type = "boolean"
	Null        Type = "null"
	Function    Type = "function"
	Property    Type = "property"

	// JSX
	JSXTag         Type = "jsxTag"
	JSXBracket     Type = "jsxBracket"
	JSXAttribute   Type = "jsxAttribute"
	JSXText        Type = "jsxText"
	ReactComponent Type = "reactComponent"
	ReactHook      Type = "reactHook"
	ReactKeyword   Type = "reactKeyword"

	// XState
	XStateKeyword   Type = "xstateKeyword"
	ContextProperty Type = "contextProperty"
	EventProperty   Type = "eventProperty"
	StateName       Type = "stateName"
	EventName       Type = "eventName"
	ServiceName     Type = "serviceName"
)

// Metadata keys
const (
	// MetaParts holds []Part, the interpolation ranges of a template literal.
	MetaParts = "parts"
	// MetaSubType marks reclassified quoted names ("string").
	MetaSubType = "subType"
)

// Part is a byte range inside a token, e.g. the expression of a ${...}
// interpolation.
type Part struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Token is the smallest lexical unit with a type, a source byte range and its
// literal value.
type Token struct {
	Type     Type           `json:"type"`
	Start    int            `json:"start"`
	End      int            `json:"end"`
	Value    string         `json:"value"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// New builds a token for src[start:end].
func New(typ Type, src string, start, end int) Token {
	return Token{Type: typ, Start: start, End: end, Value: src[start:end]}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Type, t.Value, t.Start)
}

// Len returns the byte length of the token.
func (t Token) Len() int {
	return t.End - t.Start
}

// Is reports whether the token has the given type and value.
func (t Token) Is(typ Type, value string) bool {
	return t.Type == typ && t.Value == value
}

// IsPunct reports whether the token is one of the given punctuation values.
func (t Token) IsPunct(values ...string) bool {
	if t.Type != Punctuation {
		return false
	}
	for _, v := range values {
		if t.Value == v {
			return true
		}
	}
	return false
}

// WithMeta returns a copy of the token with key set in its metadata. The
// receiver's metadata map is never written to.
func (t Token) WithMeta(key string, value any) Token {
	meta := make(map[string]any, len(t.Metadata)+1)
	for k, v := range t.Metadata {
		meta[k] = v
	}
	meta[key] = value
	t.Metadata = meta
	return t
}

// Parts returns the interpolation ranges recorded on a template token.
func (t Token) Parts() []Part {
	if t.Metadata == nil {
		return nil
	}
	parts, _ := t.Metadata[MetaParts].([]Part)
	return parts
}

// Validate checks the ordering and coverage invariants of a token stream
// against the source it was produced from.
func Validate(tokens []Token, src string) error {
	last := 0
	for i, t := range tokens {
		if t.Start > t.End {
			return errors.Errorf("token %d (%s) has start after end", i, t)
		}
		if t.Start < last {
			return errors.Errorf("token %d (%s) overlaps previous token ending at %d", i, t, last)
		}
		if t.End > len(src) {
			return errors.Errorf("token %d (%s) ends past source length %d", i, t, len(src))
		}
		if src[t.Start:t.End] != t.Value {
			return errors.Errorf("token %d (%s) value does not match source %q", i, t, src[t.Start:t.End])
		}
		last = t.End
	}
	return nil
}
