package lexer

import "github.com/walteh/codehl/pkg/token"

var keywords = map[string]bool{
	"abstract": true, "as": true, "async": true, "await": true, "break": true,
	"case": true, "catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "declare": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "finally": true,
	"for": true, "from": true, "function": true, "get": true, "if": true,
	"implements": true, "import": true, "in": true, "instanceof": true,
	"interface": true, "keyof": true, "let": true, "namespace": true, "new": true,
	"of": true, "private": true, "protected": true, "public": true,
	"readonly": true, "return": true, "set": true, "static": true, "super": true,
	"switch": true, "this": true, "throw": true, "try": true, "type": true,
	"typeof": true, "var": true, "void": true, "while": true, "with": true,
	"yield": true,
}

var booleans = map[string]bool{
	"true":  true,
	"false": true,
}

var nulls = map[string]bool{
	"null":      true,
	"undefined": true,
}

// ClassifyWord is the base classification shared by every language: fixed
// keyword, boolean and null tables, everything else is an identifier.
func ClassifyWord(word string) token.Type {
	switch {
	case keywords[word]:
		return token.Keyword
	case booleans[word]:
		return token.Boolean
	case nulls[word]:
		return token.Null
	}
	return token.Identifier
}
