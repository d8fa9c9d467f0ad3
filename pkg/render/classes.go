package render

import (
	"sort"

	"github.com/walteh/codehl/pkg/token"
)

// DefaultVar is the CSS variable (and class) used for unknown token types.
const DefaultVar = "default"

var cssVars = map[token.Type]string{
	token.Keyword:         "keyword",
	token.Identifier:      "variable",
	token.String:          "string",
	token.Template:        "string",
	token.Regex:           "string",
	token.Number:          "number",
	token.Comment:         "comment",
	token.Operator:        "operator",
	token.Punctuation:     "punctuation",
	token.Boolean:         "boolean",
	token.Null:            "null",
	token.Function:        "function",
	token.Property:        "property",
	token.JSXTag:          "jsx-tag",
	token.JSXBracket:      "jsx-bracket",
	token.JSXAttribute:    "jsx-attribute",
	token.JSXText:         DefaultVar,
	token.ReactComponent:  "react-component",
	token.ReactHook:       "function",
	token.ReactKeyword:    "keyword",
	token.XStateKeyword:   "xstate-keyword",
	token.ContextProperty: "context-property",
	token.EventProperty:   "event-property",
	token.StateName:       "state-name",
	token.EventName:       "event-name",
	token.ServiceName:     "service-name",
}

// ClassFor returns the CSS class for a token type: the type name itself for
// known types, "default" otherwise.
func ClassFor(typ token.Type) string {
	if _, ok := cssVars[typ]; ok {
		return string(typ)
	}
	return DefaultVar
}

// CSSVarFor returns the CSS variable name (without the leading --) that
// colors a token type.
func CSSVarFor(typ token.Type) string {
	if v, ok := cssVars[typ]; ok {
		return v
	}
	return DefaultVar
}

// CSSVariables returns every variable a theme must define, sorted.
func CSSVariables() []string {
	seen := map[string]bool{DefaultVar: true}
	for _, v := range cssVars {
		seen[v] = true
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
