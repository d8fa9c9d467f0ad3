package lexer

import (
	"sort"
	"strings"
)

// Base is plain JavaScript/TypeScript with no hooks.
func Base() Language {
	return Language{Name: "javascript"}
}

var languages = map[string]func() Language{
	"js":         Base,
	"javascript": Base,
	"ts":         Base,
	"typescript": Base,
	"jsx":        JSX,
	"tsx":        JSX,
	"xstate":     XState,
}

// ForLanguage resolves a language id or alias. Unknown ids fall back to the
// base language and report false.
func ForLanguage(name string) (Language, bool) {
	if fn, ok := languages[strings.ToLower(strings.TrimSpace(name))]; ok {
		return fn(), true
	}
	return Base(), false
}

// IsJSX reports whether a language id selects the JSX dialect.
func IsJSX(name string) bool {
	return ForLanguageName(name) == "jsx"
}

// ForLanguageName returns the canonical language name for an id or alias.
func ForLanguageName(name string) string {
	lang, _ := ForLanguage(name)
	return lang.Name
}

// Languages returns every accepted id, sorted.
func Languages() []string {
	ids := make([]string, 0, len(languages))
	for id := range languages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
