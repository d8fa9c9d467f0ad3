// Package api holds the browser-facing calls of the wasm module. Arguments
// and results are strings so they cross the JS boundary unchanged.
package api

import (
	"context"
	"encoding/json"
	"sync"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/codehl/pkg/highlight"
	"github.com/walteh/codehl/pkg/theme"
)

// Tokenize returns the token stream of code as a JSON array.
func Tokenize(ctx context.Context, code, language string) (string, error) {
	tokens := highlight.Tokenize(code, highlight.Options{Language: language})
	out, err := json.Marshal(highlight.Locate(code, tokens))
	if err != nil {
		return "", errors.Errorf("encoding tokens: %w", err)
	}
	return string(out), nil
}

// Render highlights code. optionsJSON is a JSON object with the fields of
// highlight.Options; an empty string means defaults.
func Render(ctx context.Context, code, optionsJSON string) (string, error) {
	var opts highlight.Options
	if optionsJSON != "" {
		if err := json.Unmarshal([]byte(optionsJSON), &opts); err != nil {
			return "", errors.Errorf("decoding options: %w", err)
		}
	}
	return highlight.Render(ctx, code, opts), nil
}

var (
	storeOnce sync.Once
	store     *theme.Store
	storeErr  error
)

// ThemeCSS returns the stylesheet for the named built-in themes, or all of
// them.
func ThemeCSS(ctx context.Context, names ...string) (string, error) {
	storeOnce.Do(func() {
		store, storeErr = theme.NewStore(ctx)
	})
	if storeErr != nil {
		return "", storeErr
	}
	return store.CSS(names...)
}
