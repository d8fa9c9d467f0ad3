/*
Package highlight is the entry point the widgets call: it picks a language,
runs the pipeline and never fails.

	code ──► lexer.Tokenize ──► parser.Parse ──► render.RenderTokens / RenderAST ──► html
	                                   │
	                      error/panic  └──► render.Escape(code)

Every call builds fresh lexer, parser and renderer values, so a Highlighter
may be shared between goroutines.
*/
package highlight

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/codehl/pkg/lexer"
	"github.com/walteh/codehl/pkg/parser"
	"github.com/walteh/codehl/pkg/render"
	"github.com/walteh/codehl/pkg/theme"
	"github.com/walteh/codehl/pkg/token"
)

type Options struct {
	Language         string               `json:"language" yaml:"language"`
	Theme            string               `json:"theme" yaml:"theme"`
	HighlightMode    render.HighlightMode `json:"highlightMode" yaml:"highlightMode"`
	HighlightSection string               `json:"highlightSection" yaml:"highlightSection"`
	WrapCode         bool                 `json:"wrapCode" yaml:"wrapCode"`
	UseAST           bool                 `json:"useAst" yaml:"useAst"`
	TabSize          int                  `json:"tabSize,omitempty" yaml:"tabSize,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.Theme == "" {
		o.Theme = theme.DefaultName
	}
	if o.HighlightMode == "" {
		o.HighlightMode = render.ModeDefault
	}
	return o
}

// RendererConfig is the render configuration these options select.
func (o Options) RendererConfig() render.Config {
	o = o.withDefaults()
	return render.Config{
		Theme:            o.Theme,
		Language:         lexer.ForLanguageName(o.Language),
		HighlightMode:    o.HighlightMode,
		HighlightSection: o.HighlightSection,
	}
}

type Highlighter struct {
	opts Options
}

func New(opts Options) *Highlighter {
	return &Highlighter{opts: opts.withDefaults()}
}

// tokenize is swapped in tests to exercise the panic path.
var tokenize = lexer.Tokenize

// Tokenize returns the token stream for code in the configured language.
func Tokenize(code string, opts Options) []token.Token {
	lang, _ := lexer.ForLanguage(opts.Language)
	return tokenize(code, lang)
}

// Render is shorthand for New(opts).Highlight(ctx, code).
func Render(ctx context.Context, code string, opts Options) string {
	return New(opts).Highlight(ctx, code)
}

// Highlight returns themed HTML for code. If any stage fails the result is
// the escaped source, still wrapped when WrapCode is set.
func (h *Highlighter) Highlight(ctx context.Context, code string) string {
	logger := zerolog.Ctx(ctx)

	html, err := h.Try(ctx, code)
	if err != nil {
		logger.Warn().Err(err).Str("language", h.opts.Language).Msg("highlighting failed, falling back to plain text")
		html = render.Escape(code)
	}

	if h.opts.WrapCode {
		html = h.wrap(code, html)
	}
	return html
}

// Try runs the pipeline and reports failures instead of degrading.
func (h *Highlighter) Try(ctx context.Context, code string) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("highlight panicked: %v", r)
		}
	}()

	lang, ok := lexer.ForLanguage(h.opts.Language)
	if !ok && h.opts.Language != "" {
		zerolog.Ctx(ctx).Debug().Str("language", h.opts.Language).Msg("unknown language, using javascript")
	}

	tokens := tokenize(code, lang)

	popts := []parser.Option{parser.WithSource(code)}
	if h.opts.UseAST && lang.Name == lexer.JSX().Name {
		popts = append(popts, parser.WithJSX())
	}
	nodes, err := parser.New(tokens, popts...).Parse()
	if err != nil {
		return "", errors.Errorf("parsing %s: %w", lang.Name, err)
	}

	r := render.New(h.opts.RendererConfig())
	if h.opts.UseAST {
		return r.RenderAST(nodes, code), nil
	}
	return r.RenderTokens(tokens, code), nil
}

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/walteh/codehl"))

// BlockID is the deterministic id given to a wrapped code block.
func BlockID(language, themeName, code string) string {
	key := strings.Join([]string{lexer.ForLanguageName(language), themeName, code}, "\x00")
	return "code-" + uuid.NewSHA1(idNamespace, []byte(key)).String()
}

func (h *Highlighter) wrap(code, html string) string {
	lang := lexer.ForLanguageName(h.opts.Language)

	style := ""
	if h.opts.TabSize > 0 {
		style = fmt.Sprintf(` style="tab-size: %d"`, h.opts.TabSize)
	}

	return fmt.Sprintf(`<pre class="code-block" data-language="%s" data-theme="%s" id="%s"%s><code>%s</code></pre>`,
		render.Escape(lang),
		render.Escape(h.opts.Theme),
		BlockID(lang, h.opts.Theme, code),
		style,
		html,
	)
}
