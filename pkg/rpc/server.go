/*
Package rpc serves the highlighting pipeline as JSON-RPC 2.0 so widgets in
other processes can call it. Messages are newline-delimited JSON on a pair of
streams (usually stdio).

	method     params                         result
	tokenize   {code, language}               {tokens: [{type,start,end,value,metadata?,range}]}
	render     {code, options}                {html}
	sections   {code, language}               {sections: [{name,start,end}]}
	themes     {names?, css?}                 {themes: [...], css?}
*/
package rpc

import (
	"context"
	"io"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/codehl/pkg/highlight"
	"github.com/walteh/codehl/pkg/render"
	"github.com/walteh/codehl/pkg/theme"
)

const invalidParams = -32602

type TokenizeParams struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type TokenizeResult struct {
	Tokens []highlight.LocatedToken `json:"tokens"`
}

type RenderParams struct {
	Code    string            `json:"code"`
	Options highlight.Options `json:"options"`
}

type RenderResult struct {
	HTML string `json:"html"`
}

type SectionsResult struct {
	Sections []render.Section `json:"sections"`
}

type ThemesParams struct {
	Names []string `json:"names,omitempty"`
	CSS   bool     `json:"css,omitempty"`
}

type ThemesResult struct {
	Themes []*theme.Theme `json:"themes"`
	CSS    string         `json:"css,omitempty"`
}

// Service implements the methods. It only reads its theme store, so one
// Service may back any number of concurrent requests.
type Service struct {
	themes *theme.Store
}

func NewService(themes *theme.Store) *Service {
	return &Service{themes: themes}
}

func (s *Service) Tokenize(ctx context.Context, params *TokenizeParams) (*TokenizeResult, error) {
	tokens := highlight.Tokenize(params.Code, highlight.Options{Language: params.Language})
	return &TokenizeResult{Tokens: highlight.Locate(params.Code, tokens)}, nil
}

func (s *Service) Render(ctx context.Context, params *RenderParams) (*RenderResult, error) {
	if params.Options.Theme != "" {
		if _, err := s.themes.Get(params.Options.Theme); err != nil {
			return nil, &jrpc2.Error{Code: invalidParams, Message: err.Error()}
		}
	}
	return &RenderResult{HTML: highlight.Render(ctx, params.Code, params.Options)}, nil
}

func (s *Service) Sections(ctx context.Context, params *TokenizeParams) (*SectionsResult, error) {
	tokens := highlight.Tokenize(params.Code, highlight.Options{Language: params.Language})
	secs := render.Sections(tokens, params.Code)
	if secs == nil {
		secs = []render.Section{}
	}
	return &SectionsResult{Sections: secs}, nil
}

func (s *Service) Themes(ctx context.Context, params *ThemesParams) (*ThemesResult, error) {
	names := params.Names
	if len(names) == 0 {
		names = s.themes.Names()
	}

	res := &ThemesResult{Themes: make([]*theme.Theme, 0, len(names))}
	for _, name := range names {
		t, err := s.themes.Get(name)
		if err != nil {
			return nil, &jrpc2.Error{Code: invalidParams, Message: err.Error()}
		}
		res.Themes = append(res.Themes, t)
	}

	if params.CSS {
		css, err := s.themes.CSS(names...)
		if err != nil {
			return nil, errors.Errorf("building css: %w", err)
		}
		res.CSS = css
	}
	return res, nil
}

// Methods returns the dispatch table for s.
func (s *Service) Methods() handler.Map {
	return handler.Map{
		"tokenize": createHandler(s.Tokenize),
		"render":   createHandler(s.Render),
		"sections": createHandler(s.Sections),
		"themes":   createHandler(s.Themes),
	}
}

// NewServer builds a server whose handlers inherit the logger in ctx.
func NewServer(ctx context.Context, s *Service, opts *jrpc2.ServerOptions) *jrpc2.Server {
	if opts == nil {
		opts = &jrpc2.ServerOptions{}
	}
	if opts.RPCLog == nil {
		opts.RPCLog = &rpcLogger{logger: zerolog.Ctx(ctx)}
	}
	opts.NewContext = func() context.Context {
		return ctx
	}
	return jrpc2.NewServer(s.Methods(), opts)
}

// Serve runs s on newline-delimited JSON over r and w until the input closes
// or ctx is cancelled.
func Serve(ctx context.Context, s *Service, r io.Reader, w io.WriteCloser) error {
	zerolog.Ctx(ctx).Info().Msg("serving json-rpc")

	srv := NewServer(ctx, s, nil).Start(channel.Line(r, w))
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			srv.Stop()
		case <-done:
		}
	}()

	err := srv.Wait()
	if err != nil && !errors.Is(err, jrpc2.ErrConnClosed) && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return errors.Errorf("json-rpc server: %w", err)
	}
	return nil
}
