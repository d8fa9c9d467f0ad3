package rpc

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/rs/zerolog"
)

func newParseError(err error) *jrpc2.Error {
	return &jrpc2.Error{
		Code:    -32700,
		Message: err.Error(),
	}
}

func withRequest(ctx context.Context, req *jrpc2.Request) context.Context {
	return zerolog.Ctx(ctx).With().Str("rpc_method", req.Method()).Str("rpc_id", req.ID()).Logger().WithContext(ctx)
}

func createHandler[T any, O any](method func(ctx context.Context, params *T) (O, error)) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (interface{}, error) {
		ctx = withRequest(ctx, r)
		var params T
		if r.HasParams() {
			if err := r.UnmarshalParams(&params); err != nil {
				return nil, newParseError(err)
			}
		}

		result, err := method(ctx, &params)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}

// rpcLogger traces every request and response at debug level.
type rpcLogger struct {
	logger *zerolog.Logger
}

var _ jrpc2.RPCLogger = (*rpcLogger)(nil)

func (l *rpcLogger) LogRequest(ctx context.Context, req *jrpc2.Request) {
	l.logger.Debug().Str("method", req.Method()).Str("id", req.ID()).Msg("rpc request")
}

func (l *rpcLogger) LogResponse(ctx context.Context, rsp *jrpc2.Response) {
	ev := l.logger.Debug().Str("id", rsp.ID())
	if err := rsp.Error(); err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("rpc response")
}
