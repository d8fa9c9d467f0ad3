//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/walteh/codehl/cmd/codehl-wasm/api"
)

// Every call returns {result, error} so the page never sees a thrown Go
// panic.

func main() {
	ctx := context.Background()

	codehl := map[string]interface{}{
		"tokenize": wrapResult(ctx, func(ctx context.Context, args []js.Value) (string, error) {
			return api.Tokenize(ctx, stringArg(args, 0), stringArg(args, 1))
		}),
		"render": wrapResult(ctx, func(ctx context.Context, args []js.Value) (string, error) {
			return api.Render(ctx, stringArg(args, 0), stringArg(args, 1))
		}),
		"themeCss": wrapResult(ctx, func(ctx context.Context, args []js.Value) (string, error) {
			names := make([]string, 0, len(args))
			for i := range args {
				names = append(names, stringArg(args, i))
			}
			return api.ThemeCSS(ctx, names...)
		}),
	}

	js.Global().Set("codehl_wasm", js.ValueOf(codehl))

	fmt.Println("[codehl-wasm] initialized")

	js.Global().Set("codehl_initialized", js.ValueOf(true))

	// keep the module alive for callbacks
	<-make(chan struct{})
}

func stringArg(args []js.Value, i int) string {
	if i >= len(args) || args[i].Type() != js.TypeString {
		return ""
	}
	return args[i].String()
}

func wrapResult(ctx context.Context, fn func(ctx context.Context, args []js.Value) (string, error)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) (out any) {
		defer func() {
			if r := recover(); r != nil {
				out = map[string]any{"result": nil, "error": fmt.Sprint(r)}
			}
		}()

		result, err := fn(ctx, args)
		if err != nil {
			js.Global().Get("console").Call("error", "[codehl-wasm]", err.Error())
			return map[string]any{
				"result": nil,
				"error":  err.Error(),
			}
		}
		return map[string]any{
			"result": result,
			"error":  nil,
		}
	})
}
