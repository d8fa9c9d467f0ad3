// Package debug builds the console logger the CLI and RPC server log through.
package debug

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// RunID identifies one process in interleaved logs.
var RunID = xid.New().String()

type LoggerOptions struct {
	Debug   bool
	NoColor bool
	// Component is attached to every event when set.
	Component string
}

// NewLogger returns a console logger with time and caller hooks. Debug
// lowers the level from info to debug and turns on the caller hook.
func NewLogger(w io.Writer, opts LoggerOptions) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:     w,
		NoColor: opts.NoColor,
	}

	lctx := zerolog.New(out).With().Str("run", RunID)
	if opts.Component != "" {
		lctx = lctx.Str("component", opts.Component)
	}

	logger := lctx.Logger().Level(level).Hook(TimeHook{})
	if opts.Debug {
		logger = logger.Hook(CallerHook{WithColor: !opts.NoColor})
	}
	return logger
}

// TimeHook stamps events with millisecond precision.
type TimeHook struct {
	Format string
}

func (t TimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	format := t.Format
	if format == "" {
		format = "15:04:05.000"
	}
	e.Str("time", time.Now().Format(format))
}

// CallerHook adds the first frame outside zerolog and this package.
type CallerHook struct {
	WithColor bool
}

func (c CallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		pkg, _ := SplitFuncName(f.Function)
		if !strings.HasPrefix(pkg, "github.com/rs/zerolog") && !strings.HasSuffix(pkg, "/pkg/debug") {
			e.Str("caller", FormatCaller(pkg, f.File, f.Line, c.WithColor))
			return
		}
		if !more {
			return
		}
	}
}

// SplitFuncName separates a runtime function name into its package path and
// function, keeping method receivers with the function.
func SplitFuncName(name string) (pkg, function string) {
	lastSlash := strings.LastIndexByte(name, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}
	dot := strings.IndexByte(name[lastSlash:], '.')
	if dot < 0 {
		return name, ""
	}
	dot += lastSlash
	return name[:dot], name[dot+1:]
}

// FormatCaller renders pkg:file:line, optionally colored.
func FormatCaller(pkg, path string, line int, colorize bool) string {
	file := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		file = path[i+1:]
	}
	if !colorize {
		return fmt.Sprintf("%s:%s:%d", pkg, file, line)
	}
	sep := color.New(color.Faint).Sprint(":")
	return pkg + sep + color.New(color.Bold).Sprint(file) + sep + color.New(color.FgHiRed, color.Bold).Sprintf("%d", line)
}
