package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/codehl/cmd/codehl/inspect"
	render_files "github.com/walteh/codehl/cmd/codehl/render-files"
	serve_rpc "github.com/walteh/codehl/cmd/codehl/serve-rpc"
	logdebug "github.com/walteh/codehl/pkg/debug"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func newRootCommand(fsys afero.Fs) *cobra.Command {
	var (
		verbose bool
		noColor bool
	)

	rootCmd := &cobra.Command{
		Use:           "codehl",
		Short:         "Syntax highlighting for JavaScript, JSX and XState as themed HTML",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored log output")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger := logdebug.NewLogger(cmd.ErrOrStderr(), logdebug.LoggerOptions{
			Debug:     verbose,
			NoColor:   noColor,
			Component: cmd.Name(),
		})
		cmd.SetContext(logger.WithContext(cmd.Context()))
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)
	rootCmd.AddCommand(render_files.NewRenderCommand(fsys))
	rootCmd.AddCommand(inspect.NewTokensCommand(fsys))
	rootCmd.AddCommand(inspect.NewSectionsCommand(fsys))
	rootCmd.AddCommand(inspect.NewThemesCommand(fsys))
	rootCmd.AddCommand(serve_rpc.NewServeCommand(fsys))

	return rootCmd
}

func run() error {
	if err := newRootCommand(afero.NewOsFs()).ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}
	return nil
}
