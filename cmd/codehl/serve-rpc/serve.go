package serve_rpc

import (
	"context"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/codehl/pkg/rpc"
	"github.com/walteh/codehl/pkg/theme"
)

type Handler struct {
	fs         afero.Fs
	themeFiles []string
}

func NewServeCommand(fsys afero.Fs) *cobra.Command {
	me := &Handler{fs: fsys}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve tokenize/render/sections/themes as JSON-RPC over stdio",
	}

	cmd.Flags().StringSliceVar(&me.themeFiles, "theme-file", nil, "extra theme file (.yaml, .json, .hcl, .tar.gz)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.InOrStdin(), os.Stdout)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, in io.Reader, out io.WriteCloser) error {
	store, err := theme.NewStore(ctx)
	if err != nil {
		return err
	}
	for _, f := range me.themeFiles {
		if err := store.LoadPath(ctx, me.fs, f); err != nil {
			return errors.Errorf("loading %s: %w", f, err)
		}
	}

	if err := rpc.Serve(ctx, rpc.NewService(store), in, out); err != nil {
		return errors.Errorf("error running rpc server: %w", err)
	}
	return nil
}
