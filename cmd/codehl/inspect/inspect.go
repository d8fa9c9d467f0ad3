// Package inspect holds the read-only subcommands: tokens, sections and themes.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/codehl/pkg/finder"
	"github.com/walteh/codehl/pkg/highlight"
	"github.com/walteh/codehl/pkg/position"
	"github.com/walteh/codehl/pkg/render"
	"github.com/walteh/codehl/pkg/theme"
)

type TokensHandler struct {
	fs       afero.Fs
	language string
}

func NewTokensCommand(fsys afero.Fs) *cobra.Command {
	me := &TokensHandler{fs: fsys}

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "print the token stream of a file as JSON",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVarP(&me.language, "language", "l", "", "language (default: by extension)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
	}

	return cmd
}

func (me *TokensHandler) Run(ctx context.Context, out io.Writer, file string) error {
	src, err := finder.New(me.fs).Load(ctx, file, me.language)
	if err != nil {
		return err
	}
	code := string(src.Content)
	tokens := highlight.Tokenize(code, highlight.Options{Language: src.Language})

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(highlight.Locate(code, tokens)); err != nil {
		return errors.Errorf("encoding tokens: %w", err)
	}
	return nil
}

type SectionsHandler struct {
	fs       afero.Fs
	language string
	json     bool
}

func NewSectionsCommand(fsys afero.Fs) *cobra.Command {
	me := &SectionsHandler{fs: fsys}

	cmd := &cobra.Command{
		Use:   "sections <file>",
		Short: "list the // @section regions of a file",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVarP(&me.language, "language", "l", "", "language (default: by extension)")
	cmd.Flags().BoolVar(&me.json, "json", false, "print JSON instead of a table")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
	}

	return cmd
}

func (me *SectionsHandler) Run(ctx context.Context, out io.Writer, file string) error {
	src, err := finder.New(me.fs).Load(ctx, file, me.language)
	if err != nil {
		return err
	}
	code := string(src.Content)
	secs := render.Sections(highlight.Tokenize(code, highlight.Options{Language: src.Language}), code)

	if me.json {
		if secs == nil {
			secs = []render.Section{}
		}
		return json.NewEncoder(out).Encode(secs)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBYTES\tLINES")
	for _, s := range secs {
		r := position.NewRange(code, s.Start, s.End)
		fmt.Fprintf(tw, "%s\t%d-%d\t%d-%d\n", s.Name, s.Start, s.End, r.Start.Line, r.End.Line)
	}
	return tw.Flush()
}

type ThemesHandler struct {
	fs         afero.Fs
	css        bool
	themeFiles []string
}

func NewThemesCommand(fsys afero.Fs) *cobra.Command {
	me := &ThemesHandler{fs: fsys}

	cmd := &cobra.Command{
		Use:   "themes [name]...",
		Short: "list themes, or print their CSS variables",
	}

	cmd.Flags().BoolVar(&me.css, "css", false, "print the stylesheet for the named themes (all when none given)")
	cmd.Flags().StringSliceVar(&me.themeFiles, "theme-file", nil, "extra theme file (.yaml, .json, .hcl, .tar.gz)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

func (me *ThemesHandler) Run(ctx context.Context, out io.Writer, names []string) error {
	store, err := theme.NewStore(ctx)
	if err != nil {
		return err
	}
	for _, f := range me.themeFiles {
		if err := store.LoadPath(ctx, me.fs, f); err != nil {
			return errors.Errorf("loading %s: %w", f, err)
		}
	}

	if me.css {
		css, err := store.CSS(names...)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, css)
		return err
	}

	if len(names) == 0 {
		names = store.Names()
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMODE\tEXTENDS\tDESCRIPTION")
	for _, name := range names {
		t, err := store.Get(name)
		if err != nil {
			return err
		}
		mode := "light"
		if t.Dark {
			mode = "dark"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Name, mode, t.Extends, t.Description)
	}
	return tw.Flush()
}
