package render_files

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/codehl/pkg/finder"
	"github.com/walteh/codehl/pkg/highlight"
	"github.com/walteh/codehl/pkg/render"
	"github.com/walteh/codehl/pkg/theme"
)

type Handler struct {
	fs afero.Fs

	language   string
	theme      string
	section    string
	wrap       bool
	ast        bool
	css        bool
	outDir     string
	themeFiles []string
	jobs       int
}

func NewRenderCommand(fsys afero.Fs) *cobra.Command {
	me := &Handler{fs: fsys}

	cmd := &cobra.Command{
		Use:   "render <glob>...",
		Short: "render source files to highlighted HTML",
		Long: `Render every file matching the given patterns. Patterns support ** and {a,b}.
The language comes from --language or the file extension; *.machine.js and
*.machine.ts are treated as xstate. Tab size comes from .editorconfig.`,
		Args: cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVarP(&me.language, "language", "l", "", "language for every file (default: by extension)")
	cmd.Flags().StringVarP(&me.theme, "theme", "t", theme.DefaultName, "theme name")
	cmd.Flags().StringVar(&me.section, "section", "", "emphasize the named @section and dim the rest")
	cmd.Flags().BoolVar(&me.wrap, "wrap", true, "wrap output in a <pre class=\"code-block\"> element")
	cmd.Flags().BoolVar(&me.ast, "ast", false, "render through the parsed tree, adding declaration and element wrappers")
	cmd.Flags().BoolVar(&me.css, "css", false, "prepend a <style> block with the theme's variables")
	cmd.Flags().StringVarP(&me.outDir, "out", "o", "", "write <file>.html under this directory instead of stdout")
	cmd.Flags().StringSliceVar(&me.themeFiles, "theme-file", nil, "extra theme file (.yaml, .json, .hcl, .tar.gz)")
	cmd.Flags().IntVarP(&me.jobs, "jobs", "j", 8, "files rendered in parallel")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd, args)
	}

	return cmd
}

type result struct {
	path string
	html string
}

func (me *Handler) Run(ctx context.Context, cmd *cobra.Command, patterns []string) error {
	logger := zerolog.Ctx(ctx)

	store, err := theme.NewStore(ctx)
	if err != nil {
		return err
	}
	for _, f := range me.themeFiles {
		if err := store.LoadPath(ctx, me.fs, f); err != nil {
			return errors.Errorf("loading %s: %w", f, err)
		}
	}
	selected, err := store.Get(me.theme)
	if err != nil {
		return err
	}

	fnd := finder.New(me.fs)
	paths, err := fnd.Glob(ctx, patterns...)
	if err != nil {
		return err
	}

	results := make([]*result, len(paths))
	var (
		mu   sync.Mutex
		merr *multierror.Error
	)

	grp, gctx := errgroup.WithContext(ctx)
	if me.jobs > 0 {
		grp.SetLimit(me.jobs)
	}
	for i, p := range paths {
		i, p := i, p
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			html, err := me.renderOne(gctx, fnd, p, selected.Name)
			if err != nil {
				mu.Lock()
				merr = multierror.Append(merr, errors.Errorf("%s: %w", p, err))
				mu.Unlock()
				return nil
			}
			results[i] = &result{path: p, html: html}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	var css string
	if me.css {
		if css, err = store.CSS(selected.Name); err != nil {
			return err
		}
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		if err := me.write(cmd, r, css, len(paths) > 1); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	logger.Debug().Int("files", len(paths)).Msg("rendered files")
	return merr.ErrorOrNil()
}

func (me *Handler) renderOne(ctx context.Context, fnd *finder.Finder, p, themeName string) (string, error) {
	src, err := fnd.Load(ctx, p, me.language)
	if err != nil {
		return "", err
	}
	if src.Language == "" {
		return "", errors.Errorf("unknown language, pass --language")
	}

	opts := highlight.Options{
		Language: src.Language,
		Theme:    themeName,
		WrapCode: me.wrap,
		UseAST:   me.ast,
		TabSize:  src.TabSize,
	}
	if me.section != "" {
		opts.HighlightMode = render.ModeSection
		opts.HighlightSection = me.section
	}

	ctx = zerolog.Ctx(ctx).With().Str("file", p).Logger().WithContext(ctx)
	return highlight.Render(ctx, string(src.Content), opts), nil
}

func (me *Handler) write(cmd *cobra.Command, r *result, css string, many bool) error {
	body := r.html
	if css != "" {
		body = "<style>\n" + css + "</style>\n" + body
	}

	if me.outDir == "" {
		if many {
			fmt.Fprintf(cmd.OutOrStdout(), "<!-- %s -->\n", r.path)
		}
		fmt.Fprintln(cmd.OutOrStdout(), body)
		return nil
	}

	target := path.Join(me.outDir, strings.TrimPrefix(r.path, "/")+".html")
	if err := me.fs.MkdirAll(path.Dir(target), 0o755); err != nil {
		return errors.Errorf("creating %s: %w", path.Dir(target), err)
	}
	if err := afero.WriteFile(me.fs, target, []byte(body+"\n"), 0o644); err != nil {
		return errors.Errorf("writing %s: %w", target, err)
	}
	zerolog.Ctx(cmd.Context()).Info().Str("file", target).Msg("wrote")
	return nil
}
