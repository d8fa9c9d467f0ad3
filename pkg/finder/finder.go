// Package finder locates source files to highlight and gathers the per-file
// settings that live next to them: language by extension and tab size from
// .editorconfig.
package finder

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// Source is one file ready for highlighting.
type Source struct {
	Path     string
	Content  []byte
	Language string
	TabSize  int
}

type Finder struct {
	fs afero.Fs
}

func New(fsys afero.Fs) *Finder {
	return &Finder{fs: fsys}
}

var extensions = map[string]string{
	".js":  "javascript",
	".mjs": "javascript",
	".cjs": "javascript",
	".ts":  "typescript",
	".mts": "typescript",
	".cts": "typescript",
	".jsx": "jsx",
	".tsx": "tsx",
}

// LanguageForPath guesses the language of a file. Files named *.machine.js
// or *.machine.ts are state machine definitions.
func LanguageForPath(p string) (string, bool) {
	base := strings.ToLower(path.Base(filepath.ToSlash(p)))
	ext := path.Ext(base)
	lang, ok := extensions[ext]
	if !ok {
		return "", false
	}
	if strings.HasSuffix(strings.TrimSuffix(base, ext), ".machine") {
		return "xstate", true
	}
	return lang, true
}

// Glob expands doublestar patterns to regular files, deduplicated and
// sorted. A pattern that matches nothing is an error.
func (f *Finder) Glob(ctx context.Context, patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))

		var fsys fs.FS = afero.NewIOFS(f.fs)
		if base != "." {
			fsys = afero.NewIOFS(afero.NewBasePathFs(f.fs, base))
		}

		matches, err := doublestar.Glob(fsys, rest, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", pattern)
		}

		zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Int("matches", len(matches)).Msg("expanded pattern")
		for _, m := range matches {
			if base != "." {
				m = path.Join(base, m)
			}
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Load reads a file and resolves its settings. language overrides the
// extension guess when set.
func (f *Finder) Load(ctx context.Context, p, language string) (*Source, error) {
	content, err := afero.ReadFile(f.fs, p)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", p, err)
	}

	src := &Source{Path: p, Content: content, Language: language}
	if src.Language == "" {
		src.Language, _ = LanguageForPath(p)
	}

	src.TabSize, err = f.TabSize(p)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("file", p).Msg("ignoring .editorconfig")
		src.TabSize = 0
	}
	return src, nil
}

// TabSize resolves tab_width (or a numeric indent_size) for a file from the
// .editorconfig files in its directory and above, nearest first, stopping
// at one marked root. Zero means unset.
func (f *Finder) TabSize(p string) (int, error) {
	p = filepath.ToSlash(filepath.Clean(p))
	dir := path.Dir(p)
	for {
		cfg := path.Join(dir, ".editorconfig")
		if ok, _ := afero.Exists(f.fs, cfg); ok {
			width, root, err := f.tabSizeFrom(cfg, p, dir)
			if err != nil {
				return 0, err
			}
			if width > 0 || root {
				return width, nil
			}
		}

		parent := path.Dir(dir)
		if parent == dir {
			return 0, nil
		}
		dir = parent
	}
}

func (f *Finder) tabSizeFrom(cfg, p, dir string) (int, bool, error) {
	file, err := f.fs.Open(cfg)
	if err != nil {
		return 0, false, errors.Errorf("opening %s: %w", cfg, err)
	}
	defer file.Close()

	ec, err := editorconfig.Parse(file)
	if err != nil {
		return 0, false, errors.Errorf("parsing %s: %w", cfg, err)
	}

	rel := strings.TrimPrefix(p, strings.TrimSuffix(dir, "/")+"/")
	def, err := ec.GetDefinitionForFilename(rel)
	if err != nil {
		return 0, ec.Root, errors.Errorf("matching %s in %s: %w", rel, cfg, err)
	}

	if def.TabWidth > 0 {
		return def.TabWidth, ec.Root, nil
	}
	if n, err := strconv.Atoi(def.IndentSize); err == nil && n > 0 {
		return n, ec.Root, nil
	}
	return 0, ec.Root, nil
}
