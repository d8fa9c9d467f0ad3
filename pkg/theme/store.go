package theme

import (
	"context"
	_ "embed"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

//go:embed themes.yaml
var builtin []byte

// Store manages the themes available to the renderer.
type Store struct {
	themes map[string]*Theme
}

// NewStore creates a store holding the built-in themes.
func NewStore(ctx context.Context) (*Store, error) {
	zerolog.Ctx(ctx).Debug().Msg("creating new theme store")

	s := &Store{themes: make(map[string]*Theme)}
	if err := s.Load(ctx, "themes.yaml", builtin); err != nil {
		return nil, errors.Errorf("loading built-in themes: %w", err)
	}
	return s, nil
}

// Load parses a theme file and adds its themes. A theme whose name is
// already present replaces the existing one.
func (s *Store) Load(ctx context.Context, filename string, data []byte) error {
	zerolog.Ctx(ctx).Debug().Str("file", filename).Msg("loading theme file")

	themes, err := Parse(filename, data, s.themes)
	if err != nil {
		return err
	}
	return s.Add(ctx, themes...)
}

// LoadBundle adds every theme file found in a .tar.gz archive. Files are
// loaded in name order so a later file may extend an earlier one.
func (s *Store) LoadBundle(ctx context.Context, data []byte, opts BundleOptions) error {
	b, err := ReadBundle(data, opts)
	if err != nil {
		return errors.Errorf("reading theme bundle: %w", err)
	}
	for _, name := range b.Names() {
		if err := s.Load(ctx, name, b.Files[name]); err != nil {
			return errors.Errorf("loading %s from bundle: %w", name, err)
		}
	}
	return nil
}

// LoadPath loads a theme file, or a bundle when p ends in .tar.gz or .tgz.
func (s *Store) LoadPath(ctx context.Context, fsys afero.Fs, p string) error {
	data, err := afero.ReadFile(fsys, p)
	if err != nil {
		return errors.Errorf("reading theme file: %w", err)
	}
	lower := strings.ToLower(p)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return s.LoadBundle(ctx, data, BundleOptions{})
	}
	return s.Load(ctx, filepath.Base(p), data)
}

// Add resolves `extends`, validates, and stores themes. Themes in the same
// call may extend each other in any order. Nothing is stored if any theme is
// invalid.
func (s *Store) Add(ctx context.Context, themes ...*Theme) error {
	resolved := make(map[string]*Theme, len(themes))
	lookup := func(name string) (*Theme, bool) {
		if t, ok := resolved[name]; ok {
			return t, true
		}
		t, ok := s.themes[name]
		return t, ok
	}

	pending := themes
	for len(pending) > 0 {
		var next []*Theme
		for _, t := range pending {
			if t.Extends == "" {
				resolved[t.Name] = t.inherit(&Theme{})
				continue
			}
			if t.Extends == t.Name {
				return errors.Errorf("theme %q extends itself", t.Name)
			}
			base, ok := lookup(t.Extends)
			if !ok {
				next = append(next, t)
				continue
			}
			resolved[t.Name] = t.inherit(base)
		}
		if len(next) == len(pending) {
			var err error
			for _, t := range next {
				err = multierr.Append(err, errors.Errorf("theme %q extends unknown theme %q", t.Name, t.Extends))
			}
			return err
		}
		pending = next
	}

	var err error
	for _, t := range resolved {
		err = multierr.Append(err, t.Validate())
	}
	if err != nil {
		return err
	}

	for name, t := range resolved {
		zerolog.Ctx(ctx).Debug().Str("theme", name).Str("extends", t.Extends).Msg("registered theme")
		s.themes[name] = t
	}
	return nil
}

// Get retrieves a theme by name, case-insensitively.
func (s *Store) Get(name string) (*Theme, error) {
	if t, ok := s.themes[name]; ok {
		return t, nil
	}
	for k, t := range s.themes {
		if strings.EqualFold(k, name) {
			return t, nil
		}
	}
	return nil, errors.Errorf("theme not found: %s", name)
}

// Names lists the stored themes, sorted.
func (s *Store) Names() []string {
	out := make([]string, 0, len(s.themes))
	for name := range s.themes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// CSS returns the base stylesheet followed by one rule per named theme, or
// per stored theme when no names are given.
func (s *Store) CSS(names ...string) (string, error) {
	if len(names) == 0 {
		names = s.Names()
	}
	var sb strings.Builder
	sb.WriteString(BaseCSS())
	for _, name := range names {
		t, err := s.Get(name)
		if err != nil {
			return "", err
		}
		sb.WriteString(t.CSS())
	}
	return sb.String(), nil
}
