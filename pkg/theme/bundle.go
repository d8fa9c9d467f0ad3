package theme

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"path"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Bundle is the set of theme files read from a .tar.gz archive, keyed by
// their path inside the archive after stripping.
type Bundle struct {
	Files map[string][]byte
}

type BundleOptions struct {
	// StripComponents drops leading path elements, like tar --strip-components.
	StripComponents int

	// Filter decides which entries are kept. Nil keeps every theme file.
	Filter func(header *tar.Header) bool
}

// ReadBundle loads the regular files of a .tar.gz archive into memory.
func ReadBundle(data []byte, opts BundleOptions) (*Bundle, error) {
	if opts.Filter == nil {
		opts.Filter = func(h *tar.Header) bool { return IsThemeFile(h.Name) }
	}

	gzr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Errorf("opening gzip stream: %w", err)
	}
	defer gzr.Close()

	b := &Bundle{Files: make(map[string][]byte)}
	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading tar: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !opts.Filter(header) {
			continue
		}

		parts := splitPath(header.Name)
		if len(parts) <= opts.StripComponents {
			continue
		}
		name := path.Join(parts[opts.StripComponents:]...)
		if _, dup := b.Files[name]; dup {
			return nil, errors.Errorf("duplicate bundle entry: %s", name)
		}

		contents, err := io.ReadAll(tr)
		if err != nil {
			return nil, errors.Errorf("reading %s: %w", header.Name, err)
		}
		b.Files[name] = contents
	}
	return b, nil
}

// Names lists the bundle's files in a stable order.
func (b *Bundle) Names() []string {
	out := make([]string, 0, len(b.Files))
	for name := range b.Files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func splitPath(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			out = append(out, part)
		}
	}
	return out
}
