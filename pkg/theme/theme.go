/*
Package theme holds the color palettes behind the CSS variables the renderer
references.

A theme is a name plus one color per variable in render.CSSVariables. Themes
come from three places:

  - the built-in set embedded in this package (themes.yaml)
  - user files, YAML or HCL, where HCL may reference built-in colors as
    themes.<name>.<variable>
  - .tar.gz bundles containing any number of such files

A theme may name another in `extends` and only override some colors.
*/
package theme

import (
	"fmt"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/walteh/codehl/pkg/render"
)

// DefaultName is the theme used when none is configured.
const DefaultName = "dark"

type Theme struct {
	Name        string            `json:"name" yaml:"name" hcl:"name,label"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty" hcl:"description,optional"`
	Extends     string            `json:"extends,omitempty" yaml:"extends,omitempty" hcl:"extends,optional"`
	Dark        bool              `json:"dark" yaml:"dark,omitempty" hcl:"dark,optional"`
	Background  string            `json:"background,omitempty" yaml:"background,omitempty" hcl:"background,optional"`
	Foreground  string            `json:"foreground,omitempty" yaml:"foreground,omitempty" hcl:"foreground,optional"`
	Colors      map[string]string `json:"colors" yaml:"colors" hcl:"colors,optional"`
}

// File is the document shape of a theme file.
type File struct {
	Themes []*Theme `json:"themes" yaml:"themes" hcl:"theme,block"`
}

// Validate reports every required color the theme lacks, and every color
// with an empty value.
func (t *Theme) Validate() error {
	var err error
	if t.Name == "" {
		err = multierr.Append(err, errors.New("theme has no name"))
	}
	for _, v := range render.CSSVariables() {
		if c, ok := t.Colors[v]; !ok {
			err = multierr.Append(err, errors.Errorf("theme %q: missing color %q", t.Name, v))
		} else if strings.TrimSpace(c) == "" {
			err = multierr.Append(err, errors.Errorf("theme %q: empty color %q", t.Name, v))
		}
	}
	return err
}

// inherit returns a copy of t with unset fields taken from base.
func (t *Theme) inherit(base *Theme) *Theme {
	out := *t
	out.Colors = make(map[string]string, len(base.Colors)+len(t.Colors))
	for k, v := range base.Colors {
		out.Colors[k] = v
	}
	for k, v := range t.Colors {
		out.Colors[k] = v
	}
	if out.Background == "" {
		out.Background = base.Background
	}
	if out.Foreground == "" {
		out.Foreground = base.Foreground
	}
	if out.Description == "" {
		out.Description = base.Description
	}
	return &out
}

// Selector is the CSS selector scoping a theme to wrapped code blocks.
func (t *Theme) Selector() string {
	return fmt.Sprintf(`.code-block[data-theme="%s"]`, t.Name)
}

// CSS returns a rule defining the theme's variables on its selector.
func (t *Theme) CSS() string {
	keys := make([]string, 0, len(t.Colors))
	for k := range t.Colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(t.Selector())
	sb.WriteString(" {\n")
	if t.Background != "" {
		fmt.Fprintf(&sb, "  background: %s;\n", t.Background)
	}
	if t.Foreground != "" {
		fmt.Fprintf(&sb, "  color: %s;\n", t.Foreground)
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "  --%s: %s;\n", k, t.Colors[k])
	}
	sb.WriteString("}\n")
	return sb.String()
}

// BaseCSS styles the section-mode wrappers and is shared by all themes.
func BaseCSS() string {
	return `.code-block .dimmed {
  opacity: 0.45;
}
.code-block .highlight-section {
  display: inline;
  background: rgba(255, 255, 255, 0.06);
}
`
}
