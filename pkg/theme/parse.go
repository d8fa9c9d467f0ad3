package theme

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// IsThemeFile reports whether a file name has an extension Parse accepts.
func IsThemeFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json", ".hcl":
		return true
	}
	return false
}

// Parse decodes a theme file, picking the format from its extension. HCL
// files are evaluated with `themes` bound to known, so colors can be
// borrowed with expressions like themes.dark.keyword.
func Parse(filename string, data []byte, known map[string]*Theme) ([]*Theme, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		var f File
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Errorf("parsing YAML %s: %w", filename, err)
		}
		return f.Themes, nil
	case ".json":
		var f File
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Errorf("parsing JSON %s: %w", filename, err)
		}
		return f.Themes, nil
	case ".hcl":
		return parseHCL(filename, data, known)
	}
	return nil, errors.Errorf("unsupported theme file: %s", filename)
}

func parseHCL(filename string, data []byte, known map[string]*Theme) ([]*Theme, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"themes": themesValue(known),
		},
	}

	var f File
	if diags := gohcl.DecodeBody(file.Body, ctx, &f); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return f.Themes, nil
}

// themesValue exposes each theme's colors plus background and foreground.
func themesValue(known map[string]*Theme) cty.Value {
	if len(known) == 0 {
		return cty.EmptyObjectVal
	}
	out := make(map[string]cty.Value, len(known))
	for name, t := range known {
		attrs := map[string]cty.Value{
			"background": cty.StringVal(t.Background),
			"foreground": cty.StringVal(t.Foreground),
		}
		for k, v := range t.Colors {
			attrs[k] = cty.StringVal(v)
		}
		out[name] = cty.ObjectVal(attrs)
	}
	return cty.ObjectVal(out)
}
