package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// fileData is the YAML and JSON shape of a template file.
type fileData struct {
	Templates []Definition   `yaml:"templates" json:"templates"`
	Options   map[string]any `yaml:"options" json:"options"`
}

// hclFile is the HCL shape of a template file:
//
//	route "user" {
//	  template = "/users/{id}"
//	}
//	options = { max_level = 2 }
type hclFile struct {
	Routes  []hclRoute `hcl:"route,block"`
	Options *cty.Value `hcl:"options,optional"`
}

type hclRoute struct {
	Name     string `hcl:"name,label"`
	Template string `hcl:"template"`
}

// FromFile loads a template file, picking the format by extension.
// Supported extensions: .yaml, .yml, .json, .hcl
func FromFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read template file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	case ".hcl":
		return FromHCL(data, path)
	default:
		return File{}, fmt.Errorf("unsupported template file extension: %s", ext)
	}
}

// FromYAML decodes a YAML template file.
func FromYAML(data []byte) (File, error) {
	var fd fileData
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return File{}, fmt.Errorf("parse yaml: %w", err)
	}
	return fd.file()
}

// FromJSON decodes a JSON template file.
func FromJSON(data []byte) (File, error) {
	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return File{}, fmt.Errorf("parse json: %w", err)
	}
	return fd.file()
}

// FromHCL decodes an HCL template file. filename is used in diagnostics.
func FromHCL(data []byte, filename string) (File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return File{}, fmt.Errorf("parse hcl %s: %w", filename, diags)
	}

	var hf hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &hf); diags.HasErrors() {
		return File{}, fmt.Errorf("decode hcl %s: %w", filename, diags)
	}

	fd := fileData{Templates: make([]Definition, 0, len(hf.Routes))}
	for _, r := range hf.Routes {
		fd.Templates = append(fd.Templates, Definition{Name: r.Name, Template: r.Template})
	}
	if hf.Options != nil {
		opts, err := ctyToNative(*hf.Options)
		if err != nil {
			return File{}, fmt.Errorf("decode hcl %s: options: %w", filename, err)
		}
		if opts != nil {
			m, ok := opts.(map[string]any)
			if !ok {
				return File{}, fmt.Errorf("decode hcl %s: options must be an object, got %s",
					filename, hf.Options.Type().FriendlyName())
			}
			fd.Options = m
		}
	}
	return fd.file()
}

func (fd fileData) file() (File, error) {
	f := File{Templates: fd.Templates, Options: New(fd.Options)}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// ctyToNative converts a cty value into the plain Go values the YAML and
// JSON decoders produce. Whole numbers become int64, other numbers float64.
func ctyToNative(v cty.Value) (any, error) {
	if !v.IsKnown() || v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = native
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
