// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// FunctionSpec declares a locally implemented function to the model.
type FunctionSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ToolSpec is one entry of the tool list sent to the vendor. A platform tool
// is enabled with its type and optional parameters, for example
//
//	{"type": "code_interpreter", "code_interpreter": {"sandbox": "none"}}
//
// while a function spec carries a [FunctionSpec].
type ToolSpec struct {
	Type     string
	Function *FunctionSpec
	Params   map[string]any
}

// PlatformSpec returns the spec enabling a platform family.
func PlatformSpec(f Family, params map[string]any) ToolSpec {
	return ToolSpec{Type: f.String(), Params: maps.Clone(params)}
}

// FunctionSpecOf returns the function spec describing t.
func FunctionSpecOf(t Tool) ToolSpec {
	return ToolSpec{
		Type: "function",
		Function: &FunctionSpec{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		},
	}
}

// Family returns the spec's tool family.
func (s ToolSpec) Family() Family { return FamilyOf(s.Type) }

// MarshalJSON encodes the spec in the vendor wire form.
func (s ToolSpec) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": s.Type}
	switch {
	case s.Function != nil:
		out["function"] = s.Function
	case len(s.Params) > 0:
		out[s.Type] = s.Params
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the vendor wire form.
func (s *ToolSpec) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	spec, err := specFromMap(m)
	if err != nil {
		return err
	}
	*s = spec
	return nil
}

// specFromMap builds a spec from a decoded JSON or YAML object.
func specFromMap(m map[string]any) (ToolSpec, error) {
	typ, _ := m["type"].(string)
	if typ == "" {
		return ToolSpec{}, fmt.Errorf("%w: tool spec has no type", ErrInvalidRequest)
	}

	if typ == "function" {
		raw, err := json.Marshal(m["function"])
		if err != nil {
			return ToolSpec{}, fmt.Errorf("%w: function spec: %w", ErrInvalidRequest, err)
		}
		var fn FunctionSpec
		if err := json.Unmarshal(raw, &fn); err != nil {
			return ToolSpec{}, fmt.Errorf("%w: function spec: %w", ErrInvalidRequest, err)
		}
		if fn.Name == "" {
			return ToolSpec{}, fmt.Errorf("%w: function spec has no name", ErrInvalidRequest)
		}
		return ToolSpec{Type: typ, Function: &fn}, nil
	}

	spec := ToolSpec{Type: typ}
	switch p := m[typ].(type) {
	case nil:
	case map[string]any:
		spec.Params = p
	default:
		return ToolSpec{}, fmt.Errorf("%w: parameters of %q are %T, not an object", ErrInvalidRequest, typ, p)
	}
	return spec, nil
}

// MergeToolSpecs returns specs followed by a function spec for every tool
// not already declared by name in specs.
func MergeToolSpecs(tools []Tool, specs []ToolSpec) []ToolSpec {
	declared := make(map[string]bool, len(specs))
	out := make([]ToolSpec, 0, len(specs)+len(tools))
	for _, s := range specs {
		if s.Function != nil {
			declared[s.Function.Name] = true
		}
		out = append(out, s)
	}
	for _, t := range tools {
		if declared[t.Name()] {
			continue
		}
		declared[t.Name()] = true
		out = append(out, FunctionSpecOf(t))
	}
	return out
}

// PlatformParams collects the parameters of the platform specs by family.
// Every enabled platform family gets an entry, possibly empty.
func PlatformParams(specs []ToolSpec) map[Family]map[string]any {
	params := map[Family]map[string]any{}
	for _, s := range specs {
		f := s.Family()
		if !f.IsPlatform() {
			continue
		}
		p := maps.Clone(s.Params)
		if p == nil {
			p = map[string]any{}
		}
		params[f] = p
	}
	return params
}

// toolSpecFile is the YAML layout read by [LoadToolSpecs].
type toolSpecFile struct {
	Tools []map[string]any `yaml:"tools"`
}

// LoadToolSpecs reads tool specs from YAML:
//
//	tools:
//	  - type: code_interpreter
//	    code_interpreter:
//	      sandbox: none
//	  - type: web_browser
func LoadToolSpecs(r io.Reader) ([]ToolSpec, error) {
	var file toolSpecFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode tool specs: %w", err)
	}

	specs := make([]ToolSpec, 0, len(file.Tools))
	for i, m := range file.Tools {
		s, err := specFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("tool spec %d: %w", i, err)
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// LoadToolSpecsFile reads tool specs from the YAML file at path.
func LoadToolSpecsFile(path string) ([]ToolSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadToolSpecs(f)
}
