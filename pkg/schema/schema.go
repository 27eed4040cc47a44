// Package schema declares the attribute shapes a record family accepts and
// provides a pluggable validator that judges attribute maps against a
// declaration. A schema is immutable for the lifetime of a family and shared
// read-only by all of that family's instances.
package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// PropertyType enumerates the value shapes a declared attribute may take.
type PropertyType string

// Supported property types. TypeAny disables shape checking for the property
// while still declaring the name as legal.
const (
	TypeString  PropertyType = "string"
	TypeNumber  PropertyType = "number"
	TypeInteger PropertyType = "integer"
	TypeBoolean PropertyType = "boolean"
	TypeObject  PropertyType = "object"
	TypeArray   PropertyType = "array"
	TypeAny     PropertyType = "any"
)

var propertyTypes = map[PropertyType]struct{}{
	TypeString:  {},
	TypeNumber:  {},
	TypeInteger: {},
	TypeBoolean: {},
	TypeObject:  {},
	TypeArray:   {},
	TypeAny:     {},
}

// IsKnownType reports whether the provided type identifier is supported.
func IsKnownType(t PropertyType) bool {
	_, ok := propertyTypes[t]
	return ok
}

// Property describes the legal value shape for one declared attribute name.
type Property struct {
	Type       PropertyType        `json:"type" yaml:"type"`
	Enum       []string            `json:"enum,omitempty" yaml:"enum,omitempty"`
	Pattern    string              `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Minimum    *float64            `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum    *float64            `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	MinLength  *int                `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength  *int                `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Items      *Property           `json:"items,omitempty" yaml:"items,omitempty"`
	Properties map[string]Property `json:"properties,omitempty" yaml:"properties,omitempty"`
	Default    any                 `json:"default,omitempty" yaml:"default,omitempty"`
	Custom     string              `json:"custom,omitempty" yaml:"custom,omitempty"`

	pattern *regexp.Regexp
}

// Schema enumerates the legal attribute names of a record family and, per
// name, the legal value shape. Required lists names that must be present for
// the attribute set to validate.
type Schema struct {
	Title      string              `json:"title,omitempty" yaml:"title,omitempty"`
	Properties map[string]Property `json:"properties" yaml:"properties"`
	Required   []string            `json:"required,omitempty" yaml:"required,omitempty"`
}

// Declares reports whether the schema lists name as a legal attribute.
func (s *Schema) Declares(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Properties[name]
	return ok
}

// PropertyNames returns the sorted list of declared attribute names.
func (s *Schema) PropertyNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns the declared default values keyed by attribute name.
func (s *Schema) Defaults() map[string]any {
	if s == nil {
		return nil
	}
	defaults := make(map[string]any)
	for name, prop := range s.Properties {
		if prop.Default != nil {
			defaults[name] = prop.Default
		}
	}
	if len(defaults) == 0 {
		return nil
	}
	return defaults
}

// Compile checks the declaration itself for structural soundness and prepares
// pattern matchers. It must be called once before the schema is attached to a
// family; loaders call it on the caller's behalf.
func (s *Schema) Compile() error {
	if s == nil {
		return fmt.Errorf("schema: declaration missing")
	}
	for name, prop := range s.Properties {
		compiled, err := compileProperty(name, prop)
		if err != nil {
			return err
		}
		s.Properties[name] = compiled
	}
	for _, required := range s.Required {
		if !s.Declares(required) {
			return fmt.Errorf("schema: required attribute %q not declared", required)
		}
	}
	return nil
}

func compileProperty(path string, prop Property) (Property, error) {
	if prop.Type == "" {
		prop.Type = TypeAny
	}
	if !IsKnownType(prop.Type) {
		return Property{}, fmt.Errorf("schema: property %s has unsupported type %q", path, prop.Type)
	}
	if prop.Pattern != "" {
		compiled, err := regexp.Compile(prop.Pattern)
		if err != nil {
			return Property{}, fmt.Errorf("schema: property %s pattern invalid: %w", path, err)
		}
		prop.pattern = compiled
	}
	if prop.Minimum != nil && prop.Maximum != nil && *prop.Minimum > *prop.Maximum {
		return Property{}, fmt.Errorf("schema: property %s minimum exceeds maximum", path)
	}
	if prop.Items != nil {
		compiled, err := compileProperty(path+"[]", *prop.Items)
		if err != nil {
			return Property{}, err
		}
		prop.Items = &compiled
	}
	for name, nested := range prop.Properties {
		compiled, err := compileProperty(path+"."+name, nested)
		if err != nil {
			return Property{}, err
		}
		prop.Properties[name] = compiled
	}
	return prop, nil
}

// Result captures a validation outcome plus human-readable diagnostics.
type Result struct {
	Valid       bool
	Diagnostics string
}

// fieldError pairs an attribute name with its failure message so diagnostics
// stay deterministic across runs.
type fieldError struct {
	Name    string
	Message string
}

func joinFieldErrors(errs []fieldError) string {
	if len(errs) == 0 {
		return ""
	}
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Name == errs[j].Name {
			return errs[i].Message < errs[j].Message
		}
		return errs[i].Name < errs[j].Name
	})
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Name == "" {
			parts = append(parts, e.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", e.Name, e.Message))
	}
	return strings.Join(parts, "; ")
}
