package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Validator judges an attribute map against a schema declaration. Validate is
// pure: no side effects, deterministic for identical inputs.
type Validator interface {
	Validate(attrs map[string]any, s *Schema) Result
}

// TypeChecker implements a named custom shape check referenced by a property's
// Custom field. A nil error means the value is acceptable.
type TypeChecker func(value any) error

// Option configures a validator instance. Custom checkers are scoped to the
// validator they are registered on, never shared ambient state.
type Option func(*validator)

// WithTypeChecker registers a named custom checker on the validator.
func WithTypeChecker(name string, check TypeChecker) Option {
	return func(v *validator) {
		if name == "" || check == nil {
			return
		}
		v.checkers[name] = check
	}
}

// NewValidator constructs the default validator with the supplied options.
func NewValidator(opts ...Option) Validator {
	v := &validator{checkers: make(map[string]TypeChecker)}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type validator struct {
	checkers map[string]TypeChecker
}

// Validate checks every supplied attribute against its declaration and
// enforces required names. Undeclared names fail here as well as at the gate
// so both paths share one diagnostic vocabulary.
func (v *validator) Validate(attrs map[string]any, s *Schema) Result {
	if s == nil {
		return Result{Valid: false, Diagnostics: "schema declaration missing"}
	}
	var errs []fieldError
	for name, value := range attrs {
		prop, ok := s.Properties[name]
		if !ok {
			errs = append(errs, fieldError{Name: name, Message: "attribute not declared"})
			continue
		}
		if value == nil {
			// Absent-by-null is legal unless the name is required; the
			// required loop below catches that case.
			continue
		}
		if err := v.checkValue(prop, value); err != nil {
			errs = append(errs, fieldError{Name: name, Message: err.Error()})
		}
	}
	for _, required := range s.Required {
		if value, ok := attrs[required]; !ok || value == nil {
			errs = append(errs, fieldError{Name: required, Message: "required attribute missing"})
		}
	}
	if len(errs) > 0 {
		return Result{Valid: false, Diagnostics: joinFieldErrors(errs)}
	}
	return Result{Valid: true}
}

func (v *validator) checkValue(prop Property, value any) error {
	switch prop.Type {
	case TypeAny:
	case TypeString:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("expects string, got %s", kindOf(value))
		}
		if len(prop.Enum) > 0 && !containsString(prop.Enum, str) {
			return fmt.Errorf("expects one of [%s]", strings.Join(prop.Enum, ", "))
		}
		if prop.pattern != nil && !prop.pattern.MatchString(str) {
			return fmt.Errorf("does not match pattern %s", prop.Pattern)
		}
		if prop.MinLength != nil && len(str) < *prop.MinLength {
			return fmt.Errorf("shorter than %d characters", *prop.MinLength)
		}
		if prop.MaxLength != nil && len(str) > *prop.MaxLength {
			return fmt.Errorf("longer than %d characters", *prop.MaxLength)
		}
	case TypeNumber, TypeInteger:
		num, ok := numeric(value)
		if !ok {
			return fmt.Errorf("expects %s, got %s", prop.Type, kindOf(value))
		}
		if prop.Type == TypeInteger && num != math.Trunc(num) {
			return fmt.Errorf("expects integer, got fractional value")
		}
		if prop.Minimum != nil && num < *prop.Minimum {
			return fmt.Errorf("below minimum %v", *prop.Minimum)
		}
		if prop.Maximum != nil && num > *prop.Maximum {
			return fmt.Errorf("above maximum %v", *prop.Maximum)
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expects boolean, got %s", kindOf(value))
		}
	case TypeObject:
		nested, ok := toStringMap(value)
		if !ok {
			return fmt.Errorf("expects object, got %s", kindOf(value))
		}
		for name, nestedValue := range nested {
			nestedProp, declared := prop.Properties[name]
			if !declared {
				if len(prop.Properties) == 0 {
					continue
				}
				return fmt.Errorf("field %s not declared", name)
			}
			if nestedValue == nil {
				continue
			}
			if err := v.checkValue(nestedProp, nestedValue); err != nil {
				return fmt.Errorf("field %s %s", name, err)
			}
		}
	case TypeArray:
		seq := reflect.ValueOf(value)
		if seq.Kind() != reflect.Slice && seq.Kind() != reflect.Array {
			return fmt.Errorf("expects array, got %s", kindOf(value))
		}
		if prop.Items != nil {
			for i := 0; i < seq.Len(); i++ {
				element := seq.Index(i).Interface()
				if element == nil {
					continue
				}
				if err := v.checkValue(*prop.Items, element); err != nil {
					return fmt.Errorf("element %d %s", i, err)
				}
			}
		}
	}
	if prop.Custom != "" {
		check, ok := v.checkers[prop.Custom]
		if !ok {
			return fmt.Errorf("custom checker %q not registered", prop.Custom)
		}
		if err := check(value); err != nil {
			return err
		}
	}
	return nil
}

func containsString(haystack []string, needle string) bool {
	for _, candidate := range haystack {
		if candidate == needle {
			return true
		}
	}
	return false
}

// numeric accepts any Go numeric scalar or json.Number as a number.
func numeric(value any) (float64, bool) {
	switch typed := value.(type) {
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func toStringMap(value any) (map[string]any, bool) {
	if typed, ok := value.(map[string]any); ok {
		return typed, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func kindOf(value any) string {
	if value == nil {
		return "null"
	}
	return reflect.TypeOf(value).Kind().String()
}
