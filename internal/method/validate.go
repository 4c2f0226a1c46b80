package method

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/nibzard/tasksort/internal/value"
)

// attributeRule checks one field of a raw attribute and records the result on a.
type attributeRule struct {
	field string
	check func(raw map[string]any, a *Attribute) error
}

// shapeRules run first, in order; input_type must resolve before target.
var shapeRules = []attributeRule{
	{"name", checkName},
	{"input_type", checkInputType},
	{"operator", checkOperator},
	{"nullable", boolRule("nullable", func(a *Attribute, b bool) { a.Nullable = b })},
	{"reverse", boolRule("reverse", func(a *Attribute, b bool) { a.Reverse = b })},
	{"required", boolRule("required", func(a *Attribute, b bool) { a.Required = b })},
	{"stable", boolRule("stable", func(a *Attribute, b bool) { a.Stable = b })},
	{"weight", checkWeight},
	{"target", checkTarget},
}

// crossFieldRules run after every shape rule passed.
var crossFieldRules = []attributeRule{
	{"default", checkDefault},
}

// ValidateAttribute validates one raw attribute object. Errors are
// *ValidationError values whose Path is the offending field.
func ValidateAttribute(raw map[string]any) (Attribute, error) {
	a := Attribute{
		Operator: DefaultOperator,
		Required: DefaultRequired,
		Weight:   DefaultWeight,
	}
	for _, rules := range [][]attributeRule{shapeRules, crossFieldRules} {
		for _, rule := range rules {
			if err := rule.check(raw, &a); err != nil {
				return Attribute{}, &ValidationError{Path: rule.field, Attribute: a.Name, Err: err}
			}
		}
	}
	return a, nil
}

// Validate validates a raw sorting-method document and returns the immutable method.
// The first failing rule short-circuits.
func Validate(raw map[string]any) (*Method, error) {
	name, err := requiredString(raw, "name")
	if err != nil {
		return nil, &ValidationError{Path: "name", Err: err}
	}

	items, err := attributeList(raw)
	if err != nil {
		return nil, &ValidationError{Path: "attributes", Err: err}
	}

	m := &Method{name: name, attributes: make([]Attribute, 0, len(items))}
	seen := make(map[string]int, len(items))
	for i, item := range items {
		path := fmt.Sprintf("attributes[%d]", i)
		obj, ok := asObject(item)
		if !ok {
			return nil, &ValidationError{
				Path: path,
				Err:  fmt.Errorf("%w: attribute must be an object, got %T", ErrTypeMismatch, item),
			}
		}

		if attrName, ok := obj["name"].(string); ok && strings.TrimSpace(attrName) != "" {
			if first, dup := seen[attrName]; dup {
				return nil, &ValidationError{
					Path:      path + ".name",
					Attribute: attrName,
					Err:       fmt.Errorf("%w: %q already defined at attributes[%d]", ErrDuplicateAttribute, attrName, first),
				}
			}
			seen[attrName] = i
		}

		attr, err := ValidateAttribute(obj)
		if err != nil {
			if ve, ok := err.(*ValidationError); ok {
				return nil, &ValidationError{Path: path + "." + ve.Path, Attribute: ve.Attribute, Err: ve.Err}
			}
			return nil, err
		}
		m.attributes = append(m.attributes, attr)
	}

	return m, nil
}

// Parse decodes a JSON sorting-method document and validates it.
// Numbers are decoded as json.Number so integers keep their exact value.
func Parse(data []byte) (*Method, error) {
	raw, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return Validate(raw)
}

// DecodeJSON decodes a JSON object, preserving numbers as json.Number.
func DecodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse sorting method: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("parse sorting method: document must be an object")
	}
	return raw, nil
}

// lookup returns a field, treating an explicit null as absent.
func lookup(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func requiredString(raw map[string]any, key string) (string, error) {
	v, ok := lookup(raw, key)
	if !ok {
		return "", fmt.Errorf("%w: %s is required", ErrMissingField, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrTypeMismatch, key, v)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s must not be empty", ErrMissingField, key)
	}
	return s, nil
}

func attributeList(raw map[string]any) ([]any, error) {
	v, ok := lookup(raw, "attributes")
	if !ok {
		return nil, fmt.Errorf("%w: attributes is required", ErrMissingField)
	}
	var items []any
	switch list := v.(type) {
	case []any:
		items = list
	case []map[string]any:
		items = make([]any, len(list))
		for i := range list {
			items[i] = list[i]
		}
	default:
		return nil, fmt.Errorf("%w: attributes must be an array, got %T", ErrTypeMismatch, v)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: attributes must not be empty", ErrMissingField)
	}
	return items, nil
}

func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok && obj != nil
}

func checkName(raw map[string]any, a *Attribute) error {
	name, err := requiredString(raw, "name")
	if err != nil {
		return err
	}
	a.Name = name
	return nil
}

func checkInputType(raw map[string]any, a *Attribute) error {
	v, ok := lookup(raw, "input_type")
	if !ok {
		return fmt.Errorf("%w: input_type is required", ErrMissingField)
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: input_type must be a string, got %T", ErrInvalidEnum, v)
	}
	kind, err := value.ParseKind(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEnum, err)
	}
	a.InputType = kind
	return nil
}

func checkOperator(raw map[string]any, a *Attribute) error {
	v, ok := lookup(raw, "operator")
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: operator must be a string, got %T", ErrInvalidEnum, v)
	}
	op, err := ParseOperator(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEnum, err)
	}
	a.Operator = op
	return nil
}

func boolRule(key string, set func(*Attribute, bool)) func(map[string]any, *Attribute) error {
	return func(raw map[string]any, a *Attribute) error {
		v, ok := lookup(raw, key)
		if !ok {
			return nil
		}
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: %s must be a boolean, got %T", ErrTypeMismatch, key, v)
		}
		set(a, b)
		return nil
	}
}

func checkWeight(raw map[string]any, a *Attribute) error {
	v, ok := lookup(raw, "weight")
	if !ok {
		return nil
	}
	w, err := value.Parse(value.KindFloat, v)
	if err != nil {
		return fmt.Errorf("weight: %w", err)
	}
	f := w.Float()
	if f < 0 || f > 1 || math.IsNaN(f) {
		return fmt.Errorf("%w: weight %v outside [0, 1]", ErrOutOfRange, f)
	}
	a.Weight = f
	return nil
}

func checkTarget(raw map[string]any, a *Attribute) error {
	v, ok := lookup(raw, "target")
	if !ok {
		return fmt.Errorf("%w: target is required", ErrMissingField)
	}
	target, err := value.Parse(a.InputType, v)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	a.Target = target
	return nil
}

// checkDefault enforces the conditional requirement: default must be present
// when required is false, and any default present must conform to input_type.
func checkDefault(raw map[string]any, a *Attribute) error {
	v, ok := lookup(raw, "default")
	if !ok {
		if !a.Required {
			return fmt.Errorf("%w: default is required when required is false", ErrMissingDefault)
		}
		return nil
	}
	def, err := value.Parse(a.InputType, v)
	if err != nil {
		return fmt.Errorf("default: %w", err)
	}
	a.Default = def
	return nil
}
