// Package method validates sorting-method configurations.
package method

import (
	"fmt"

	"github.com/nibzard/tasksort/internal/value"
)

// Operator selects how an attribute value is classified against its target.
type Operator string

const (
	OpEqual              Operator = "equal"
	OpNotEqual           Operator = "not-equal"
	OpGreaterThan        Operator = "greater-than"
	OpGreaterThanOrEqual Operator = "greater-than-or-equal"
	OpLessThan           Operator = "less-than"
	OpLessThanOrEqual    Operator = "less-than-or-equal"
)

// Operators returns every valid operator.
func Operators() []Operator {
	return []Operator{OpEqual, OpNotEqual, OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual}
}

// ParseOperator resolves an operator name.
func ParseOperator(name string) (Operator, error) {
	for _, op := range Operators() {
		if string(op) == name {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operator %q", name)
}

// Satisfied reports whether cmp, the ordering of a value against the target,
// satisfies op. For equal and not-equal it reports a match with the target.
func (op Operator) Satisfied(cmp int) bool {
	switch op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterThanOrEqual:
		return cmp >= 0
	case OpLessThan:
		return cmp < 0
	case OpLessThanOrEqual:
		return cmp <= 0
	}
	return false
}

// Attribute field defaults.
const (
	DefaultOperator = OpEqual
	DefaultWeight   = 0.5
	DefaultRequired = true
)

// Attribute is one validated ranking criterion.
type Attribute struct {
	Name      string
	InputType value.Kind
	Target    value.Value
	Default   value.Value // invalid when no default was configured
	Operator  Operator
	Nullable  bool
	Reverse   bool
	Required  bool
	Stable    bool
	Weight    float64
}

// HasDefault reports whether a default value was configured.
func (a *Attribute) HasDefault() bool {
	return a.Default.IsValid()
}

// Method is a validated, immutable sorting method.
type Method struct {
	name       string
	attributes []Attribute
}

// Name returns the method name.
func (m *Method) Name() string {
	return m.name
}

// Len returns the number of attributes.
func (m *Method) Len() int {
	return len(m.attributes)
}

// Attribute returns the i-th attribute in sequence order.
func (m *Method) Attribute(i int) Attribute {
	return m.attributes[i]
}

// Attributes returns a copy of the attribute sequence.
func (m *Method) Attributes() []Attribute {
	out := make([]Attribute, len(m.attributes))
	copy(out, m.attributes)
	return out
}

// Document renders m as a JSON-shaped map with every default filled in.
// Validating the result yields an equivalent method.
func (m *Method) Document() map[string]any {
	attrs := make([]any, 0, len(m.attributes))
	for _, a := range m.attributes {
		doc := map[string]any{
			"name":       a.Name,
			"input_type": a.InputType.String(),
			"target":     a.Target.Interface(),
			"operator":   string(a.Operator),
			"nullable":   a.Nullable,
			"reverse":    a.Reverse,
			"required":   a.Required,
			"stable":     a.Stable,
			"weight":     a.Weight,
		}
		if a.HasDefault() {
			doc["default"] = a.Default.Interface()
		}
		attrs = append(attrs, doc)
	}
	return map[string]any{
		"name":       m.name,
		"attributes": attrs,
	}
}
