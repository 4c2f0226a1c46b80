package sorter

import (
	"fmt"

	"github.com/nibzard/tasksort/internal/method"
	"github.com/nibzard/tasksort/internal/value"
)

// Resolved is the effective value of one attribute for one record.
type Resolved struct {
	Value value.Value
	Null  bool // permitted null; the attribute cannot rank this record
}

// Resolve returns the effective value of attr for rec, applying the
// required, default and nullable policy. Errors are *EvaluationError values
// without record position.
func Resolve(rec Record, attr *method.Attribute) (Resolved, error) {
	raw, ok := rec[attr.Name]
	if !ok {
		if attr.Required {
			return Resolved{}, &EvaluationError{
				Index:     -1,
				Attribute: attr.Name,
				Err:       fmt.Errorf("%w: key %q is absent", ErrMissingRequiredAttribute, attr.Name),
			}
		}
		return Resolved{Value: attr.Default}, nil
	}

	if value.IsEmpty(raw) {
		if !attr.Nullable {
			return Resolved{}, &EvaluationError{
				Index:     -1,
				Attribute: attr.Name,
				Value:     raw,
				Err:       fmt.Errorf("%w: %q is null or empty", ErrNonNullable, attr.Name),
			}
		}
		return Resolved{Null: true}, nil
	}

	v, err := value.Parse(attr.InputType, raw)
	if err != nil {
		return Resolved{}, &EvaluationError{
			Index:     -1,
			Attribute: attr.Name,
			Value:     raw,
			Err:       fmt.Errorf("%w: %v", ErrAttributeType, err),
		}
	}
	return Resolved{Value: v}, nil
}
