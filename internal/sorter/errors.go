package sorter

import (
	"errors"
	"fmt"
)

// Evaluation errors. They abort the whole sort.
var (
	ErrMissingRequiredAttribute = errors.New("missing required attribute")
	ErrAttributeType            = errors.New("attribute type error")
	ErrNonNullable              = errors.New("non-nullable violation")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrMissingRequiredAttribute, "MissingRequiredAttribute"},
	{ErrAttributeType, "AttributeTypeError"},
	{ErrNonNullable, "NonNullableViolation"},
}

// KindOf returns the taxonomy name of an evaluation error, or "" if err is not one.
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}

// EvaluationError reports a record that cannot be ranked.
type EvaluationError struct {
	Index     int    // position in the input, -1 for pairwise comparisons
	RecordID  string // identifier of the offending record
	Attribute string // attribute being resolved
	Value     any    // raw value, nil when the key was missing
	Err       error  // Underlying error
}

func (e *EvaluationError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("record %s: attribute %q: %s", e.RecordID, e.Attribute, e.Err)
	}
	return fmt.Sprintf("attribute %q: %s", e.Attribute, e.Err)
}

// Unwrap returns the underlying error.
func (e *EvaluationError) Unwrap() error {
	return e.Err
}
