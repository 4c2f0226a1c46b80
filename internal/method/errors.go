package method

import (
	"errors"
	"fmt"

	"github.com/nibzard/tasksort/internal/value"
)

// Configuration errors. ErrTypeMismatch and ErrOutOfRange are shared with the value package.
var (
	ErrMissingField       = errors.New("missing field")
	ErrMissingDefault     = errors.New("missing default")
	ErrTypeMismatch       = value.ErrTypeMismatch
	ErrOutOfRange         = value.ErrOutOfRange
	ErrInvalidEnum        = errors.New("invalid enum value")
	ErrDuplicateAttribute = errors.New("duplicate attribute")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrMissingField, "MissingField"},
	{ErrMissingDefault, "MissingDefault"},
	{ErrTypeMismatch, "TypeMismatch"},
	{ErrOutOfRange, "OutOfRange"},
	{ErrInvalidEnum, "InvalidEnum"},
	{ErrDuplicateAttribute, "DuplicateAttribute"},
}

// KindOf returns the taxonomy name of a validation error, or "" if err is not one.
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path      string // JSON path to the error location
	Attribute string // attribute name, when known
	Err       error  // Underlying error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Path != "" && e.Attribute != "":
		return fmt.Sprintf("%s (%s): %s", e.Path, e.Attribute, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
