// Package value implements the typed values compared by sorting methods.
package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind is the input type of an attribute.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindDateTime
)

var kindNames = map[Kind]string{
	KindString:   "string",
	KindInt:      "int",
	KindFloat:    "float",
	KindDateTime: "date-time",
}

// Kinds returns the valid kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindString, KindInt, KindFloat, KindDateTime}
}

// String returns the input_type spelling of k.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves an input_type name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown input type %q, must be one of: string, int, float, date-time", name)
}

var (
	// ErrTypeMismatch reports a raw value that does not conform to a kind.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrOutOfRange reports a date-time outside the supported interval.
	ErrOutOfRange = errors.New("out of range")
)

// Supported date-time interval, inclusive on both ends.
var (
	MinDateTime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxDateTime = time.Date(2100, time.December, 31, 23, 59, 59, 0, time.UTC)
)

var dateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

// Value is a tagged union over the four kinds. The zero Value is invalid.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	t    time.Time
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// DateTime returns a date-time value normalized to UTC.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t.UTC()} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a variant.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Str returns the string payload.
func (v Value) Str() string { return v.s }

// Int returns the integer payload.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload.
func (v Value) Float() float64 { return v.f }

// Time returns the date-time payload.
func (v Value) Time() time.Time { return v.t }

// Interface returns the JSON-shaped representation of v.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindDateTime:
		return v.t.Format(time.RFC3339Nano)
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDateTime:
		return v.t.Format(time.RFC3339Nano)
	}
	return "<invalid>"
}

// Parse coerces a raw, untyped value into kind.
//
//   - string accepts only strings.
//   - int accepts integral numbers; fractional numbers fail.
//   - float accepts any finite number.
//   - date-time accepts an ISO-8601 string with an explicit offset, or a time.Time,
//     within [MinDateTime, MaxDateTime].
func Parse(kind Kind, raw any) (Value, error) {
	switch kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return Value{}, mismatch(kind, raw)
		}
		return String(s), nil
	case KindInt:
		return parseInt(raw)
	case KindFloat:
		f, ok := toFloat(raw)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, mismatch(kind, raw)
		}
		return Float(f), nil
	case KindDateTime:
		return parseDateTime(raw)
	}
	return Value{}, fmt.Errorf("%w: unsupported kind %s", ErrTypeMismatch, kind)
}

func mismatch(kind Kind, raw any) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrTypeMismatch, kind, describe(raw))
}

func describe(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", v)
	case json.Number:
		return "number " + v.String()
	case bool:
		return fmt.Sprintf("boolean %t", v)
	}
	return fmt.Sprintf("%T %v", raw, raw)
}

func parseInt(raw any) (Value, error) {
	switch v := raw.(type) {
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return uintToInt(uint64(v), raw)
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return uintToInt(v, raw)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i), nil
		}
	}
	f, ok := toFloat(raw)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return Value{}, mismatch(KindInt, raw)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: %v does not fit a 64-bit integer", ErrOutOfRange, raw)
	}
	return Int(int64(f)), nil
}

func uintToInt(u uint64, raw any) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: %v does not fit a 64-bit integer", ErrOutOfRange, raw)
	}
	return Int(int64(u)), nil
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func parseDateTime(raw any) (Value, error) {
	var t time.Time
	switch v := raw.(type) {
	case time.Time:
		t = v
	case string:
		if !dateTimePattern.MatchString(v) {
			return Value{}, fmt.Errorf("%w: %q is not an ISO-8601 date-time with offset", ErrTypeMismatch, v)
		}
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q: %v", ErrTypeMismatch, v, err)
		}
		t = parsed
	default:
		return Value{}, mismatch(KindDateTime, raw)
	}
	if t.Before(MinDateTime) || t.After(MaxDateTime) {
		return Value{}, fmt.Errorf("%w: %s outside [%s, %s]", ErrOutOfRange,
			t.UTC().Format(time.RFC3339Nano), MinDateTime.Format(time.RFC3339), MaxDateTime.Format(time.RFC3339))
	}
	return DateTime(t), nil
}

// IsEmpty reports whether raw is a null or blank value.
func IsEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

// Compare orders two values of the same kind, returning -1, 0 or 1.
// Strings compare by byte order, which for UTF-8 is code-point order.
// It panics when the kinds differ.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		panic(fmt.Sprintf("value: compare %s with %s", a.kind, b.kind))
	}
	switch a.kind {
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindInt:
		return cmpOrdered(a.i, b.i)
	case KindFloat:
		return cmpOrdered(a.f, b.f)
	case KindDateTime:
		return a.t.Compare(b.t)
	}
	return 0
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
