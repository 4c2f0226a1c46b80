package value

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		want    Kind
		wantErr bool
	}{
		{"string", KindString, false},
		{"int", KindInt, false},
		{"float", KindFloat, false},
		{"date-time", KindDateTime, false},
		{"datetime", KindInvalid, true},
		{"", KindInvalid, true},
		{"INT", KindInvalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if !tt.wantErr && got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		raw     any
		want    Value
		wantErr error
	}{
		{name: "string", kind: KindString, raw: "abc", want: String("abc")},
		{name: "string from number", kind: KindString, raw: 5, wantErr: ErrTypeMismatch},
		{name: "string from nil", kind: KindString, raw: nil, wantErr: ErrTypeMismatch},
		{name: "int from int", kind: KindInt, raw: 7, want: Int(7)},
		{name: "int from int64", kind: KindInt, raw: int64(-3), want: Int(-3)},
		{name: "int from integral float", kind: KindInt, raw: 5.0, want: Int(5)},
		{name: "int from json number", kind: KindInt, raw: json.Number("42"), want: Int(42)},
		{name: "int from integral json number", kind: KindInt, raw: json.Number("4.0"), want: Int(4)},
		{name: "int from fractional float", kind: KindInt, raw: 5.5, wantErr: ErrTypeMismatch},
		{name: "int from fractional json number", kind: KindInt, raw: json.Number("1.25"), wantErr: ErrTypeMismatch},
		{name: "int from string", kind: KindInt, raw: "5", wantErr: ErrTypeMismatch},
		{name: "int from bool", kind: KindInt, raw: true, wantErr: ErrTypeMismatch},
		{name: "int overflow", kind: KindInt, raw: uint64(1 << 63), wantErr: ErrOutOfRange},
		{name: "float from float", kind: KindFloat, raw: 1.5, want: Float(1.5)},
		{name: "float widens int", kind: KindFloat, raw: 3, want: Float(3)},
		{name: "float from json number", kind: KindFloat, raw: json.Number("0.25"), want: Float(0.25)},
		{name: "float from string", kind: KindFloat, raw: "1.5", wantErr: ErrTypeMismatch},
		{
			name: "date-time utc",
			kind: KindDateTime,
			raw:  "2050-06-01T12:00:00Z",
			want: DateTime(time.Date(2050, 6, 1, 12, 0, 0, 0, time.UTC)),
		},
		{
			name: "date-time offset normalized",
			kind: KindDateTime,
			raw:  "2050-06-01T14:00:00+02:00",
			want: DateTime(time.Date(2050, 6, 1, 12, 0, 0, 0, time.UTC)),
		},
		{
			name: "date-time fractional seconds",
			kind: KindDateTime,
			raw:  "2020-01-01T00:00:00.123456Z",
			want: DateTime(time.Date(2020, 1, 1, 0, 0, 0, 123456000, time.UTC)),
		},
		{
			name: "date-time lower bound",
			kind: KindDateTime,
			raw:  "2000-01-01T00:00:00Z",
			want: DateTime(MinDateTime),
		},
		{
			name: "date-time upper bound",
			kind: KindDateTime,
			raw:  "2100-12-31T23:59:59Z",
			want: DateTime(MaxDateTime),
		},
		{name: "date-time before lower bound", kind: KindDateTime, raw: "1999-12-31T23:59:59Z", wantErr: ErrOutOfRange},
		{name: "date-time after upper bound", kind: KindDateTime, raw: "2101-01-01T00:00:00Z", wantErr: ErrOutOfRange},
		{name: "date-time offset pushes below bound", kind: KindDateTime, raw: "2000-01-01T00:30:00+01:00", wantErr: ErrOutOfRange},
		{name: "date-time without offset", kind: KindDateTime, raw: "2050-06-01T12:00:00", wantErr: ErrTypeMismatch},
		{name: "date-time date only", kind: KindDateTime, raw: "2050-06-01", wantErr: ErrTypeMismatch},
		{name: "date-time invalid month", kind: KindDateTime, raw: "2050-13-01T12:00:00Z", wantErr: ErrTypeMismatch},
		{name: "date-time from number", kind: KindDateTime, raw: 1700000000, wantErr: ErrTypeMismatch},
		{
			name: "date-time from time.Time",
			kind: KindDateTime,
			raw:  time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
			want: DateTime(time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)),
		},
		{name: "invalid kind", kind: KindInvalid, raw: "x", wantErr: ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.kind, tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if got.Kind() != tt.want.Kind() || Compare(got, tt.want) != 0 {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	early := DateTime(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	late := DateTime(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"strings less", String("apple"), String("banana"), -1},
		{"strings equal", String("x"), String("x"), 0},
		{"strings code point order", String("Z"), String("a"), -1},
		{"strings multibyte", String("é"), String("z"), 1},
		{"ints", Int(10), Int(2), 1},
		{"ints equal", Int(-1), Int(-1), 0},
		{"floats", Float(0.1), Float(0.2), -1},
		{"date-times", early, late, -1},
		{"date-times equal", late, late, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := Compare(tt.b, tt.a); got != -tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestCompareMixedKindsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic comparing different kinds")
		}
	}()
	Compare(Int(1), Float(1))
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		raw  any
		want bool
	}{
		{nil, true},
		{"", true},
		{"   ", true},
		{"x", false},
		{0, false},
		{false, false},
	}
	for _, tt := range tests {
		if got := IsEmpty(tt.raw); got != tt.want {
			t.Errorf("IsEmpty(%#v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestInterface(t *testing.T) {
	dt := DateTime(time.Date(2050, 6, 1, 12, 0, 0, 0, time.UTC))
	if got := dt.Interface(); got != "2050-06-01T12:00:00Z" {
		t.Errorf("Interface() = %v", got)
	}
	if got := Int(3).Interface(); got != int64(3) {
		t.Errorf("Interface() = %#v", got)
	}
	if (Value{}).IsValid() {
		t.Error("zero Value should be invalid")
	}
}
