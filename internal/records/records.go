package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasksort/internal/sorter"
)

// TasksKey is the top-level key holding records in object-form files.
const TasksKey = "tasks"

// Format is a record file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ErrNotObject reports a record that is not a key/value mapping.
var ErrNotObject = errors.New("record is not an object")

// File is a decoded record file.
type File struct {
	Records []sorter.Record

	wrapped bool
	fields  map[string]any
}

// New returns a bare-array file holding records.
func New(records []sorter.Record) *File {
	return &File{Records: records}
}

// Load reads and parses a record file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	f, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("parse records file %s: %w", path, err)
	}
	return f, nil
}

// Read parses a record collection from r.
func Read(r io.Reader, format Format) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return Decode(data, format)
}

// Decode parses a record collection.
func Decode(data []byte, format Format) (*File, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		if dec.More() {
			return nil, errors.New("unexpected data after top-level value")
		}
	}

	f := &File{}
	var items any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		raw, ok := v[TasksKey]
		if !ok {
			return nil, fmt.Errorf("missing %q array", TasksKey)
		}
		items = raw
		f.wrapped = true
		f.fields = make(map[string]any, len(v)-1)
		for k, val := range v {
			if k != TasksKey {
				f.fields[k] = val
			}
		}
	case nil:
		return f, nil
	default:
		return nil, fmt.Errorf("records must be an array or an object, got %T", doc)
	}

	list, ok := items.([]any)
	if !ok {
		if items == nil {
			return f, nil
		}
		return nil, fmt.Errorf("%s must be an array, got %T", TasksKey, items)
	}
	f.Records = make([]sorter.Record, len(list))
	for i, item := range list {
		rec, err := toRecord(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", TasksKey, i, err)
		}
		f.Records[i] = rec
	}
	return f, nil
}

func toRecord(item any) (sorter.Record, error) {
	switch v := item.(type) {
	case map[string]any:
		return sorter.Record(v), nil
	case map[any]any:
		rec := make(sorter.Record, len(v))
		for k, val := range v {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: key %v is %T", ErrNotObject, k, k)
			}
			rec[key] = val
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, item)
	}
}

// WithRecords returns a copy of f holding records instead, keeping the
// surrounding fields.
func (f *File) WithRecords(records []sorter.Record) *File {
	return &File{Records: records, wrapped: f.wrapped, fields: f.fields}
}

// Encode serializes f in the given format.
func (f *File) Encode(format Format) ([]byte, error) {
	var doc any = f.recordsOrEmpty()
	if f.wrapped {
		m := make(map[string]any, len(f.fields)+1)
		for k, v := range f.fields {
			m[k] = v
		}
		m[TasksKey] = f.recordsOrEmpty()
		doc = m
	}

	if format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(plainNumbers(doc)); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	// Add trailing newline
	return append(data, '\n'), nil
}

func (f *File) recordsOrEmpty() []sorter.Record {
	if f.Records == nil {
		return []sorter.Record{}
	}
	return f.Records
}

// Write serializes f to w.
func (f *File) Write(w io.Writer, format Format) error {
	data, err := f.Encode(format)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// Save writes f to path, choosing the encoding from the extension.
func (f *File) Save(path string) error {
	data, err := f.Encode(FormatOf(path))
	if err != nil {
		return fmt.Errorf("marshal records file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write records file: %w", err)
	}
	return nil
}

// plainNumbers replaces json.Number values so YAML emits them as numbers
// rather than strings.
func plainNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = plainNumbers(val)
		}
		return out
	case sorter.Record:
		return plainNumbers(map[string]any(t))
	case []sorter.Record:
		out := make([]any, len(t))
		for i, rec := range t {
			out[i] = plainNumbers(rec)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = plainNumbers(val)
		}
		return out
	default:
		return v
	}
}
