package method

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaURL identifies the embedded sorting-method JSON Schema.
const SchemaURL = "https://github.com/nibzard/tasksort/sorting-method.schema.json"

//go:embed sorting_method.schema.json
var schemaDocument []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema document describing sorting methods.
func Schema() []byte {
	out := make([]byte, len(schemaDocument))
	copy(out, schemaDocument)
	return out
}

func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(SchemaURL, bytes.NewReader(schemaDocument)); err != nil {
			schemaErr = fmt.Errorf("load sorting method schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(SchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile sorting method schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// CheckSchema validates doc against the embedded JSON Schema and reports every
// violation, unlike Validate which stops at the first. It does not enforce
// unique attribute names or the date-time bounds; Validate does.
func CheckSchema(doc any) ([]*ValidationError, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON so values decoded from YAML or TOML validate
	// the same way as JSON documents.
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document for schema validation: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return nil, fmt.Errorf("unmarshal document for schema validation: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, err
		}
		var out []*ValidationError
		collectSchemaErrors(&out, ve)
		return out, nil
	}
	return nil, nil
}

func collectSchemaErrors(out *[]*ValidationError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*out = append(*out, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
