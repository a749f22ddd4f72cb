// Package overrides loads the optional translator overrides file: a JSON
// document of namespaced key-value settings (for example "chat.temperature")
// consumed by translation providers through the layered lookup chain.
package overrides

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed overrides.schema.json
var overridesSchemaJSON string

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// FileOverrides is a validated, flattened overrides document.
type FileOverrides struct {
	values map[string]string
}

// Load reads and validates an overrides file. A blank path yields nil
// overrides, which callers treat as "no external configuration".
func Load(path string) (*FileOverrides, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides file: %w", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse overrides file %s: %w", path, err)
	}
	return parsed, nil
}

// Parse validates raw JSON against the overrides schema and flattens values
// to strings.
func Parse(data []byte) (*FileOverrides, error) {
	value, err := decodeStrictJSON(data)
	if err != nil {
		return nil, fmt.Errorf("decode overrides JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	document, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("overrides document is not an object")
	}
	entries, _ := document["overrides"].(map[string]any)

	values := make(map[string]string, len(entries))
	for key, raw := range entries {
		switch typed := raw.(type) {
		case string:
			values[key] = typed
		case json.Number:
			values[key] = typed.String()
		case float64:
			values[key] = strconv.FormatFloat(typed, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("override %q has unsupported type", key)
		}
	}

	return &FileOverrides{values: values}, nil
}

// Get implements the translation.Overrides lookup.
func (f *FileOverrides) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	value, ok := f.values[key]
	return value, ok
}

// Len reports how many overrides were loaded.
func (f *FileOverrides) Len() int {
	if f == nil {
		return 0
	}
	return len(f.values)
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("overrides.schema.json", bytes.NewReader([]byte(overridesSchemaJSON))); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = compiler.Compile("overrides.schema.json")
	})
	return compiledSchema, compiledSchemaErr
}

func decodeStrictJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, fmt.Errorf("unexpected trailing JSON content")
	}
	return value, nil
}
