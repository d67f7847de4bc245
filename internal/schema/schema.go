// Package schema compiles JSON Schema definitions and checks documents
// against them. Compiled schemas are cached by name for the life of the
// process, so a name must always refer to the same definition.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var cache sync.Map // name -> *Schema

// Schema is a compiled definition.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Error reports a document that is not JSON or does not satisfy its schema.
type Error struct {
	Schema string
	Syntax bool // the document is not JSON at all
	Err    error
}

func (e *Error) Error() string {
	if e.Syntax {
		return fmt.Sprintf("invalid JSON: %v", e.Err)
	}
	return fmt.Sprintf("schema %s: validation failed: %v", e.Schema, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Compile returns the cached schema for name, compiling def on first use.
func Compile(name string, def map[string]any) (*Schema, error) {
	if s, ok := cache.Load(name); ok {
		return s.(*Schema), nil
	}

	// The compiler wants a decoded JSON value, not Go maps with typed slices.
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	url := fmt.Sprintf("schema://%s.json", name)
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	s, _ := cache.LoadOrStore(name, &Schema{name: name, compiled: compiled})
	return s.(*Schema), nil
}

// Name returns the name the schema was compiled under.
func (s *Schema) Name() string { return s.name }

// Validate decodes data and checks it against s. Failures are *Error.
func (s *Schema) Validate(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &Error{Schema: s.name, Syntax: true, Err: err}
	}
	if err := s.compiled.Validate(doc); err != nil {
		return &Error{Schema: s.name, Err: err}
	}
	return nil
}
