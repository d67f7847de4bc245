package course

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cuckoo-ai/cuckoo/internal/schema"
)

// FileSchema is the JSON Schema every course file must satisfy.
var FileSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":      map[string]any{"type": "string", "minLength": 1},
		"title":   map[string]any{"type": "string"},
		"version": map[string]any{"type": "string"},
		"keyPoints": map[string]any{
			"type":  "array",
			"items": KeyPointSchema,
		},
	},
	"required": []any{"id", "keyPoints"},
}

// KeyPointSchema describes a single key point. Shared with the drafting
// schema so that generated courses and imported files agree.
var KeyPointSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"topic":            map[string]any{"type": "string", "minLength": 1},
		"statement":        map[string]any{"type": "string", "minLength": 1},
		"isTrue":           map[string]any{"type": "boolean"},
		"correctStatement": map[string]any{"type": "string", "minLength": 1},
		"wrongStatements": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"hint": map[string]any{"type": "string"},
	},
	"required": []any{"topic", "statement", "isTrue", "correctStatement", "wrongStatements"},
}

// Parse decodes a course document, validating it against FileSchema and
// the structural invariants in Validate.
func Parse(data []byte) (*Course, error) {
	sch, err := schema.Compile("course", FileSchema)
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(data); err != nil {
		return nil, err
	}

	var c Course
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode course: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseFile reads and parses a course document from disk.
func ParseFile(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course file: %w", err)
	}
	return Parse(data)
}
