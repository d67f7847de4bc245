package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyPoint() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic":      map[string]any{"type": "string", "minLength": 1},
			"isTrue":     map[string]any{"type": "boolean"},
			"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "hard"}},
			"wrongStatements": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
			},
		},
		"required": []any{"topic", "isTrue"},
	}
}

func TestValidate(t *testing.T) {
	s, err := Compile("test-key-point", keyPoint())
	require.NoError(t, err)
	assert.Equal(t, "test-key-point", s.Name())

	tests := []struct {
		name       string
		doc        string
		wantErr    bool
		wantSyntax bool
	}{
		{"valid", `{"topic":"哈希","isTrue":true,"difficulty":"easy","wrongStatements":["a"]}`, false, false},
		{"optional fields omitted", `{"topic":"哈希","isTrue":false}`, false, false},
		{"missing required", `{"topic":"哈希"}`, true, false},
		{"wrong type", `{"topic":"哈希","isTrue":"yes"}`, true, false},
		{"enum violation", `{"topic":"哈希","isTrue":true,"difficulty":"medium"}`, true, false},
		{"empty nested array", `{"topic":"哈希","isTrue":true,"wrongStatements":[]}`, true, false},
		{"empty topic", `{"topic":"","isTrue":true}`, true, false},
		{"malformed JSON", `{"topic":`, true, true},
		{"empty body", ``, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate([]byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var serr *Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.wantSyntax, serr.Syntax)
			assert.Equal(t, "test-key-point", serr.Schema)
		})
	}
}

func TestCompile_CachesByName(t *testing.T) {
	first, err := Compile("test-cached", keyPoint())
	require.NoError(t, err)

	second, err := Compile("test-cached", map[string]any{"type": "string"})
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCompile_InvalidDefinition(t *testing.T) {
	_, err := Compile("test-broken", map[string]any{"type": 12})
	assert.Error(t, err)
}
