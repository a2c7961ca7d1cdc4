package persist

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// CompileSchema compiles a JSON Schema definition given as a map.
func CompileSchema(name string, definition map[string]any) (*jsonschema.Schema, error) {
	// The compiler wants a parsed JSON value, so round-trip the map.
	defBytes, err := json.Marshal(definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("record://%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return compiled, nil
}

// MustSchema is CompileSchema for package-level schema literals.
func MustSchema(name string, definition map[string]any) *jsonschema.Schema {
	s, err := CompileSchema(name, definition)
	if err != nil {
		panic(err)
	}
	return s
}

// CharacterSchema describes a stored curriculum character.
var CharacterSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "char"},
	"properties": map[string]any{
		"id":     map[string]any{"type": "integer", "minimum": 1},
		"char":   map[string]any{"type": "string", "minLength": 1},
		"pinyin": map[string]any{"type": "string"},
		"group":  map[string]any{"type": "string"},
		"words":  map[string]any{"type": []any{"array", "null"}, "items": map[string]any{"type": "string"}},
		"tint":   map[string]any{"type": "string"},
		"image":  map[string]any{"type": "string"},
	},
}

// StorySchema describes a stored story.
var StorySchema = map[string]any{
	"type":     "object",
	"required": []any{"title", "pages"},
	"properties": map[string]any{
		"title": map[string]any{"type": "string"},
		"pages": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"text"},
				"properties": map[string]any{
					"text":  map[string]any{"type": "string"},
					"image": map[string]any{"type": "string"},
				},
			},
		},
	},
}
