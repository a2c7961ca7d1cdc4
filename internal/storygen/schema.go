package storygen

import "github.com/abhisek/zibao/internal/llm"

// StorySchema is the structured output requested from the model.
var StorySchema = &llm.Schema{
	Name:        "picture-story",
	Description: "A short illustrated Chinese story for young children",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"title", "pages"},
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short Chinese title",
			},
			"pages": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []any{"text", "image_keyword"},
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "One simple Chinese sentence",
						},
						"image_keyword": map[string]any{
							"type":        "string",
							"description": "Exactly one English noun naming the page's main subject",
						},
					},
				},
			},
		},
	},
}
