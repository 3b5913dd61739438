package questiongen

import "github.com/elementsoftruth/trivia/internal/llm"

// batchSchema is the JSON Schema a generated response must satisfy
// before unmarshalling. Structural rules that JSON Schema cannot express
// per question type (option counts, correct key membership) live in the
// validators.
var batchSchema = &llm.Schema{
	Name:        "trivia-batch",
	Description: "A batch of Elements of Truth trivia questions",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"type", "question", "options", "correct", "explanation"},
			"properties": map[string]any{
				"type": map[string]any{
					"type": "string",
					"enum": []any{"mcq", "truefalse", "moreless", "numberline"},
				},
				"question": map[string]any{
					"type":      "string",
					"minLength": 1,
				},
				"options": map[string]any{
					"type": "object",
					"additionalProperties": map[string]any{
						"type": "string",
					},
					"minProperties": 2,
					"maxProperties": 4,
				},
				"correct": map[string]any{
					"type":      "string",
					"minLength": 1,
				},
				"explanation": map[string]any{
					"type": "string",
				},
			},
		},
	},
}
