package questiongen

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/elementsoftruth/trivia/internal/llm"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"bare fence", "```\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"leading whitespace", "  \n```json\n[]\n```  ", "[]"},
		{"fence without close", "```json\n[]", "[]"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Fatalf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseBatch_ValidArray(t *testing.T) {
	raw := json.RawMessage("```json\n" + `[
		{"type": "mcq", "question": "Q?", "options": {"A": "1", "B": "2", "C": "3", "D": "4"}, "correct": "A", "explanation": "E"}
	]` + "\n```")

	batch, err := parseBatch(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("expected 1 question, got %d", len(batch))
	}
	if batch[0].Type != TypeMCQ {
		t.Fatalf("expected type mcq, got %q", batch[0].Type)
	}
	if batch[0].Options["C"] != "3" {
		t.Fatalf("expected option C=3, got %q", batch[0].Options["C"])
	}
}

func TestParseBatch_MalformedJSON(t *testing.T) {
	_, err := parseBatch(json.RawMessage(`not json at all`))
	if err == nil {
		t.Fatal("expected error")
	}
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
}

func TestParseBatch_SchemaViolation(t *testing.T) {
	// "correct" is required by the schema.
	raw := json.RawMessage(`[{"type": "mcq", "question": "Q?", "options": {"A": "1", "B": "2", "C": "3", "D": "4"}, "explanation": "E"}]`)

	_, err := parseBatch(raw)
	if err == nil {
		t.Fatal("expected error")
	}
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
}

func TestParseBatch_EmptyArray(t *testing.T) {
	_, err := parseBatch(json.RawMessage(`[]`))
	if err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestParseBatch_UnknownTypeRejectedBySchema(t *testing.T) {
	raw := json.RawMessage(`[{"type": "riddle", "question": "Q?", "options": {"A": "1", "B": "2"}, "correct": "A", "explanation": "E"}]`)

	_, err := parseBatch(raw)
	if err == nil {
		t.Fatal("expected error for unknown question type")
	}
}
