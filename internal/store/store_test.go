package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "events", "trivia.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesParentDirAndSchema(t *testing.T) {
	s := openTestStore(t)

	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'llm_call_events'`,
	).Scan(&n)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatal("expected llm_call_events table to exist")
	}
}

func TestAppendLLMCall_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.Events()

	data := LLMCallEventData{
		Model:        "gemini-2.5-flash",
		Purpose:      "question-gen",
		InputTokens:  812,
		OutputTokens: 2048,
		LatencyMs:    1530,
		Success:      true,
		CostUSD:      0.0054,
		Prompt:       "Generate 10 questions",
		Response:     `[{"type":"mcq"}]`,
	}
	if err := repo.AppendLLMCall(context.Background(), data); err != nil {
		t.Fatalf("append: %v", err)
	}

	var got LLMCallEventData
	var createdAt string
	err := s.db.QueryRow(`
		SELECT created_at, model, purpose, input_tokens, output_tokens,
		       latency_ms, success, error_message, cost_usd, prompt, response
		FROM llm_call_events`).Scan(
		&createdAt, &got.Model, &got.Purpose, &got.InputTokens, &got.OutputTokens,
		&got.LatencyMs, &got.Success, &got.ErrorMessage, &got.CostUSD,
		&got.Prompt, &got.Response,
	)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if createdAt == "" {
		t.Fatal("created_at must be set")
	}
	if got != data {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, data)
	}
}

func TestAppendLLMCall_FailureEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.Events()

	err := repo.AppendLLMCall(context.Background(), LLMCallEventData{
		Model:        "gemini-2.5-flash",
		Purpose:      "question-gen",
		Success:      false,
		ErrorMessage: "throttled: 429",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	var success bool
	var msg string
	if err := s.db.QueryRow(
		`SELECT success, error_message FROM llm_call_events`).Scan(&success, &msg); err != nil {
		t.Fatal(err)
	}
	if success || msg != "throttled: 429" {
		t.Fatalf("unexpected row: success=%v msg=%q", success, msg)
	}
}
