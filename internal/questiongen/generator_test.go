package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/elementsoftruth/trivia/internal/llm"
)

// countingRecorder implements CallRecorder for tests.
type countingRecorder struct {
	mu    sync.Mutex
	calls int
}

func (r *countingRecorder) RecordCall() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
}

func (r *countingRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ThrottleBackoff = 10 * time.Millisecond
	cfg.RetryDelay = 5 * time.Millisecond
	return cfg
}

// fourTypeBatchJSON is a well-formed response spanning all four types.
const fourTypeBatchJSON = `[
	{"type": "mcq", "question": "Q1?", "options": {"A": "1", "B": "2", "C": "3", "D": "4"}, "correct": "A", "explanation": "E1"},
	{"type": "truefalse", "question": "Q2?", "options": {"A": "True", "B": "False"}, "correct": "B", "explanation": "E2"},
	{"type": "moreless", "question": "Q3?", "options": {"A": "More", "B": "Less"}, "correct": "A", "explanation": "E3"},
	{"type": "numberline", "question": "Q4?", "options": {"A": "1", "B": "10", "C": "100", "D": "1000"}, "correct": "D", "explanation": "E4"}
]`

func input() GenerateInput {
	return GenerateInput{Category: "Science", Difficulty: "Easy", Count: 4}
}

func TestGenerate_SucceedsFirstAttempt(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("```json\n" + fourTypeBatchJSON + "\n```")},
	)
	recorder := &countingRecorder{}
	g := New(mock, recorder, testConfig())

	batch, err := g.Generate(context.Background(), input())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(batch))
	}
	if recorder.Count() != 1 {
		t.Fatalf("expected 1 recorded call, got %d", recorder.Count())
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 provider call, got %d", mock.CallCount())
	}
}

func TestGenerate_SendsTriviaSamplingParameters(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(fourTypeBatchJSON)},
	)
	g := New(mock, nil, DefaultConfig())

	if _, err := g.Generate(context.Background(), input()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := mock.Calls[0]
	if req.Temperature != 0.9 || req.TopP != 1 || req.TopK != 40 {
		t.Fatalf("unexpected sampling parameters: temp=%v top_p=%v top_k=%v",
			req.Temperature, req.TopP, req.TopK)
	}
	if !req.RelaxSafety {
		t.Fatal("expected safety filtering to be relaxed for trivia generation")
	}
	if req.System == "" || len(req.Messages) != 1 {
		t.Fatal("expected a system prompt and one user message")
	}
}

func TestGenerate_ThrottledBacksOffExponentially(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrThrottled{Err: errors.New("429")}},
		llm.MockResponse{Err: &llm.ErrThrottled{Err: errors.New("429")}},
		llm.MockResponse{Content: json.RawMessage(fourTypeBatchJSON)},
	)
	recorder := &countingRecorder{}
	cfg := testConfig()
	g := New(mock, recorder, cfg)

	start := time.Now()
	batch, err := g.Generate(context.Background(), input())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(batch))
	}
	// Waits are base then 2*base between the three attempts.
	if want := cfg.ThrottleBackoff * 3; elapsed < want {
		t.Fatalf("expected at least %s of backoff, finished in %s", want, elapsed)
	}
	if recorder.Count() != 3 {
		t.Fatalf("every attempt must be recorded before the call: expected 3, got %d", recorder.Count())
	}
}

func TestGenerate_TransportFailureRetriesWithFixedDelay(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
		llm.MockResponse{Content: json.RawMessage(fourTypeBatchJSON)},
	)
	recorder := &countingRecorder{}
	g := New(mock, recorder, testConfig())

	start := time.Now()
	_, err := g.Generate(context.Background(), input())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed < testConfig().RetryDelay {
		t.Fatalf("expected the fixed retry delay, finished in %s", elapsed)
	}
	if recorder.Count() != 2 {
		t.Fatalf("expected 2 recorded calls, got %d", recorder.Count())
	}
}

func TestGenerate_ParseFailureConsumesAttempt(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`I refuse to answer in JSON`)},
		llm.MockResponse{Content: json.RawMessage(`still not JSON`)},
		llm.MockResponse{Content: json.RawMessage(`nope`)},
	)
	recorder := &countingRecorder{}
	g := New(mock, recorder, testConfig())

	_, err := g.Generate(context.Background(), input())
	if err == nil {
		t.Fatal("expected error after exhausting attempts on parse failures")
	}
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
	if recorder.Count() != 3 {
		t.Fatalf("expected 3 recorded calls, got %d", recorder.Count())
	}
}

func TestGenerate_ValidationFailureConsumesAttempt(t *testing.T) {
	// Four questions but all mcq: schema-valid, coverage-invalid.
	allMCQ := `[
		{"type": "mcq", "question": "Q1?", "options": {"A": "1", "B": "2", "C": "3", "D": "4"}, "correct": "A", "explanation": "E"},
		{"type": "mcq", "question": "Q2?", "options": {"A": "1", "B": "2", "C": "3", "D": "4"}, "correct": "B", "explanation": "E"},
		{"type": "mcq", "question": "Q3?", "options": {"A": "1", "B": "2", "C": "3", "D": "4"}, "correct": "C", "explanation": "E"},
		{"type": "mcq", "question": "Q4?", "options": {"A": "1", "B": "2", "C": "3", "D": "4"}, "correct": "D", "explanation": "E"}
	]`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(allMCQ)},
		llm.MockResponse{Content: json.RawMessage(fourTypeBatchJSON)},
	)
	g := New(mock, nil, testConfig())

	batch, err := g.Generate(context.Background(), input())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(batch))
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected the invalid batch to consume one attempt, got %d calls", mock.CallCount())
	}
}

func TestGenerate_ExhaustedAttemptsReturnLastError(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrThrottled{Err: errors.New("429")}},
		llm.MockResponse{Err: &llm.ErrThrottled{Err: errors.New("429")}},
		llm.MockResponse{Err: &llm.ErrThrottled{Err: errors.New("429")}},
	)
	recorder := &countingRecorder{}
	g := New(mock, recorder, testConfig())

	_, err := g.Generate(context.Background(), input())
	if err == nil {
		t.Fatal("expected error")
	}
	var throttled *llm.ErrThrottled
	if !errors.As(err, &throttled) {
		t.Fatalf("expected ErrThrottled, got %T", err)
	}
	if recorder.Count() != 3 {
		t.Fatalf("expected 3 recorded calls, got %d", recorder.Count())
	}
}

func TestGenerate_ContextCancellationStopsRetrying(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
		llm.MockResponse{Content: json.RawMessage(fourTypeBatchJSON)},
	)
	recorder := &countingRecorder{}
	g := New(mock, recorder, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, input())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	// The first attempt goes out before any wait; the retry wait aborts.
	if recorder.Count() != 1 {
		t.Fatalf("expected 1 recorded call, got %d", recorder.Count())
	}
}
