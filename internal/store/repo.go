package store

import "context"

// LLMCallEventData captures the data for a single outbound LLM call.
type LLMCallEventData struct {
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	CostUSD      float64
	Prompt       string
	Response     string
}

// EventRepo provides append access to LLM call events.
type EventRepo interface {
	// AppendLLMCall records one outbound LLM API call.
	AppendLLMCall(ctx context.Context, data LLMCallEventData) error
}
