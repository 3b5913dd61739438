package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrThrottled indicates the provider rejected the call with a rate limit
// signal (HTTP 429 / resource exhausted). Distinct from this service's own
// admission limiter, which never produces an error at this layer.
type ErrThrottled struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrThrottled) Error() string {
	return fmt.Sprintf("provider throttled (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrThrottled) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that could not be
// parsed or does not conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}
