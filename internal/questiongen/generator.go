package questiongen

import (
	"context"
	"errors"
	"time"

	"github.com/elementsoftruth/trivia/internal/llm"
)

// LLMGenerator implements Generator using an LLM provider.
//
// It owns the retry loop because every attempt, not every logical
// request, must be registered with the admission limiter: provider quota
// is spent whether the call succeeds, fails in transport, or returns
// garbage. Throttling signals back off exponentially; every other
// failure class (transport, parse, schema, validation) retries after a
// short fixed delay.
type LLMGenerator struct {
	provider llm.Provider
	recorder CallRecorder
	config   Config
}

// New creates an LLMGenerator. recorder may be nil, in which case
// attempts are not tracked.
func New(provider llm.Provider, recorder CallRecorder, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, recorder: recorder, config: cfg}
}

// Generate produces a batch of questions for the given input.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (Batch, error) {
	ctx = llm.WithPurpose(ctx, "question-gen")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		TopP:        g.config.TopP,
		TopK:        g.config.TopK,
		RelaxSafety: true,
	}

	var lastErr error

	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := g.waitBeforeRetry(ctx, attempt, lastErr); err != nil {
				return nil, err
			}
		}

		// Register the attempt before the call goes out; quota is
		// consumed regardless of outcome.
		if g.recorder != nil {
			g.recorder.RecordCall()
		}

		resp, err := g.provider.Generate(ctx, req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			lastErr = err
			continue
		}

		batch, err := parseBatch(resp.Content)
		if err != nil {
			lastErr = err
			continue
		}

		if verr := g.validate(batch, input); verr != nil {
			lastErr = verr
			continue
		}

		return batch, nil
	}

	return nil, lastErr
}

func (g *LLMGenerator) validate(batch Batch, input GenerateInput) error {
	for _, v := range g.config.Validators {
		if verr := v.Validate(batch, input); verr != nil {
			return verr
		}
	}
	return nil
}

// waitBeforeRetry sleeps the failure-class-appropriate delay before
// attempt N. Throttling doubles from ThrottleBackoff (5s, 10s, 20s at
// the defaults); everything else waits the fixed RetryDelay. The wait
// holds no locks and suspends only this request's goroutine.
func (g *LLMGenerator) waitBeforeRetry(ctx context.Context, attempt int, lastErr error) error {
	wait := g.config.RetryDelay

	var throttled *llm.ErrThrottled
	if errors.As(lastErr, &throttled) {
		wait = g.config.ThrottleBackoff * time.Duration(1<<(attempt-2))
		if throttled.RetryAfter > wait {
			wait = throttled.RetryAfter
		}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
