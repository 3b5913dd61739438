package questiongen

import "time"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of checks run on every parsed
	// batch. They execute in order; the first failure discards the
	// batch and consumes a retry attempt.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response. A batch of 10
	// questions with explanations needs a generous ceiling.
	MaxTokens int

	// Temperature, TopP and TopK are the sampling parameters. Trivia
	// wants creative diversity, so the defaults run hot.
	Temperature float64
	TopP        float64
	TopK        int

	// MaxAttempts caps outbound calls per Generate, including the first.
	MaxAttempts int

	// ThrottleBackoff is the wait before the second attempt when the
	// provider signalled throttling. It doubles on each later attempt.
	ThrottleBackoff time.Duration

	// RetryDelay is the fixed wait before retrying any other failure
	// class (transport, parse, schema).
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with the standard validator chain and
// the sampling parameters the game was tuned with.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&CoverageValidator{},
		},
		MaxTokens:       8192,
		Temperature:     0.9,
		TopP:            1,
		TopK:            40,
		MaxAttempts:     3,
		ThrottleBackoff: 5 * time.Second,
		RetryDelay:      2 * time.Second,
	}
}
