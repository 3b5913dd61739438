package questiongen

import "context"

// QuestionType identifies one of the four game question formats.
type QuestionType string

const (
	TypeMCQ        QuestionType = "mcq"
	TypeTrueFalse  QuestionType = "truefalse"
	TypeMoreLess   QuestionType = "moreless"
	TypeNumberLine QuestionType = "numberline"
)

// OptionCount returns how many options a question of this type carries.
func (t QuestionType) OptionCount() int {
	switch t {
	case TypeTrueFalse, TypeMoreLess:
		return 2
	case TypeMCQ, TypeNumberLine:
		return 4
	}
	return 0
}

// Question is a single trivia question as served to the game client.
// The JSON field names are the client wire contract.
type Question struct {
	// ID is set only on fallback-bank questions and is used by clients
	// to exclude questions they already hold. Generated questions omit it.
	ID string `json:"_id,omitempty"`

	Type QuestionType `json:"type"`

	// Question is the prompt text shown to the player.
	Question string `json:"question"`

	// Options maps a choice letter ("A".."D") to its text. Exactly 4
	// entries for mcq and numberline, exactly 2 for truefalse and moreless.
	Options map[string]string `json:"options"`

	// Correct is the letter of the right option. Always a key of Options.
	Correct string `json:"correct"`

	// Explanation is a brief justification shown after answering.
	Explanation string `json:"explanation"`
}

// Batch is an ordered set of questions answering one generation request.
type Batch []Question

// GenerateInput holds the parameters of one generation request.
type GenerateInput struct {
	Category   string
	Difficulty string
	Count      int
}

// Generator produces trivia question batches.
type Generator interface {
	// Generate produces Count questions for the given category and
	// difficulty. It retries transient provider failures internally and
	// returns the last error once attempts are exhausted; callers should
	// treat any error as "no questions produced", not as fatal.
	Generate(ctx context.Context, input GenerateInput) (Batch, error)
}

// CallRecorder receives one notification per outbound provider call.
// The admission limiter implements this so every attempt, successful or
// not, counts against quota.
type CallRecorder interface {
	RecordCall()
}
