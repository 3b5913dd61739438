package questiongen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elementsoftruth/trivia/internal/llm"
)

// StripFences removes a markdown code-fence wrapper from a model
// response. Models often wrap JSON output in a leading "```json" line
// and a trailing "```" despite being told not to.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}
	return strings.TrimSpace(text)
}

// parseBatch turns a raw model response into a Batch. The response is
// fence-stripped, validated against the batch JSON schema, then
// unmarshalled. Any failure is reported as *llm.ErrInvalidResponse so
// the retry loop treats it like a transport failure.
func parseBatch(raw json.RawMessage) (Batch, error) {
	cleaned := json.RawMessage(StripFences(string(raw)))

	if err := llm.ValidateContent(batchSchema, cleaned); err != nil {
		return nil, err
	}

	var batch Batch
	if err := json.Unmarshal(cleaned, &batch); err != nil {
		return nil, &llm.ErrInvalidResponse{
			Content: cleaned,
			Err:     fmt.Errorf("unmarshal question batch: %w", err),
		}
	}

	if len(batch) == 0 {
		return nil, &llm.ErrInvalidResponse{
			Content: cleaned,
			Err:     fmt.Errorf("empty question batch"),
		}
	}

	return batch, nil
}
