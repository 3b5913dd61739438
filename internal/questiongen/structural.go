package questiongen

import "fmt"

// StructuralValidator checks per-question rules the JSON schema cannot
// express: option counts by type and that the correct answer is one of
// the offered options.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(batch Batch, _ GenerateInput) *ValidationError {
	for i, q := range batch {
		want := q.Type.OptionCount()
		if want == 0 {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d: unknown type %q", i, q.Type),
			}
		}
		if len(q.Options) != want {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d: type %q needs %d options, got %d", i, q.Type, want, len(q.Options)),
			}
		}
		if _, ok := q.Options[q.Correct]; !ok {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d: correct answer %q is not an option key", i, q.Correct),
			}
		}
	}
	return nil
}

// CoverageValidator checks that a batch of 4 or more questions spans
// all four question types. Smaller batches are best-effort.
type CoverageValidator struct{}

func (v *CoverageValidator) Name() string { return "coverage" }

func (v *CoverageValidator) Validate(batch Batch, input GenerateInput) *ValidationError {
	if input.Count < 4 || len(batch) < 4 {
		return nil
	}

	seen := map[QuestionType]bool{}
	for _, q := range batch {
		seen[q.Type] = true
	}

	for _, t := range []QuestionType{TypeMCQ, TypeTrueFalse, TypeMoreLess, TypeNumberLine} {
		if !seen[t] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("batch of %d is missing type %q", len(batch), t),
			}
		}
	}
	return nil
}
