package authoring

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/cuckoo-ai/cuckoo/internal/course"
)

// Validator checks a drafted course before it is handed back.
type Validator interface {
	// Name returns a short identifier used in error messages.
	Name() string

	Validate(c *course.Course, cfg Config) *ValidationError
}

// ValidationError describes why a draft failed validation.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool // whether asking again is likely to fix it
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator enforces the course invariants plus the distractor
// rules quizzes depend on.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(c *course.Course, cfg Config) *ValidationError {
	if len(c.KeyPoints) == 0 {
		return v.fail("no key points")
	}
	if err := c.Validate(); err != nil {
		return v.fail(err.Error())
	}

	for i, kp := range c.KeyPoints {
		wrong := lo.Uniq(lo.Filter(kp.WrongStatements, func(s string, _ int) bool {
			return strings.TrimSpace(s) != ""
		}))
		if len(wrong) < cfg.WrongStatements {
			return v.fail(fmt.Sprintf("keyPoints[%d] (%s): need %d distinct wrong statements, got %d",
				i, kp.Topic, cfg.WrongStatements, len(wrong)))
		}
		if lo.Contains(wrong, kp.CorrectStatement) {
			return v.fail(fmt.Sprintf("keyPoints[%d] (%s): a wrong statement repeats the correct one", i, kp.Topic))
		}
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
}

// DistinctTopicsValidator rejects drafts where two key points share a topic.
// Questions are routed by topic, so duplicates would shadow each other.
type DistinctTopicsValidator struct{}

func (v *DistinctTopicsValidator) Name() string { return "distinct-topics" }

func (v *DistinctTopicsValidator) Validate(c *course.Course, _ Config) *ValidationError {
	dups := lo.FindDuplicatesBy(c.KeyPoints, func(kp course.KeyPoint) string {
		return strings.ToLower(strings.TrimSpace(kp.Topic))
	})
	if len(dups) == 0 {
		return nil
	}
	topics := lo.Map(dups, func(kp course.KeyPoint, _ int) string { return kp.Topic })
	return &ValidationError{
		Validator: v.Name(),
		Message:   "duplicate topics: " + strings.Join(topics, ", "),
		Retryable: true,
	}
}
