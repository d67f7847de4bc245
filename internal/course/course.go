package course

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by catalogs when no course exists for an id.
var ErrNotFound = errors.New("course not found")

// KeyPoint is one atomic teachable fact within a course.
type KeyPoint struct {
	// Topic is the short name the learner uses to refer to this fact.
	// Direct questions are matched against it by substring.
	Topic string `json:"topic"`

	// Statement is the lecture text. It may be deliberately false, in
	// which case IsTrue is false and CorrectStatement holds the fix.
	Statement string `json:"statement"`

	IsTrue bool `json:"isTrue"`

	// CorrectStatement is the canonical true statement about Topic.
	CorrectStatement string `json:"correctStatement"`

	// WrongStatements is the bank of plausible false statements used as
	// multiple-choice distractors, consumed in order.
	WrongStatements []string `json:"wrongStatements"`

	// Hint is shown after a wrong quiz answer. Optional.
	Hint string `json:"hint,omitempty"`
}

// Course is an ordered sequence of key points. Read-only to the engine.
type Course struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Version   string     `json:"version,omitempty"`
	KeyPoints []KeyPoint `json:"keyPoints"`
}

// Len returns the number of key points.
func (c *Course) Len() int {
	return len(c.KeyPoints)
}

// At returns the key point at index i, or false when i is out of range.
func (c *Course) At(i int) (KeyPoint, bool) {
	if i < 0 || i >= len(c.KeyPoints) {
		return KeyPoint{}, false
	}
	return c.KeyPoints[i], true
}

// Catalog is the read-only course lookup consumed by the engine.
type Catalog interface {
	// Course returns the course with the given id, or ErrNotFound.
	Course(ctx context.Context, id string) (*Course, error)
}

// ValidationError describes why a course is unusable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid course: %s: %s", e.Field, e.Message)
}

// Validate checks the structural invariants the engine relies on.
func (c *Course) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return &ValidationError{Field: "id", Message: "must not be empty"}
	}
	if c.Version != "" {
		if err := checkVersion(c.Version); err != nil {
			return &ValidationError{Field: "version", Message: err.Error()}
		}
	}
	for i, kp := range c.KeyPoints {
		field := fmt.Sprintf("keyPoints[%d]", i)
		if strings.TrimSpace(kp.Topic) == "" {
			return &ValidationError{Field: field + ".topic", Message: "must not be empty"}
		}
		if strings.TrimSpace(kp.Statement) == "" {
			return &ValidationError{Field: field + ".statement", Message: "must not be empty"}
		}
		if strings.TrimSpace(kp.CorrectStatement) == "" {
			return &ValidationError{Field: field + ".correctStatement", Message: "must not be empty"}
		}
	}
	return nil
}
