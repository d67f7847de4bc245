package rewards

import (
	"context"
	"errors"
	"time"
)

// Completion describes a learner finishing a course.
type Completion struct {
	UserID      string    `json:"userId"`
	CourseID    string    `json:"courseId"`
	RecordID    string    `json:"recordId"`
	CompletedAt time.Time `json:"completedAt"`
}

// Hook is notified when a course is completed. Implementations decide what
// a reward is; the lecture engine only reports completions.
type Hook interface {
	CourseCompleted(ctx context.Context, c Completion) error
}

// Noop ignores completions.
type Noop struct{}

func (Noop) CourseCompleted(context.Context, Completion) error { return nil }

// Multi notifies every hook in order. All hooks run even when one fails;
// the failures are joined.
type Multi []Hook

func (m Multi) CourseCompleted(ctx context.Context, c Completion) error {
	var errs []error
	for _, h := range m {
		if err := h.CourseCompleted(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
