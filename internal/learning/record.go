package learning

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a learning record.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// MaxProgress is the progress value of a fully covered course.
const MaxProgress = 100

// Record is the persisted progress of one user through one course.
type Record struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	CourseID       string     `json:"courseId"`
	Progress       int        `json:"progress"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastAccessedAt time.Time  `json:"lastAccessedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// Store is the learning record persistence consumed by the engine.
// Writes are upserts keyed by Record.ID and are last-writer-wins.
type Store interface {
	RecordsByUser(ctx context.Context, userID string) ([]Record, error)
	UpdateRecord(ctx context.Context, rec Record) error
}

// Find returns the record for (userID, courseID), or nil when absent.
func Find(ctx context.Context, s Store, userID, courseID string) (*Record, error) {
	records, err := s.RecordsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].CourseID == courseID {
			return &records[i], nil
		}
	}
	return nil, nil
}

// CurrentProgress returns the progress of rec, treating a missing record
// as a fresh one.
func CurrentProgress(rec *Record) int {
	if rec == nil {
		return 0
	}
	return rec.Progress
}

// SectionIndex maps progress onto a key point index for a course with n
// key points. It equals floor(progress / (100/n)) computed in integers,
// so progress below 100 always lands in [0, n) and progress 100 lands on n.
// A course without key points has no sections and yields 0.
func SectionIndex(progress, n int) int {
	if n <= 0 {
		return 0
	}
	return progress * n / MaxProgress
}

// Advance returns the record after one lecture segment: progress moves by
// step (capped at MaxProgress), the access time is refreshed and the status
// is in_progress. A nil prior record is created lazily.
func Advance(prior *Record, userID, courseID string, step int, now time.Time) Record {
	rec := base(prior, userID, courseID, now)
	rec.Progress = min(rec.Progress+step, MaxProgress)
	rec.LastAccessedAt = now
	rec.Status = StatusInProgress
	return rec
}

// Complete returns the record marked completed at now. Progress is left
// untouched.
func Complete(prior *Record, userID, courseID string, now time.Time) Record {
	rec := base(prior, userID, courseID, now)
	rec.Status = StatusCompleted
	rec.LastAccessedAt = now
	completedAt := now
	rec.CompletedAt = &completedAt
	return rec
}

func base(prior *Record, userID, courseID string, now time.Time) Record {
	if prior != nil {
		rec := *prior
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		return rec
	}
	return Record{
		ID:        uuid.New().String(),
		UserID:    userID,
		CourseID:  courseID,
		Status:    StatusInProgress,
		CreatedAt: now,
	}
}
