package rewards

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultCompletionPoints is the reward for finishing a course.
const DefaultCompletionPoints = 100

// Reward is one entry of the reward ledger.
type Reward struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CourseID  string    `json:"courseId"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	AwardedAt time.Time `json:"awardedAt"`
}

// LedgerStore persists rewards.
type LedgerStore interface {
	HasReward(ctx context.Context, userID, courseID string) (bool, error)
	SaveReward(ctx context.Context, r Reward) error
}

// Ledger records one reward per user and course.
type Ledger struct {
	store  LedgerStore
	points int
}

// NewLedger creates a ledger awarding points per completion. Non-positive
// points use DefaultCompletionPoints.
func NewLedger(store LedgerStore, points int) *Ledger {
	if points <= 0 {
		points = DefaultCompletionPoints
	}
	return &Ledger{store: store, points: points}
}

func (l *Ledger) CourseCompleted(ctx context.Context, c Completion) error {
	exists, err := l.store.HasReward(ctx, c.UserID, c.CourseID)
	if err != nil {
		return fmt.Errorf("check reward: %w", err)
	}
	if exists {
		return nil
	}

	awardedAt := c.CompletedAt
	if awardedAt.IsZero() {
		awardedAt = time.Now()
	}
	r := Reward{
		ID:        uuid.New().String(),
		UserID:    c.UserID,
		CourseID:  c.CourseID,
		Points:    l.points,
		Reason:    fmt.Sprintf("Completed course %s", c.CourseID),
		AwardedAt: awardedAt,
	}
	if err := l.store.SaveReward(ctx, r); err != nil {
		return fmt.Errorf("save reward: %w", err)
	}
	return nil
}
