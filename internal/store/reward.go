package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/cuckoo-ai/cuckoo/internal/rewards"
)

// RewardRepo implements rewards.LedgerStore.
type RewardRepo struct {
	db dbtx
}

func (r *RewardRepo) HasReward(ctx context.Context, userID, courseID string) (bool, error) {
	query, args := sqlite.Select(entsql.Count("*")).
		From(sqlite.Table("rewards")).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("course_id", courseID))).
		Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count rewards: %w", err)
	}
	return n > 0, nil
}

// SaveReward inserts rw. A second reward for the same user and course is
// ignored.
func (r *RewardRepo) SaveReward(ctx context.Context, rw rewards.Reward) error {
	query, args := sqlite.Insert("rewards").
		Columns("id", "user_id", "course_id", "points", "reason", "awarded_at").
		Values(rw.ID, rw.UserID, rw.CourseID, rw.Points, rw.Reason, formatTime(rw.AwardedAt)).
		OnConflict(entsql.ConflictColumns("user_id", "course_id"), entsql.DoNothing()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save reward: %w", err)
	}
	return nil
}

// RewardsByUser returns the rewards of a user, oldest first.
func (r *RewardRepo) RewardsByUser(ctx context.Context, userID string) ([]rewards.Reward, error) {
	query, args := sqlite.Select("id", "user_id", "course_id", "points", "reason", "awarded_at").
		From(sqlite.Table("rewards")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("awarded_at").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rewards: %w", err)
	}
	defer rows.Close()

	var out []rewards.Reward
	for rows.Next() {
		var (
			rw        rewards.Reward
			awardedAt string
		)
		if err := rows.Scan(&rw.ID, &rw.UserID, &rw.CourseID, &rw.Points, &rw.Reason, &awardedAt); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		if rw.AwardedAt, err = parseTime(awardedAt); err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, rows.Err()
}
