package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/cuckoo-ai/cuckoo/internal/learning"
)

// RecordRepo implements learning.Store.
type RecordRepo struct {
	db dbtx
}

var recordColumns = []string{"id", "user_id", "course_id", "progress", "status", "created_at", "last_accessed_at", "completed_at"}

func (r *RecordRepo) RecordsByUser(ctx context.Context, userID string) ([]learning.Record, error) {
	query, args := sqlite.Select(recordColumns...).
		From(sqlite.Table("learning_records")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("created_at", "id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query learning records: %w", err)
	}
	defer rows.Close()

	var out []learning.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateRecord upserts rec on (user_id, course_id). The stored row keeps its
// id and created_at; progress, status and timestamps come from rec.
// Concurrent writers are last-writer-wins.
func (r *RecordRepo) UpdateRecord(ctx context.Context, rec learning.Record) error {
	var completedAt sql.NullString
	if rec.CompletedAt != nil {
		completedAt = sql.NullString{String: formatTime(*rec.CompletedAt), Valid: true}
	}

	query, args := sqlite.Insert("learning_records").
		Columns(recordColumns...).
		Values(rec.ID, rec.UserID, rec.CourseID, rec.Progress, string(rec.Status),
			formatTime(rec.CreatedAt), formatTime(rec.LastAccessedAt), completedAt).
		OnConflict(
			entsql.ConflictColumns("user_id", "course_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("progress").
					SetExcluded("status").
					SetExcluded("last_accessed_at").
					SetExcluded("completed_at")
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save learning record: %w", err)
	}
	return nil
}

func scanRecord(rows *sql.Rows) (learning.Record, error) {
	var (
		rec                     learning.Record
		status                  string
		createdAt, lastAccessed string
		completedAt             sql.NullString
	)
	if err := rows.Scan(&rec.ID, &rec.UserID, &rec.CourseID, &rec.Progress, &status,
		&createdAt, &lastAccessed, &completedAt); err != nil {
		return rec, fmt.Errorf("scan learning record: %w", err)
	}
	rec.Status = learning.Status(status)

	var err error
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return rec, err
	}
	if rec.LastAccessedAt, err = parseTime(lastAccessed); err != nil {
		return rec, err
	}
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return rec, err
		}
		rec.CompletedAt = &t
	}
	return rec, nil
}
