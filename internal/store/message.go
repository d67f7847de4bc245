package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/cuckoo-ai/cuckoo/internal/conversation"
)

// MessageRepo implements conversation.History. Messages are ordered by the
// global sequence, not by timestamp.
type MessageRepo struct {
	db  dbtx
	seq *sequenceCounter
}

func (r *MessageRepo) Append(ctx context.Context, msg conversation.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite.Insert("messages").
		Columns("id", "sequence", "room_id", "user_id", "text", "course_id", "action", "created_at").
		Values(msg.ID, seqNum, msg.RoomID, msg.UserID, msg.Content.Text, msg.Content.CourseID,
			msg.Content.Action, formatTime(msg.CreatedAt)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

func (r *MessageRepo) Recent(ctx context.Context, roomID string, count int) ([]conversation.Message, error) {
	sel := sqlite.Select("id", "room_id", "user_id", "text", "course_id", "action", "created_at").
		From(sqlite.Table("messages")).
		Where(entsql.EQ("room_id", roomID)).
		OrderBy(entsql.Desc("sequence"))
	if count > 0 {
		sel = sel.Limit(count)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []conversation.Message
	for rows.Next() {
		var (
			m         conversation.Message
			createdAt string
		)
		if err := rows.Scan(&m.ID, &m.RoomID, &m.UserID, &m.Content.Text, &m.Content.CourseID,
			&m.Content.Action, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if m.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteRoom removes the history of a room.
func (r *MessageRepo) DeleteRoom(ctx context.Context, roomID string) error {
	query, args := sqlite.Delete("messages").Where(entsql.EQ("room_id", roomID)).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return nil
}
