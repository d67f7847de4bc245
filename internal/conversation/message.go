package conversation

import (
	"context"
	"strings"
	"time"
)

// ActionLecture tags responses produced by the lecture engine.
const ActionLecture = "LECTURE"

// Content is the payload of a message.
type Content struct {
	Text     string `json:"text"`
	CourseID string `json:"courseId,omitempty"`
	Action   string `json:"action,omitempty"`
}

// Message is one entry of a room's conversation, inbound or outbound.
type Message struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"userId"`
	RoomID    string    `json:"roomId"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// IsLecture reports whether the message was produced as lecture content.
func (m Message) IsLecture() bool {
	return m.Content.Action == ActionLecture
}

// Contains reports whether the message text contains token.
func (m Message) Contains(token string) bool {
	return strings.Contains(m.Content.Text, token)
}

// Response is the engine's reply to one inbound message.
type Response struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

// History provides the recent messages of a room.
type History interface {
	// Recent returns up to count messages of the room, most recent first.
	Recent(ctx context.Context, roomID string, count int) ([]Message, error)

	// Append adds a message to the end of the room's history.
	Append(ctx context.Context, msg Message) error
}
