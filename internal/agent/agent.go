// Package agent hosts the lecture engine behind a message pipeline: it
// records the conversation, applies the eligibility guard and keeps the
// per-room dialogue state between turns.
package agent

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/cuckoo-ai/cuckoo/internal/conversation"
	"github.com/cuckoo-ai/cuckoo/internal/dialogue"
	"github.com/cuckoo-ai/cuckoo/internal/lecture"
	"github.com/cuckoo-ai/cuckoo/internal/logger"
)

// DefaultAgentID is the user id the agent's own messages are stored under.
const DefaultAgentID = "cuckoo"

// Status is the outcome of handling one inbound message.
type Status int

const (
	StatusResponded Status = iota
	// StatusIneligible means the guard declined the message: it names no
	// course, or the learner already completed it.
	StatusIneligible
	// StatusNotFound means the message named an unknown course.
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusResponded:
		return "responded"
	case StatusIneligible:
		return "ineligible"
	case StatusNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Reply is what Handle returns to the transport.
type Reply struct {
	Status   Status
	Rule     lecture.Rule
	Response conversation.Response
}

// Engine is the part of lecture.Engine the agent drives.
type Engine interface {
	Eligible(ctx context.Context, msg conversation.Message) (bool, error)
	Turn(ctx context.Context, msg conversation.Message, state dialogue.State) (lecture.Result, error)
}

// Agent runs one engine turn per inbound message.
type Agent struct {
	engine    Engine
	history   conversation.History
	dialogues dialogue.Store
	agentID   string
	log       *logger.Logger
	now       func() time.Time
	rooms     *roomLocks
}

// Option customizes an Agent.
type Option func(*Agent)

// WithAgentID sets the user id of stored agent messages.
func WithAgentID(id string) Option {
	return func(a *Agent) { a.agentID = id }
}

// WithLogger sets the logger used for per-turn logging.
func WithLogger(l *logger.Logger) Option {
	return func(a *Agent) { a.log = l }
}

// WithClock sets the time source for stored message timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// New creates an Agent.
func New(engine Engine, history conversation.History, dialogues dialogue.Store, opts ...Option) *Agent {
	a := &Agent{
		engine:    engine,
		history:   history,
		dialogues: dialogues,
		agentID:   DefaultAgentID,
		log:       logger.Nop(),
		now:       time.Now,
		rooms:     newRoomLocks(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle records msg, runs the guard and, when eligible, one engine turn.
// Turns of the same room are serialized.
func (a *Agent) Handle(ctx context.Context, msg conversation.Message) (Reply, error) {
	unlock := a.rooms.lock(msg.RoomID)
	defer unlock()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = a.now()
	}
	if err := a.history.Append(ctx, msg); err != nil {
		return Reply{}, fmt.Errorf("record inbound message: %w", err)
	}

	ok, err := a.engine.Eligible(ctx, msg)
	if err != nil {
		return Reply{}, err
	}
	if !ok {
		return Reply{Status: StatusIneligible}, nil
	}

	state, err := a.dialogues.Load(ctx, msg.RoomID)
	if err != nil {
		return Reply{}, fmt.Errorf("load dialogue state: %w", err)
	}

	res, err := a.engine.Turn(ctx, msg, state)
	if err != nil {
		a.log.Error("lecture turn failed", "room", msg.RoomID, "course", msg.Content.CourseID, "error", err)
		return Reply{}, err
	}
	if res.Status == lecture.StatusNotFound {
		return Reply{Status: StatusNotFound}, nil
	}

	if !reflect.DeepEqual(state, res.State) {
		if err := a.dialogues.Save(ctx, msg.RoomID, res.State); err != nil {
			return Reply{}, fmt.Errorf("save dialogue state: %w", err)
		}
	}

	out := conversation.Message{
		UserID: a.agentID,
		RoomID: msg.RoomID,
		Content: conversation.Content{
			Text:     res.Response.Text,
			CourseID: msg.Content.CourseID,
			Action:   res.Response.Action,
		},
		CreatedAt: a.now(),
	}
	if err := a.history.Append(ctx, out); err != nil {
		return Reply{}, fmt.Errorf("record response: %w", err)
	}

	a.log.Info("lecture turn", "room", msg.RoomID, "user", msg.UserID, "course", msg.Content.CourseID, "rule", res.Rule)
	return Reply{Status: StatusResponded, Rule: res.Rule, Response: res.Response}, nil
}

// EndConversation drops the dialogue state of a room.
func (a *Agent) EndConversation(ctx context.Context, roomID string) error {
	unlock := a.rooms.lock(roomID)
	defer unlock()
	return a.dialogues.Delete(ctx, roomID)
}
