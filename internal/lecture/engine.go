package lecture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cuckoo-ai/cuckoo/internal/conversation"
	"github.com/cuckoo-ai/cuckoo/internal/course"
	"github.com/cuckoo-ai/cuckoo/internal/dialogue"
	"github.com/cuckoo-ai/cuckoo/internal/learning"
	"github.com/cuckoo-ai/cuckoo/internal/logger"
	"github.com/cuckoo-ai/cuckoo/internal/quiz"
	"github.com/cuckoo-ai/cuckoo/internal/rewards"
)

// Status distinguishes the outcomes of Engine.Turn.
type Status int

const (
	// StatusResponded means Result.Response holds the reply.
	StatusResponded Status = iota

	// StatusNotFound means the message named a course the catalog does not
	// know. Nothing was sent and nothing changed.
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusResponded:
		return "responded"
	case StatusNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of one engine turn.
type Result struct {
	Status   Status
	Rule     Rule
	Response conversation.Response

	// State is the dialogue state to keep for the conversation.
	State dialogue.State
}

// Engine binds the decision chain to its collaborators.
type Engine struct {
	catalog course.Catalog
	records learning.Store
	history conversation.History
	hook    rewards.Hook
	decider *Decider
	cfg     Config
	log     *logger.Logger
	now     func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRand sets the random source used for quizzes and feedback draws.
func WithRand(rng quiz.Rand) Option {
	return func(e *Engine) { e.decider = NewDecider(e.cfg, rng) }
}

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRewardHook sets the hook notified on course completion.
func WithRewardHook(h rewards.Hook) Option {
	return func(e *Engine) { e.hook = h }
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates an engine. Without options it uses the system random
// source, wall clock time, no reward hook and a discarding logger.
func NewEngine(cfg Config, catalog course.Catalog, records learning.Store, history conversation.History, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		records: records,
		history: history,
		hook:    rewards.Noop{},
		cfg:     cfg,
		log:     logger.Nop(),
		now:     time.Now,
	}
	e.decider = NewDecider(cfg, nil)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eligible reports whether the engine should run for msg: it must name a
// course the learner has not completed yet.
func (e *Engine) Eligible(ctx context.Context, msg conversation.Message) (bool, error) {
	if msg.Content.CourseID == "" {
		return false, nil
	}
	rec, err := learning.Find(ctx, e.records, msg.UserID, msg.Content.CourseID)
	if err != nil {
		return false, fmt.Errorf("load learning record: %w", err)
	}
	return rec == nil || rec.Status != learning.StatusCompleted, nil
}

// Turn produces the reply to msg given the conversation's dialogue state.
// Collaborator failures abort the turn. A failing reward hook is logged and
// does not.
func (e *Engine) Turn(ctx context.Context, msg conversation.Message, state dialogue.State) (Result, error) {
	courseID := msg.Content.CourseID
	c, err := e.catalog.Course(ctx, courseID)
	if errors.Is(err, course.ErrNotFound) {
		e.log.Debug("course not found", "course", courseID, "room", msg.RoomID)
		return Result{Status: StatusNotFound, State: state}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("load course: %w", err)
	}

	rec, err := learning.Find(ctx, e.records, msg.UserID, courseID)
	if err != nil {
		return Result{}, fmt.Errorf("load learning record: %w", err)
	}

	recent, err := e.history.Recent(ctx, msg.RoomID, e.cfg.HistoryWindow)
	if err != nil {
		return Result{}, fmt.Errorf("load recent messages: %w", err)
	}

	d := e.decider.Decide(Turn{
		UserID: msg.UserID,
		Course: c,
		Record: rec,
		Text:   msg.Content.Text,
		Recent: recent,
		State:  state,
	}, e.now())

	e.log.Debug("lecture decision", "rule", d.Rule, "room", msg.RoomID, "course", courseID)

	if d.Record != nil {
		if err := e.records.UpdateRecord(ctx, *d.Record); err != nil {
			return Result{}, fmt.Errorf("update learning record: %w", err)
		}
	}

	if d.Completed {
		completion := rewards.Completion{
			UserID:   msg.UserID,
			CourseID: courseID,
			RecordID: d.Record.ID,
		}
		if d.Record.CompletedAt != nil {
			completion.CompletedAt = *d.Record.CompletedAt
		}
		if err := e.hook.CourseCompleted(ctx, completion); err != nil {
			e.log.Warn("reward hook failed", "user", msg.UserID, "course", courseID, "error", err)
		}
	}

	return Result{
		Status:   StatusResponded,
		Rule:     d.Rule,
		Response: conversation.Response{Text: d.Text, Action: conversation.ActionLecture},
		State:    d.State,
	}, nil
}
