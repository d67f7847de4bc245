package store

import (
	"context"
	"database/sql"
	"time"
)

// dbtx is satisfied by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentLLMRequests returns up to limit events, newest first.
	// Request and response bodies are not loaded.
	RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error)

	// LLMRequest returns one event with its bodies, or nil if seq is unknown.
	LLMRequest(ctx context.Context, seq int64) (*LLMRequestEvent, error)

	// LLMUsage totals token usage per provider and model.
	LLMUsage(ctx context.Context) ([]ModelUsage, error)
}

// ModelUsage aggregates the recorded requests of one model.
type ModelUsage struct {
	Provider     string
	Model        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// CourseSummary is a catalog listing entry.
type CourseSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Version   string    `json:"version"`
	KeyPoints int       `json:"keyPoints"`
	UpdatedAt time.Time `json:"updatedAt"`
}
