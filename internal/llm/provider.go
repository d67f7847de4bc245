// Package llm is the model gateway used to draft courses. Backends for
// Anthropic, OpenAI, Gemini and OpenRouter share one reply path, so a draft
// that is truncated, refused or off-schema surfaces as the same typed error
// whichever backend produced it.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a structured reply for a Request.
type Provider interface {
	Name() string
	ModelID() string

	// Generate returns a reply whose Content satisfies req.Schema when one
	// is set. Truncated replies fail with *ErrMaxTokensExceeded, refusals
	// with *ErrRefused and off-schema replies with *ErrInvalidResponse.
	Generate(ctx context.Context, req Request) (*Response, error)
}

type Request struct {
	System   string
	Messages []Message

	// Schema, when set, is passed to the backend's structured output mode
	// and checked again locally. Without it Content is the raw text.
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 leaves the backend default
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Schema is a named JSON Schema. Names are cache keys, so each name must
// always carry the same definition.
type Schema struct {
	Name        string // kebab-case, e.g. "course-draft"
	Description string
	Definition  map[string]any
}

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string // the model that served the request
	StopReason string // always StopEnd; other stops are errors
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
