package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned reply. StopReason defaults to StopEnd; set it to
// StopMaxTokens or StopRefused to script a truncated or refused draft.
type MockResponse struct {
	Content    json.RawMessage
	Usage      Usage
	StopReason string
	Refusal    string
	Err        error
}

// MockProvider replays canned responses in order and records every request.
// Replies pass through the same schema checks as a real backend, so a canned
// draft that does not match the request schema fails with ErrInvalidResponse.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider that replies with responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Name() string    { return ProviderMock }
func (m *MockProvider) ModelID() string { return "mock" }

// Generate returns the next canned reply, or ErrProviderUnavailable once
// the queue is drained.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}

	c := completion{
		text:    string(next.Content),
		stop:    next.StopReason,
		refusal: next.Refusal,
		usage:   next.Usage,
		model:   "mock",
	}
	if c.stop == "" {
		c.stop = StopEnd
	}
	return c.response(req)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
