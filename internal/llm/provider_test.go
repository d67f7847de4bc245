package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuckoo-ai/cuckoo/internal/store"
)

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Err: &ErrRateLimit{}},
	)

	resp, err := mock.Generate(context.Background(), Request{System: "sys"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(resp.Content))
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, "end", resp.StopReason)

	_, err = mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail, "empty queue")

	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
}

func TestMockProvider_ScriptedStops(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"topic":`), StopReason: StopMaxTokens},
		MockResponse{StopReason: StopRefused, Refusal: "safety"},
		MockResponse{Content: json.RawMessage(`{"other":1}`)},
	)
	req := Request{Schema: topicSchema(), MaxTokens: 64}

	_, err := mock.Generate(context.Background(), req)
	var maxTok *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &maxTok)
	assert.Equal(t, 64, maxTok.Limit)

	_, err = mock.Generate(context.Background(), req)
	var refused *ErrRefused
	assert.ErrorAs(t, err, &refused)

	_, err = mock.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv, "canned replies are checked against the schema")
}

func TestLabelFrom(t *testing.T) {
	assert.Equal(t, Label{Purpose: "unknown"}, LabelFrom(context.Background()))

	ctx := WithLabel(context.Background(), Label{CourseID: "c1", Attempt: 2})
	assert.Equal(t, Label{Purpose: "unknown", CourseID: "c1", Attempt: 2}, LabelFrom(ctx))
}

type recordingEvents struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingEvents) RecentLLMRequests(context.Context, int) ([]store.LLMRequestEvent, error) {
	return nil, nil
}

func (r *recordingEvents) LLMRequest(context.Context, int64) (*store.LLMRequestEvent, error) {
	return nil, nil
}

func (r *recordingEvents) LLMUsage(context.Context) ([]store.ModelUsage, error) {
	return nil, nil
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	events := &recordingEvents{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"keyPoints":[]}`), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithLogging(mock, events, nil)

	ctx := WithLabel(context.Background(), Label{Purpose: PurposeCourseDraft, CourseID: "blockchain-101", Attempt: 1})
	req := Request{
		System:   "编写课程",
		Messages: []Message{{Role: RoleUser, Content: "讲义"}},
		Schema:   &Schema{Name: "test-log-draft", Definition: map[string]any{"type": "object"}},
	}

	_, err := p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(context.Background(), req)
	require.Error(t, err)

	require.Len(t, events.events, 2)
	ok := events.events[0]
	assert.Equal(t, ProviderMock, ok.Provider)
	assert.Equal(t, "mock", ok.Model)
	assert.Equal(t, PurposeCourseDraft, ok.Purpose)
	assert.True(t, ok.Success)
	assert.Equal(t, 7, ok.InputTokens)
	assert.Equal(t, `{"keyPoints":[]}`, ok.ResponseBody)
	assert.Contains(t, ok.RequestBody, "[system]\n编写课程")
	assert.Contains(t, ok.RequestBody, "[user]\n讲义")
	assert.Contains(t, ok.RequestBody, "[schema: test-log-draft]")

	failed := events.events[1]
	assert.Equal(t, "unknown", failed.Purpose)
	assert.False(t, failed.Success)
	assert.Equal(t, "boom", failed.ErrorMessage)
}

func TestLoggingProvider_KeepsRejectedContent(t *testing.T) {
	events := &recordingEvents{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"topic":"哈`), StopReason: StopMaxTokens},
		MockResponse{Content: json.RawMessage(`{"other":1}`)},
	)
	p := WithLogging(mock, events, nil)
	req := Request{Schema: topicSchema(), MaxTokens: 32}

	_, err := p.Generate(context.Background(), req)
	require.Error(t, err)
	_, err = p.Generate(context.Background(), req)
	require.Error(t, err)

	require.Len(t, events.events, 2)
	assert.Equal(t, `{"topic":"哈`, events.events[0].ResponseBody)
	assert.Contains(t, events.events[0].ErrorMessage, "truncated at 32 tokens")
	assert.Equal(t, `{"other":1}`, events.events[1].ResponseBody)
	assert.False(t, events.events[1].Success)
}

func TestLoggingProvider_EventFailureDoesNotFailRequest(t *testing.T) {
	events := &recordingEvents{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), events, nil)

	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestNewProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	cfg.Retry = retryConfig()

	p, err := NewProvider(context.Background(), cfg, &recordingEvents{}, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, p.Name())

	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or"
	p, err = NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenRouter, p.Name())
	assert.Equal(t, cfg.OpenRouter.Model, p.ModelID())

	cfg.Provider = ProviderAnthropic
	_, err = NewProvider(context.Background(), cfg, nil, nil)
	assert.ErrorContains(t, err, "CUCKOO_ANTHROPIC_API_KEY")

	cfg.Provider = "bard"
	_, err = NewProvider(context.Background(), cfg, nil, nil)
	assert.ErrorContains(t, err, "unknown LLM provider")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CUCKOO_LLM_PROVIDER", "openai")
	t.Setenv("CUCKOO_OPENAI_API_KEY", "sk-test")
	t.Setenv("CUCKOO_OPENAI_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("CUCKOO_LLM_MAX_ATTEMPTS", "5")
	t.Setenv("CUCKOO_LLM_TIMEOUT", "45s")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model, "unset keeps default")
	assert.Equal(t, "http://localhost:8080/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, "45s", cfg.Timeout.String())
	assert.NoError(t, cfg.Validate())

	t.Setenv("CUCKOO_LLM_MAX_ATTEMPTS", "zero")
	_, err = ConfigFromEnv()
	assert.ErrorContains(t, err, "CUCKOO_LLM_MAX_ATTEMPTS")
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("OPENROUTER_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "g", cfg.Gemini.APIKey)
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)

	c = LookupCost("google/gemini-2.0-flash-001")
	require.NotNil(t, c, "vendor prefix is stripped")
	assert.InDelta(t, 0.1, c.InputPerMTok, 1e-9)

	assert.Nil(t, LookupCost("mock"))
}
