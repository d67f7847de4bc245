package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry_Attempts(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	invalid := MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{down(), ok}, false, 2},
		{"all attempts fail", []MockResponse{down(), down(), down()}, true, 3},
		{"rate limit honors retry after", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, ok}, false, 2},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, true, 1},
		{"rejected not retried", []MockResponse{{Err: &ErrRejected{StatusCode: 401, Err: errors.New("bad key")}}, ok}, true, 1},
		{"invalid response not retried", []MockResponse{invalid, ok}, true, 1},
		{"refusal not retried", []MockResponse{{Err: &ErrRefused{Reason: "safety"}}, ok}, true, 1},
		{"plain network error is transient", []MockResponse{{Err: errors.New("connection reset")}, ok}, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, retryConfig())

			resp, err := p.Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(down(), down(), MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRetry(mock, retryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_Backoff(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}

	// ±20% jitter around the exponential curve, capped at MaxWait.
	assert.InDelta(t, float64(100*time.Millisecond), float64(r.backoff(0, errors.New("x"))), float64(20*time.Millisecond))
	assert.InDelta(t, float64(200*time.Millisecond), float64(r.backoff(1, errors.New("x"))), float64(40*time.Millisecond))
	assert.InDelta(t, float64(300*time.Millisecond), float64(r.backoff(5, errors.New("x"))), float64(60*time.Millisecond))
	assert.Equal(t, 2*time.Second, r.backoff(0, &ErrRateLimit{RetryAfter: 2 * time.Second}))
}

func TestRetry_Delegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig())
	assert.Equal(t, "mock", p.ModelID())
	assert.Equal(t, ProviderMock, p.Name())
}
