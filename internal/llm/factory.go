package llm

import (
	"context"
	"fmt"

	"github.com/cuckoo-ai/cuckoo/internal/logger"
	"github.com/cuckoo-ai/cuckoo/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped so that every
// attempt is recorded in events and transient failures are retried. A nil
// events repo skips the event log.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller -> retry -> logging -> base
	if events != nil {
		base = WithLogging(base, events, log)
	}
	return WithRetry(base, cfg.Retry), nil
}
