package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted by NewProvider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single drafting call, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for OpenAI compatible gateways
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // defaults to https://openrouter.ai/api/v1
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with the default model per provider.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-sonnet"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 2 * time.Minute,
	}
}

// envBinding ties one CUCKOO_ variable to a Config field.
type envBinding struct {
	name string
	set  func(*Config, string) error
}

func stringField(f func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*f(c) = v
		return nil
	}
}

var envBindings = []envBinding{
	{"CUCKOO_LLM_PROVIDER", stringField(func(c *Config) *string { return &c.Provider })},
	{"CUCKOO_ANTHROPIC_API_KEY", stringField(func(c *Config) *string { return &c.Anthropic.APIKey })},
	{"CUCKOO_ANTHROPIC_MODEL", stringField(func(c *Config) *string { return &c.Anthropic.Model })},
	{"CUCKOO_OPENAI_API_KEY", stringField(func(c *Config) *string { return &c.OpenAI.APIKey })},
	{"CUCKOO_OPENAI_MODEL", stringField(func(c *Config) *string { return &c.OpenAI.Model })},
	{"CUCKOO_OPENAI_BASE_URL", stringField(func(c *Config) *string { return &c.OpenAI.BaseURL })},
	{"CUCKOO_GEMINI_API_KEY", stringField(func(c *Config) *string { return &c.Gemini.APIKey })},
	{"CUCKOO_GEMINI_MODEL", stringField(func(c *Config) *string { return &c.Gemini.Model })},
	{"CUCKOO_OPENROUTER_API_KEY", stringField(func(c *Config) *string { return &c.OpenRouter.APIKey })},
	{"CUCKOO_OPENROUTER_MODEL", stringField(func(c *Config) *string { return &c.OpenRouter.Model })},
	{"CUCKOO_LLM_MAX_ATTEMPTS", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("must be a positive integer, got %q", v)
		}
		c.Retry.MaxAttempts = n
		return nil
	}},
	{"CUCKOO_LLM_TIMEOUT", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Timeout = d
		return nil
	}},
}

// ConfigFromEnv builds a Config from CUCKOO_ environment variables over the
// defaults. Unset variables keep their default.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		if err := b.set(&cfg, v); err != nil {
			return cfg, fmt.Errorf("%s: %w", b.name, err)
		}
	}
	return cfg, nil
}

// DiscoverConfig probes the vendors' standard API key variables in priority
// order (Anthropic, OpenAI, Gemini, OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key, envName string
	switch c.Provider {
	case ProviderAnthropic:
		key, envName = c.Anthropic.APIKey, "CUCKOO_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, envName = c.OpenAI.APIKey, "CUCKOO_OPENAI_API_KEY"
	case ProviderGemini:
		key, envName = c.Gemini.APIKey, "CUCKOO_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, envName = c.OpenRouter.APIKey, "CUCKOO_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", envName, c.Provider)
	}
	return nil
}
