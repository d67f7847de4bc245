// Package config loads process settings from an optional .env file and
// CUCKOO_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/cuckoo-ai/cuckoo/internal/dialogue"
	"github.com/cuckoo-ai/cuckoo/internal/lecture"
	"github.com/cuckoo-ai/cuckoo/internal/llm"
	"github.com/cuckoo-ai/cuckoo/internal/rewards"
)

type Config struct {
	Addr     string // HTTP listen address
	GinMode  string
	LogMode  string // dev or prod
	LogLevel string

	// DBPath is empty when the default location should be used.
	DBPath string

	// RedisURL selects the Redis dialogue store. Empty keeps dialogue state
	// in process memory.
	RedisURL    string
	DialogueTTL time.Duration

	// AMQPURI enables publishing completion events. Empty disables it.
	AMQPURI      string
	RewardPoints int

	AgentID string

	Lecture lecture.Config
	LLM     llm.Config
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:         ":8080",
		GinMode:      "release",
		LogMode:      "dev",
		LogLevel:     "info",
		DialogueTTL:  dialogue.DefaultTTL,
		RewardPoints: rewards.DefaultCompletionPoints,
		AgentID:      "cuckoo",
		Lecture:      lecture.DefaultConfig(),
		LLM:          llm.DefaultConfig(),
	}
}

// Load reads envFile when it exists (a missing file is not an error), then
// builds the configuration from the environment. Variables already set in
// the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from CUCKOO_ variables over Default.
func FromEnv() (Config, error) {
	cfg := Default()
	p := parser{}

	p.str("CUCKOO_ADDR", &cfg.Addr)
	p.str("CUCKOO_GIN_MODE", &cfg.GinMode)
	p.str("CUCKOO_LOG_MODE", &cfg.LogMode)
	p.str("CUCKOO_LOG_LEVEL", &cfg.LogLevel)
	p.str("CUCKOO_DB", &cfg.DBPath)
	p.str("CUCKOO_REDIS_URL", &cfg.RedisURL)
	p.duration("CUCKOO_DIALOGUE_TTL", &cfg.DialogueTTL)
	p.str("CUCKOO_AMQP_URI", &cfg.AMQPURI)
	p.integer("CUCKOO_REWARD_POINTS", &cfg.RewardPoints)
	p.str("CUCKOO_AGENT_ID", &cfg.AgentID)

	p.integer("CUCKOO_HISTORY_WINDOW", &cfg.Lecture.HistoryWindow)
	p.integer("CUCKOO_QUIZ_LOOKBACK", &cfg.Lecture.QuizLookback)
	p.integer("CUCKOO_FEEDBACK_THRESHOLD", &cfg.Lecture.FeedbackThreshold)
	p.float("CUCKOO_FEEDBACK_PROBABILITY", &cfg.Lecture.FeedbackProbability)
	p.integer("CUCKOO_PROGRESS_STEP", &cfg.Lecture.ProgressStep)
	p.boolean("CUCKOO_FIXED_QUIZ_ANSWER", &cfg.Lecture.FixedQuizAnswer)

	if p.err != nil {
		return cfg, p.err
	}

	llmCfg, err := llm.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	cfg.LLM = llmCfg

	return cfg, cfg.Validate()
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Lecture.HistoryWindow < 1 {
		errs = append(errs, errors.New("CUCKOO_HISTORY_WINDOW must be at least 1"))
	}
	if c.Lecture.ProgressStep < 1 || c.Lecture.ProgressStep > 100 {
		errs = append(errs, errors.New("CUCKOO_PROGRESS_STEP must be between 1 and 100"))
	}
	if c.Lecture.FeedbackProbability < 0 || c.Lecture.FeedbackProbability > 1 {
		errs = append(errs, errors.New("CUCKOO_FEEDBACK_PROBABILITY must be between 0 and 1"))
	}
	if c.DialogueTTL < 0 {
		errs = append(errs, errors.New("CUCKOO_DIALOGUE_TTL must not be negative"))
	}
	switch c.LogMode {
	case "dev", "prod":
	default:
		errs = append(errs, fmt.Errorf("CUCKOO_LOG_MODE must be dev or prod, got %q", c.LogMode))
	}
	return errors.Join(errs...)
}

// parser keeps the first conversion error.
type parser struct {
	err error
}

func (p *parser) lookup(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != "" && p.err == nil
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.lookup(key); ok {
		*dst = v
	}
}

func (p *parser) integer(key string, dst *int) {
	if v, ok := p.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.err = fmt.Errorf("%s: %w", key, err)
			return
		}
		*dst = n
	}
}

func (p *parser) float(key string, dst *float64) {
	if v, ok := p.lookup(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.err = fmt.Errorf("%s: %w", key, err)
			return
		}
		*dst = f
	}
}

func (p *parser) boolean(key string, dst *bool) {
	if v, ok := p.lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.err = fmt.Errorf("%s: %w", key, err)
			return
		}
		*dst = b
	}
}

func (p *parser) duration(key string, dst *time.Duration) {
	if v, ok := p.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.err = fmt.Errorf("%s: %w", key, err)
			return
		}
		*dst = d
	}
}
