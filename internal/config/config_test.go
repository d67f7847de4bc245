package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default().Addr, cfg.Addr)
	assert.Equal(t, 5, cfg.Lecture.HistoryWindow)
	assert.Equal(t, 3, cfg.Lecture.QuizLookback)
	assert.Equal(t, 10, cfg.Lecture.FeedbackThreshold)
	assert.InDelta(t, 0.8, cfg.Lecture.FeedbackProbability, 1e-9)
	assert.Equal(t, 10, cfg.Lecture.ProgressStep)
	assert.False(t, cfg.Lecture.FixedQuizAnswer)
	assert.Equal(t, 24*time.Hour, cfg.DialogueTTL)
	assert.Empty(t, cfg.RedisURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CUCKOO_ADDR", ":9090")
	t.Setenv("CUCKOO_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("CUCKOO_DIALOGUE_TTL", "2h")
	t.Setenv("CUCKOO_HISTORY_WINDOW", "12")
	t.Setenv("CUCKOO_FEEDBACK_PROBABILITY", "0.5")
	t.Setenv("CUCKOO_FIXED_QUIZ_ANSWER", "true")
	t.Setenv("CUCKOO_LLM_PROVIDER", "mock")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.DialogueTTL)
	assert.Equal(t, 12, cfg.Lecture.HistoryWindow)
	assert.InDelta(t, 0.5, cfg.Lecture.FeedbackProbability, 1e-9)
	assert.True(t, cfg.Lecture.FixedQuizAnswer)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"CUCKOO_HISTORY_WINDOW", "five", "CUCKOO_HISTORY_WINDOW"},
		{"CUCKOO_HISTORY_WINDOW", "0", "at least 1"},
		{"CUCKOO_FEEDBACK_PROBABILITY", "1.5", "between 0 and 1"},
		{"CUCKOO_PROGRESS_STEP", "101", "between 1 and 100"},
		{"CUCKOO_FIXED_QUIZ_ANSWER", "maybe", "CUCKOO_FIXED_QUIZ_ANSWER"},
		{"CUCKOO_DIALOGUE_TTL", "soon", "CUCKOO_DIALOGUE_TTL"},
		{"CUCKOO_LOG_MODE", "verbose", "dev or prod"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CUCKOO_AGENT_ID=tutor\nCUCKOO_REWARD_POINTS=30\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("CUCKOO_AGENT_ID")
		os.Unsetenv("CUCKOO_REWARD_POINTS")
	})
	// Already set variables win over the file.
	t.Setenv("CUCKOO_REWARD_POINTS", "50")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tutor", cfg.AgentID)
	assert.Equal(t, 50, cfg.RewardPoints)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
