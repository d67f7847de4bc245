package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cuckoo-ai/cuckoo/internal/agent"
	"github.com/cuckoo-ai/cuckoo/internal/config"
	"github.com/cuckoo-ai/cuckoo/internal/dialogue"
	"github.com/cuckoo-ai/cuckoo/internal/lecture"
	"github.com/cuckoo-ai/cuckoo/internal/logger"
	"github.com/cuckoo-ai/cuckoo/internal/rewards"
	"github.com/cuckoo-ai/cuckoo/internal/store"
)

// env bundles what every command needs: configuration, a logger and the
// open store. close releases them in reverse order.
type env struct {
	cfg    config.Config
	log    *logger.Logger
	store  *store.Store
	dbPath string

	closers []func()
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// setup loads configuration (flags over env over .env over defaults),
// builds the logger and opens the store. With logToFile the log goes to
// cuckoo.log next to the database instead of stderr.
func setup(cmd *cobra.Command, logToFile bool) (*env, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if f := cmd.Flags().Lookup("redis"); f != nil && f.Changed {
		cfg.RedisURL = f.Value.String()
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = f.Value.String()
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	opts := logger.Options{Mode: cfg.LogMode, Level: cfg.LogLevel}
	if logToFile {
		opts.OutputPaths = []string{filepath.Join(filepath.Dir(dbPath), "cuckoo.log")}
	}
	log, err := logger.New(opts)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}

	e := &env{cfg: cfg, log: log, store: st, dbPath: dbPath}
	e.closers = append(e.closers, log.Sync, func() { st.Close() })
	return e, nil
}

// dialogueStore returns the Redis store when a Redis URL is configured and
// the in-process store otherwise.
func (e *env) dialogueStore(ctx context.Context) (dialogue.Store, error) {
	if e.cfg.RedisURL == "" {
		return dialogue.NewMemoryStore(), nil
	}
	opts, err := redis.ParseURL(e.cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	e.closers = append(e.closers, func() { client.Close() })
	e.log.Info("dialogue state in redis", "addr", opts.Addr, "ttl", e.cfg.DialogueTTL)
	return dialogue.NewRedisStore(client, e.cfg.DialogueTTL), nil
}

// rewardHook records completions in the ledger and, when an AMQP URI is
// configured, publishes them.
func (e *env) rewardHook() (rewards.Hook, error) {
	ledger := rewards.NewLedger(e.store.Rewards(), e.cfg.RewardPoints)
	if e.cfg.AMQPURI == "" {
		return ledger, nil
	}
	pub, err := rewards.NewPublisher(e.cfg.AMQPURI, e.log)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, func() { pub.Close() })
	return rewards.Multi{ledger, pub}, nil
}

// newAgent wires the lecture engine to the store behind the message
// pipeline.
func (e *env) newAgent(ctx context.Context) (*agent.Agent, error) {
	dialogues, err := e.dialogueStore(ctx)
	if err != nil {
		return nil, err
	}
	hook, err := e.rewardHook()
	if err != nil {
		return nil, err
	}

	engine := lecture.NewEngine(e.cfg.Lecture, e.store.Courses(), e.store.Records(), e.store.Messages(),
		lecture.WithRewardHook(hook),
		lecture.WithLogger(e.log),
	)
	return agent.New(engine, e.store.Messages(), dialogues,
		agent.WithAgentID(e.cfg.AgentID),
		agent.WithLogger(e.log),
	), nil
}
