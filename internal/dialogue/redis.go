package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long an idle conversation keeps its state.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "dialogue:"

// RedisStore keeps dialogue state in Redis as JSON, one key per
// conversation. Every save refreshes the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store over client. A non-positive ttl uses
// DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context, conversationID string) (State, error) {
	data, err := r.client.Get(ctx, keyPrefix+conversationID).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("load dialogue state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode dialogue state: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, conversationID string, state State) error {
	if state.IsZero() {
		return r.Delete(ctx, conversationID)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode dialogue state: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+conversationID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save dialogue state: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, conversationID string) error {
	if err := r.client.Del(ctx, keyPrefix+conversationID).Err(); err != nil {
		return fmt.Errorf("delete dialogue state: %w", err)
	}
	return nil
}
