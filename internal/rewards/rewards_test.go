package rewards

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuckoo-ai/cuckoo/internal/logger"
)

type memLedgerStore struct {
	rewards []Reward
	err     error
}

func (m *memLedgerStore) HasReward(_ context.Context, userID, courseID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, r := range m.rewards {
		if r.UserID == userID && r.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLedgerStore) SaveReward(_ context.Context, r Reward) error {
	m.rewards = append(m.rewards, r)
	return nil
}

func TestLedger_AwardsOnce(t *testing.T) {
	ctx := context.Background()
	store := &memLedgerStore{}
	l := NewLedger(store, 0)

	done := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := Completion{UserID: "u1", CourseID: "c1", RecordID: "r1", CompletedAt: done}

	require.NoError(t, l.CourseCompleted(ctx, c))
	require.NoError(t, l.CourseCompleted(ctx, c))
	require.Len(t, store.rewards, 1)
	assert.Equal(t, DefaultCompletionPoints, store.rewards[0].Points)
	assert.Equal(t, done, store.rewards[0].AwardedAt)
	assert.NotEmpty(t, store.rewards[0].ID)

	require.NoError(t, l.CourseCompleted(ctx, Completion{UserID: "u1", CourseID: "c2"}))
	assert.Len(t, store.rewards, 2)
}

func TestLedger_StoreError(t *testing.T) {
	l := NewLedger(&memLedgerStore{err: errors.New("db down")}, 10)
	assert.Error(t, l.CourseCompleted(context.Background(), Completion{UserID: "u1", CourseID: "c1"}))
}

type failingHook struct{ calls int }

func (f *failingHook) CourseCompleted(context.Context, Completion) error {
	f.calls++
	return errors.New("boom")
}

func TestMulti_RunsAllHooks(t *testing.T) {
	first := &failingHook{}
	store := &memLedgerStore{}
	m := Multi{first, NewLedger(store, 5), Noop{}}

	err := m.CourseCompleted(context.Background(), Completion{UserID: "u1", CourseID: "c1"})
	assert.Error(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Len(t, store.rewards, 1)

	assert.NoError(t, Multi{}.CourseCompleted(context.Background(), Completion{}))
}

type recordingChannel struct {
	exchange, key string
	msg           amqp091.Publishing
	closed        bool
}

func (r *recordingChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	r.exchange, r.key, r.msg = exchange, key, msg
	return nil
}

func (r *recordingChannel) Close() error {
	r.closed = true
	return nil
}

func TestPublisher_PublishesCompletion(t *testing.T) {
	ch := &recordingChannel{}
	p := &Publisher{channel: ch, enabled: true, log: logger.Nop()}

	c := Completion{UserID: "u1", CourseID: "c1", RecordID: "r1", CompletedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, p.CourseCompleted(context.Background(), c))

	assert.Equal(t, ExchangeName, ch.exchange)
	assert.Equal(t, RoutingKeyCompleted, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, ch.msg.DeliveryMode)

	var ev CompletionEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &ev))
	assert.Equal(t, "u1:c1", ev.EventID)
	assert.Equal(t, c, ev.Data)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_Disabled(t *testing.T) {
	p, err := NewPublisher("", logger.Nop())
	require.NoError(t, err)
	assert.NoError(t, p.CourseCompleted(context.Background(), Completion{UserID: "u1"}))
	assert.NoError(t, p.Close())
}
