package dialogue

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (m *MemoryStore) Load(_ context.Context, conversationID string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[conversationID], nil
}

func (m *MemoryStore) Save(_ context.Context, conversationID string, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state.IsZero() {
		delete(m.states, conversationID)
		return nil
	}
	m.states[conversationID] = state
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, conversationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, conversationID)
	return nil
}
