package repos

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var ErrStateNotFound = errors.New("state not found")

// StateStore is per-session key/value storage for client state: the cart, the
// last-order snapshot, checkout stage and flash messages. Writes are last-write-wins.
type StateStore interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID, key string) error
}

// MemoryState keeps state in process memory. Used in tests and STATE_DRIVER=memory.
type MemoryState struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemoryState() *MemoryState {
	return &MemoryState{data: map[string]map[string][]byte{}}
}

func (m *MemoryState) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[sessionID][key]
	if !ok {
		return nil, ErrStateNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryState) Set(_ context.Context, sessionID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.data[sessionID]
	if !ok {
		// Callers may pass strings that alias a reused request buffer.
		sess = map[string][]byte{}
		m.data[strings.Clone(sessionID)] = sess
	}
	sess[strings.Clone(key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryState) Delete(_ context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[sessionID], key)
	return nil
}
