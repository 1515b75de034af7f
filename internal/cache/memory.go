package cache

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in process memory. Used for tests and when no
// persistent backend is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := decodeEntry(m.data[key], m.data[TimestampKey(key)])
	return e, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = e.Payload
	m.data[TimestampKey(key)] = encodeTimestamp(e.StoredAt)
	return nil
}

// Len returns the number of raw fields held (two per entry).
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryStore) Close() error { return nil }
