package repository

import (
	"context"
	"sync"
	"time"

	"go-storefront/services"
)

type memEntry struct {
	value   []byte
	expires time.Time
}

func (e memEntry) live(now time.Time) bool {
	return e.expires.IsZero() || now.Before(e.expires)
}

// MemoryStore is a process-local stand-in for Redis, used when no Redis
// address is configured. It serves both as cart storage and idempotency
// store. Entries expire lazily on read.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]memEntry
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{data: map[string]memEntry{}, ttl: ttl, now: time.Now}
}

func (m *MemoryStore) get(key string) ([]byte, bool) {
	e, ok := m.data[key]
	if !ok {
		return nil, false
	}
	if !e.live(m.now()) {
		delete(m.data, key)
		return nil, false
	}
	return e.value, true
}

func (m *MemoryStore) set(key string, value []byte) {
	e := memEntry{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.data[key] = e
}

func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, _ := m.get(key)
	return v, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(key, data)
	return nil
}

func (m *MemoryStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := "idemp:" + scope + ":" + key
	if _, ok := m.get(k); ok {
		return false, nil
	}
	m.set(k, []byte("1"))
	return true, nil
}

func (m *MemoryStore) Remember(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set("idemp:map:"+scope+":"+key, []byte(value))
	return nil
}

func (m *MemoryStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.get("idemp:map:" + scope + ":" + key)
	return string(v), ok, nil
}

func (m *MemoryStore) Release(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, "idemp:"+scope+":"+key)
	return nil
}

var (
	_ services.CartStorage      = (*MemoryStore)(nil)
	_ services.IdempotencyStore = (*MemoryStore)(nil)
)
