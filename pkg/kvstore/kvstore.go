package kvstore

import (
	"errors"
	"sync"
)

var (
	ErrKeyEmpty    = errors.New("key is empty")
	ErrKeyNotFound = errors.New("key not found")
)

// Store is a small durable key-value surface. It deliberately exposes
// SetIfAbsent as a primitive: check-and-set callers (the reveal gate)
// must not be able to race between a Get and a Set.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// SetIfAbsent writes value only when key has no entry yet and
	// reports whether this call performed the write.
	SetIfAbsent(key string, value []byte) (bool, error)
	Delete(key string) error
	Close() error
}

// MemoryStore is a non-durable Store for tests and for running without
// a configured storage directory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	if key == "" {
		return ErrKeyEmpty
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *MemoryStore) SetIfAbsent(key string, value []byte) (bool, error) {
	if key == "" {
		return false, ErrKeyEmpty
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return true, nil
}

func (m *MemoryStore) Delete(key string) error {
	if key == "" {
		return ErrKeyEmpty
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
