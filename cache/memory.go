package cache

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process Provider.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	v, ok, _ := m.GetContext(context.Background(), key)
	return v, ok
}

func (m *Memory) Set(key string, value []byte) {
	_ = m.SetContext(context.Background(), key, value)
}

func (m *Memory) GetContext(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	v, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (m *Memory) SetContext(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	m.entries[key] = slices.Clone(value)
	m.mu.Unlock()
	return nil
}

// Len is the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
