package store

import (
	"context"
	"sync"
)

// MemorySlots is an in-process Slots used for ephemeral boards and tests.
type MemorySlots struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

// NewMemorySlots returns an empty MemorySlots.
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{values: map[string]string{}}
}

func (m *MemorySlots) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemorySlots) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes++
	return nil
}

// Writes returns how many times Set was called.
func (m *MemorySlots) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemorySlots) Close() error { return nil }
