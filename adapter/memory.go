package adapter

import (
	"context"
	"sync"
)

// MemoryAdapter keeps the token in process memory.
type MemoryAdapter struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemoryAdapter returns an empty in-memory adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{}
}

func (m *MemoryAdapter) Store(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = token, token != ""
	return nil
}

func (m *MemoryAdapter) Retrieve(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.set, nil
}

func (m *MemoryAdapter) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = "", false
	return nil
}

var _ TokenStorageAdapter = (*MemoryAdapter)(nil)
