package vault

import (
	"context"
	"fmt"
	"sync"
)

// MemoryVault is an in-memory implementation of the Vault interface, useful
// for testing. Safe for concurrent use.
type MemoryVault struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryVault() *MemoryVault {
	return &MemoryVault{objects: make(map[string][]byte)}
}

func (m *MemoryVault) Put(_ context.Context, name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[name] = stored
	return "memory://" + name, nil
}

func (m *MemoryVault) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[name]
	if !ok {
		return nil, fmt.Errorf("artifact not found: %s", name)
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

var _ Vault = (*MemoryVault)(nil)
