package identity

import (
	"context"
	"sync"
)

// MemoryClaimStore keeps role claims in process memory. Used in development
// and tests; a restart loses claims, so production wires Redis.
type MemoryClaimStore struct {
	mu    sync.RWMutex
	roles map[string]string
}

func NewMemoryClaimStore() *MemoryClaimStore {
	return &MemoryClaimStore{roles: make(map[string]string)}
}

func (m *MemoryClaimStore) SetRole(_ context.Context, uid, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[uid] = role
	return nil
}

// GetRole returns the stored role for uid, or "" when no claim is set.
func (m *MemoryClaimStore) GetRole(_ context.Context, uid string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roles[uid], nil
}
