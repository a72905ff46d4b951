package store

import (
	"context"
	"sort"
	"sync"

	"rokthona/internal/funding/models"
)

// MemoryStore keeps the ledger in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	funds []*models.Fund
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Append(_ context.Context, fund *models.Fund) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *fund
	m.funds = append(m.funds, &clone)
	return nil
}

func (m *MemoryStore) List(_ context.Context, page, limit int) ([]*models.Fund, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sorted := make([]*models.Fund, 0, len(m.funds))
	for _, fund := range m.funds {
		clone := *fund
		sorted = append(sorted, &clone)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	total := int64(len(sorted))
	if limit <= 0 {
		return sorted, total, nil
	}
	start := (page - 1) * limit
	if start < 0 || start >= len(sorted) {
		return []*models.Fund{}, total, nil
	}
	end := start + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end], total, nil
}

func (m *MemoryStore) Total(_ context.Context) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum float64
	for _, fund := range m.funds {
		sum += fund.Amount
	}
	return sum, nil
}
