package store

import (
	"context"
	"sync"

	"rokthona/internal/geo/models"
	"rokthona/pkg/platform/sentinel"
)

// MemoryStore keeps the reference data in memory, in seed order.
type MemoryStore struct {
	mu        sync.RWMutex
	districts []models.District
	upazilas  []models.Upazila
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Seed(_ context.Context, districts []models.District, upazilas []models.Upazila) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.districts) > 0 {
		return sentinel.ErrConflict
	}
	m.districts = append([]models.District(nil), districts...)
	m.upazilas = append([]models.Upazila(nil), upazilas...)
	return nil
}

func (m *MemoryStore) ListDistricts(_ context.Context) ([]models.District, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.District(nil), m.districts...), nil
}

func (m *MemoryStore) ListUpazilas(_ context.Context) ([]models.Upazila, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Upazila(nil), m.upazilas...), nil
}

func (m *MemoryStore) ListUpazilasByDistrict(_ context.Context, districtID string) ([]models.Upazila, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Upazila, 0)
	for _, u := range m.upazilas {
		if u.DistrictID == districtID {
			out = append(out, u)
		}
	}
	return out, nil
}
