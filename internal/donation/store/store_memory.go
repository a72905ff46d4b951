package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rokthona/internal/donation/models"
	"rokthona/pkg/platform/sentinel"
)

// MemoryStore keeps donation requests in memory. The mutex gives Confirm the
// same check-and-set atomicity the Postgres conditional update provides.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*models.DonationRequest
}

func NewMemory() *MemoryStore {
	return &MemoryStore{requests: make(map[uuid.UUID]*models.DonationRequest)}
}

func (m *MemoryStore) Create(_ context.Context, request *models.DonationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *request
	m.requests[request.ID] = &clone
	return nil
}

func (m *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.DonationRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	request, ok := m.requests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *request
	return &clone, nil
}

// Confirm applies the guarded pending→inprogress transition. Status check
// and donor stamp happen under one lock acquisition, so of two concurrent
// confirms exactly one observes pending.
func (m *MemoryStore) Confirm(_ context.Context, id uuid.UUID, donor models.Donor, confirmedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	request, ok := m.requests[id]
	if !ok || request.Status != models.StatusPending {
		return sentinel.ErrInvalidState
	}

	request.Status = models.StatusInProgress
	request.DonorName = donor.Name
	request.DonorEmail = donor.Email
	request.DonorUID = donor.UID
	request.ConfirmedAt = &confirmedAt
	return nil
}

func (m *MemoryStore) SetStatus(_ context.Context, id uuid.UUID, status models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	request.Status = status
	return nil
}

func (m *MemoryStore) ListByRequester(_ context.Context, email string, filter models.ListFilter) ([]*models.DonationRequest, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := m.collect(func(r *models.DonationRequest) bool {
		return r.RequesterEmail == email && (filter.Status == "" || r.Status == filter.Status)
	})
	return page(matched, filter), int64(len(matched)), nil
}

func (m *MemoryStore) ListByDonor(_ context.Context, email string) ([]*models.DonationRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(r *models.DonationRequest) bool { return r.DonorEmail == email }), nil
}

func (m *MemoryStore) ListPending(_ context.Context) ([]*models.DonationRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(r *models.DonationRequest) bool { return r.Status == models.StatusPending }), nil
}

func (m *MemoryStore) List(_ context.Context, filter models.ListFilter) ([]*models.DonationRequest, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := m.collect(func(r *models.DonationRequest) bool {
		return filter.Status == "" || r.Status == filter.Status
	})
	return page(matched, filter), int64(len(matched)), nil
}

func (m *MemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.requests)), nil
}

// collect snapshots matching requests sorted by donation date, newest first.
// Callers must hold at least the read lock.
func (m *MemoryStore) collect(match func(*models.DonationRequest) bool) []*models.DonationRequest {
	out := make([]*models.DonationRequest, 0)
	for _, request := range m.requests {
		if match(request) {
			clone := *request
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DonationDate.After(out[j].DonationDate) })
	return out
}

func page(items []*models.DonationRequest, filter models.ListFilter) []*models.DonationRequest {
	if filter.Limit <= 0 {
		return items
	}
	start := (filter.Page - 1) * filter.Limit
	if start < 0 || start >= len(items) {
		return []*models.DonationRequest{}
	}
	end := start + filter.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
