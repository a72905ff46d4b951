package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"rokthona/internal/user/models"
	"rokthona/pkg/platform/sentinel"
)

// MemoryStore is an in-memory user directory keyed by email. It mirrors the
// Postgres store's semantics for tests and development.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemory() *MemoryStore {
	return &MemoryStore{users: make(map[string]*models.User)}
}

func (m *MemoryStore) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Email]; exists {
		return sentinel.ErrConflict
	}
	clone := *user
	m.users[user.Email] = &clone
	return nil
}

func (m *MemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (m *MemoryStore) UpdateProfile(_ context.Context, email string, profile models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return sentinel.ErrNotFound
	}
	user.Name = profile.Name
	user.BloodGroup = profile.BloodGroup
	user.District = profile.District
	user.Upazila = profile.Upazila
	user.AvatarURL = profile.AvatarURL
	return nil
}

func (m *MemoryStore) UpdateRole(_ context.Context, email string, role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return sentinel.ErrNotFound
	}
	user.Role = role
	return nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id uuid.UUID, status models.AccountStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			user.Status = status
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (m *MemoryStore) List(_ context.Context) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(*models.User) bool { return true }), nil
}

func (m *MemoryStore) ListByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(u *models.User) bool { return u.Role == role }), nil
}

func (m *MemoryStore) SearchDonors(_ context.Context, filter models.DonorFilter) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(u *models.User) bool {
		if u.Role != models.RoleDonor {
			return false
		}
		if filter.BloodGroup != "" && !strings.EqualFold(u.BloodGroup, filter.BloodGroup) {
			return false
		}
		if filter.District != "" && u.District != filter.District {
			return false
		}
		if filter.Upazila != "" && u.Upazila != filter.Upazila {
			return false
		}
		return true
	}), nil
}

func (m *MemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

// collect snapshots matching users sorted by email for deterministic output.
// Callers must hold at least the read lock.
func (m *MemoryStore) collect(match func(*models.User) bool) []*models.User {
	out := make([]*models.User, 0)
	for _, user := range m.users {
		if match(user) {
			clone := *user
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}
