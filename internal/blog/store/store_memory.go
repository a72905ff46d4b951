package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"rokthona/internal/blog/models"
	"rokthona/pkg/platform/sentinel"
)

// MemoryStore keeps blog posts in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	blogs map[uuid.UUID]*models.Blog
}

func NewMemory() *MemoryStore {
	return &MemoryStore{blogs: make(map[uuid.UUID]*models.Blog)}
}

func (m *MemoryStore) Create(_ context.Context, blog *models.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *blog
	m.blogs[blog.ID] = &clone
	return nil
}

func (m *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Blog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blog, ok := m.blogs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *blog
	return &clone, nil
}

func (m *MemoryStore) List(_ context.Context, status models.Status) ([]*models.Blog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Blog, 0)
	for _, blog := range m.blogs {
		if status == "" || blog.Status == status {
			clone := *blog
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) SetStatus(_ context.Context, id uuid.UUID, status models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	blog, ok := m.blogs[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	blog.Status = status
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blogs[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(m.blogs, id)
	return nil
}
