// Package store persists blog posts.
package store

import (
	"context"

	"github.com/google/uuid"

	"rokthona/internal/blog/models"
)

// Store is the blog persistence contract. List with an empty status returns
// every post, newest first.
type Store interface {
	Create(ctx context.Context, blog *models.Blog) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	List(ctx context.Context, status models.Status) ([]*models.Blog, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}
