// Package store persists the user directory.
package store

import (
	"context"

	"github.com/google/uuid"

	"rokthona/internal/user/models"
)

// Store is the user directory contract. Implementations return
// sentinel.ErrConflict for duplicate emails and sentinel.ErrNotFound for
// absent records.
type Store interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, profile models.Profile) error
	UpdateRole(ctx context.Context, email string, role models.Role) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error
	List(ctx context.Context) ([]*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	SearchDonors(ctx context.Context, filter models.DonorFilter) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
}
