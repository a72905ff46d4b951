// Package store persists geographic reference data.
package store

import (
	"context"

	"rokthona/internal/geo/models"
)

// Store is the reference data persistence contract. Seed is all-or-nothing:
// it returns sentinel.ErrConflict without writing anything when the store
// already holds districts.
type Store interface {
	Seed(ctx context.Context, districts []models.District, upazilas []models.Upazila) error
	ListDistricts(ctx context.Context) ([]models.District, error)
	ListUpazilas(ctx context.Context) ([]models.Upazila, error)
	ListUpazilasByDistrict(ctx context.Context, districtID string) ([]models.Upazila, error)
}
