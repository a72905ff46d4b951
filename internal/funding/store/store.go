// Package store persists the funding ledger.
package store

import (
	"context"

	"rokthona/internal/funding/models"
)

// Store is the ledger persistence contract. List pages newest first.
type Store interface {
	Append(ctx context.Context, fund *models.Fund) error
	List(ctx context.Context, page, limit int) ([]*models.Fund, int64, error)
	Total(ctx context.Context) (float64, error)
}
