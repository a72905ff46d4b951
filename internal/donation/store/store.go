// Package store persists donation requests.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rokthona/internal/donation/models"
)

// Store is the donation request persistence contract.
//
// Confirm is the single guarded transition: it must be an atomic conditional
// write keyed on (id, status == pending). When the condition matches nothing
// it returns sentinel.ErrInvalidState without distinguishing "already
// confirmed" from "never existed". That ambiguity is deliberate: it avoids
// a race between an existence check and the conditional update.
type Store interface {
	Create(ctx context.Context, request *models.DonationRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DonationRequest, error)
	Confirm(ctx context.Context, id uuid.UUID, donor models.Donor, confirmedAt time.Time) error
	SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	ListByRequester(ctx context.Context, email string, filter models.ListFilter) ([]*models.DonationRequest, int64, error)
	ListByDonor(ctx context.Context, email string) ([]*models.DonationRequest, error)
	ListPending(ctx context.Context) ([]*models.DonationRequest, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.DonationRequest, int64, error)
	Count(ctx context.Context) (int64, error)
}
