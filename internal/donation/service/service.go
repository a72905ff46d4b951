// Package service implements the donation request lifecycle: creation,
// donor confirmation, and privileged status overrides.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rokthona/internal/audit"
	"rokthona/internal/donation/models"
	"rokthona/internal/donation/store"
	"rokthona/internal/identity"
	"rokthona/internal/platform/metrics"
	dErrors "rokthona/pkg/domain-errors"
	"rokthona/pkg/platform/sentinel"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type Service struct {
	store   store.Store
	auditor audit.Publisher
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func New(st store.Store, auditor audit.Publisher, m *metrics.Metrics) *Service {
	return &Service{
		store:   st,
		auditor: auditor,
		metrics: m,
		tracer:  otel.Tracer("rokthona/donation"),
	}
}

// CreateInput is the client-supplied part of a new request. Status is absent
// on purpose: every request starts pending no matter what the client sent.
type CreateInput struct {
	RecipientName string
	BloodGroup    string
	District      string
	Upazila       string
	Hospital      string
	Address       string
	Message       string
	DonationDate  time.Time
}

// Create opens a new donation request on behalf of the authenticated
// requester.
func (s *Service) Create(ctx context.Context, requester identity.Principal, input CreateInput) (*models.DonationRequest, error) {
	if input.RecipientName == "" || input.BloodGroup == "" || input.District == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "recipientName, bloodGroup and district are required")
	}
	if input.DonationDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "donationDate is required")
	}

	request := &models.DonationRequest{
		ID:             uuid.New(),
		RequesterEmail: requester.Email,
		RequesterName:  requester.Name,
		RecipientName:  input.RecipientName,
		BloodGroup:     input.BloodGroup,
		District:       input.District,
		Upazila:        input.Upazila,
		Hospital:       input.Hospital,
		Address:        input.Address,
		Message:        input.Message,
		DonationDate:   input.DonationDate,
		Status:         models.StatusPending,
		CreatedAt:      time.Now(),
	}

	if err := s.store.Create(ctx, request); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create donation request")
	}

	if s.metrics != nil {
		s.metrics.DonationsCreated.Inc()
	}
	return request, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.DonationRequest, error) {
	request, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "donation request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donation request")
	}
	return request, nil
}

// Confirm claims a pending request for the authenticated donor. The store's
// conditional write is the only arbiter: a request that is not pending at
// write time, for any reason, yields the same rejection.
func (s *Service) Confirm(ctx context.Context, donor identity.Principal, id uuid.UUID) (*models.DonationRequest, error) {
	ctx, span := s.tracer.Start(ctx, "donation.confirm", trace.WithAttributes(
		attribute.String("donation.id", id.String()),
	))
	defer span.End()

	stamp := models.Donor{Name: donor.Name, Email: donor.Email, UID: donor.UID}
	if err := s.store.Confirm(ctx, id, stamp, time.Now()); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			if s.metrics != nil {
				s.metrics.ConfirmConflicts.Inc()
			}
			span.SetStatus(codes.Error, "not pending")
			return nil, dErrors.New(dErrors.CodeBadRequest, "donation request already confirmed or missing")
		}
		span.SetStatus(codes.Error, "store failure")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to confirm donation request")
	}

	if s.metrics != nil {
		s.metrics.DonationsConfirmed.Inc()
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:     audit.ActionDonationConfirmed,
		ActorEmail: donor.Email,
		Subject:    id.String(),
	})

	request, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donation request")
	}
	return request, nil
}

// OverrideStatus is the unguarded privileged write: it sets any valid status
// without checking the current one. Authorization happens at the route.
func (s *Service) OverrideStatus(ctx context.Context, actor identity.Principal, id uuid.UUID, status models.Status) error {
	if !status.Valid() {
		return dErrors.New(dErrors.CodeValidation, "unknown donation status")
	}
	if err := s.store.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "donation request not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update donation request")
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:     audit.ActionStatusOverridden,
		ActorEmail: actor.Email,
		Subject:    id.String(),
		Detail:     string(status),
	})
	return nil
}

// ListByRequester pages through the caller's own requests, newest first.
func (s *Service) ListByRequester(ctx context.Context, email string, filter models.ListFilter) (*models.Page, error) {
	filter = normalize(filter)
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown donation status")
	}

	requests, total, err := s.store.ListByRequester(ctx, email, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donation requests")
	}
	return &models.Page{Requests: requests, TotalPages: totalPages(total, filter.Limit)}, nil
}

// ListByDonor returns the requests the donor has confirmed.
func (s *Service) ListByDonor(ctx context.Context, email string) ([]*models.DonationRequest, error) {
	requests, err := s.store.ListByDonor(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donation requests")
	}
	return requests, nil
}

// ListPending returns all open requests. This listing is public.
func (s *Service) ListPending(ctx context.Context) ([]*models.DonationRequest, error) {
	requests, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donation requests")
	}
	return requests, nil
}

// List pages through all requests regardless of owner (admin view).
func (s *Service) List(ctx context.Context, filter models.ListFilter) (*models.Page, error) {
	filter = normalize(filter)
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown donation status")
	}

	requests, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donation requests")
	}
	return &models.Page{Requests: requests, TotalPages: totalPages(total, filter.Limit)}, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

func normalize(filter models.ListFilter) models.ListFilter {
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	return filter
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
