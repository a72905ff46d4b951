// Package service handles contributions: payment intent creation against the
// external gateway and the append-only ledger behind the funding page.
package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"rokthona/internal/audit"
	"rokthona/internal/funding/gateway"
	"rokthona/internal/funding/models"
	"rokthona/internal/funding/store"
	"rokthona/internal/identity"
	dErrors "rokthona/pkg/domain-errors"
)

const (
	minAmount    = 10
	currency     = "usd"
	defaultPage  = 1
	defaultLimit = 10
)

type Service struct {
	store   store.Store
	gateway gateway.PaymentGateway
	auditor audit.Publisher
}

func New(st store.Store, gw gateway.PaymentGateway, auditor audit.Publisher) *Service {
	return &Service{store: st, gateway: gw, auditor: auditor}
}

// CreateIntent opens a payment intent with the gateway and returns its client
// secret. Nothing is written to the ledger until the client reports the
// completed payment.
func (s *Service) CreateIntent(ctx context.Context, amount float64) (string, error) {
	if amount < minAmount {
		return "", dErrors.New(dErrors.CodeValidation, "amount must be at least 10")
	}

	cents := int64(math.Round(amount * 100))
	intent, err := s.gateway.CreateIntent(ctx, cents, currency)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create payment intent")
	}
	return intent.ClientSecret, nil
}

// RecordPayment appends a ledger row for a completed payment. Name and email
// come from the authenticated principal, not the body.
func (s *Service) RecordPayment(ctx context.Context, payer identity.Principal, amount float64, transactionID string) (*models.Fund, error) {
	if amount < minAmount {
		return nil, dErrors.New(dErrors.CodeValidation, "amount must be at least 10")
	}
	if transactionID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "transactionId is required")
	}

	fund := &models.Fund{
		ID:            uuid.New(),
		Name:          payer.Name,
		Email:         payer.Email,
		Amount:        amount,
		TransactionID: transactionID,
		Date:          time.Now(),
	}
	if err := s.store.Append(ctx, fund); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record payment")
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:     audit.ActionPaymentRecorded,
		ActorEmail: payer.Email,
		Subject:    transactionID,
	})
	return fund, nil
}

// List pages through the ledger, newest first.
func (s *Service) List(ctx context.Context, page, limit int) (*models.Page, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	funds, total, err := s.store.List(ctx, page, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list funds")
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &models.Page{Funds: funds, TotalPages: pages}, nil
}

// Total returns the sum of all contributions.
func (s *Service) Total(ctx context.Context) (float64, error) {
	return s.store.Total(ctx)
}
