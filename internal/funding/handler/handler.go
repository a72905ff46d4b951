// Package handler exposes funding over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rokthona/internal/funding/models"
	"rokthona/internal/identity"
	"rokthona/internal/platform/middleware"
	"rokthona/internal/transport/http/shared"
	dErrors "rokthona/pkg/domain-errors"
)

// Service is the slice of the funding service the HTTP layer needs.
type Service interface {
	CreateIntent(ctx context.Context, amount float64) (string, error)
	RecordPayment(ctx context.Context, payer identity.Principal, amount float64, transactionID string) (*models.Fund, error)
	List(ctx context.Context, page, limit int) (*models.Page, error)
}

type Handler struct {
	logger  *slog.Logger
	funding Service
}

func New(funding Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, funding: funding}
}

// Register wires the funding routes. Paying requires authentication; reading
// the ledger requires an admin or volunteer.
func (h *Handler) Register(r chi.Router, g middleware.Guards) {
	r.Group(func(r chi.Router) {
		r.Use(g.Auth())

		r.Post("/create-payment-intent", h.handleCreateIntent)
		r.Post("/payments", h.handleRecordPayment)
		r.With(g.AdminOrVolunteer()).Get("/funds", h.handleList)
	})
}

type createIntentRequest struct {
	Amount float64 `json:"amount"`
}

type createIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

func (h *Handler) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	secret, err := h.funding.CreateIntent(ctx, req.Amount)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to create payment intent",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, createIntentResponse{ClientSecret: secret})
}

type recordPaymentRequest struct {
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	payer := middleware.GetPrincipal(ctx)
	fund, err := h.funding.RecordPayment(ctx, payer, req.Amount, req.TransactionID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to record payment",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, fund)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	funds, err := h.funding.List(r.Context(), page, limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, funds)
}
