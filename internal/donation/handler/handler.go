// Package handler exposes the donation request lifecycle over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rokthona/internal/donation/models"
	"rokthona/internal/donation/service"
	"rokthona/internal/identity"
	"rokthona/internal/platform/middleware"
	"rokthona/internal/transport/http/shared"
	dErrors "rokthona/pkg/domain-errors"
)

// Service is the slice of the donation service the HTTP layer needs.
type Service interface {
	Create(ctx context.Context, requester identity.Principal, input service.CreateInput) (*models.DonationRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.DonationRequest, error)
	Confirm(ctx context.Context, donor identity.Principal, id uuid.UUID) (*models.DonationRequest, error)
	OverrideStatus(ctx context.Context, actor identity.Principal, id uuid.UUID, status models.Status) error
	ListByRequester(ctx context.Context, email string, filter models.ListFilter) (*models.Page, error)
	ListByDonor(ctx context.Context, email string) ([]*models.DonationRequest, error)
	ListPending(ctx context.Context) ([]*models.DonationRequest, error)
	List(ctx context.Context, filter models.ListFilter) (*models.Page, error)
}

type Handler struct {
	logger    *slog.Logger
	donations Service
}

func New(donations Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, donations: donations}
}

// Register wires the donation routes. Every route requires a verified
// caller; the listings that expose other people's data add role or self
// checks on top.
func (h *Handler) Register(r chi.Router, g middleware.Guards) {
	r.Group(func(r chi.Router) {
		r.Use(g.Auth())

		r.Post("/donation-requests", h.handleCreate)
		r.Get("/donation-requests/pending", h.handleListPending)
		r.Get("/donation-requests/{id}", h.handleGet)
		r.Patch("/donation-requests/{id}/confirm", h.handleConfirm)

		r.With(g.AdminOrVolunteer()).Patch("/donation-requests/{id}/status", h.handleOverrideStatus)
		r.With(g.Admin()).Get("/donation-requests", h.handleList)

		r.With(g.SelfQuery("email")).Get("/my-requests", h.handleListByRequester)
		r.With(g.SelfQuery("email")).Get("/my-donations", h.handleListByDonor)
	})
}

type createRequest struct {
	RecipientName string `json:"recipientName"`
	BloodGroup    string `json:"bloodGroup"`
	District      string `json:"district"`
	Upazila       string `json:"upazila"`
	Hospital      string `json:"hospital"`
	Address       string `json:"address"`
	Message       string `json:"message"`
	DonationDate  string `json:"donationDate"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	var donationDate time.Time
	if req.DonationDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.DonationDate)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", req.DonationDate)
		}
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "donationDate must be an RFC 3339 timestamp or YYYY-MM-DD"))
			return
		}
		donationDate = parsed
	}

	requester := middleware.GetPrincipal(ctx)
	request, err := h.donations.Create(ctx, requester, service.CreateInput{
		RecipientName: req.RecipientName,
		BloodGroup:    req.BloodGroup,
		District:      req.District,
		Upazila:       req.Upazila,
		Hospital:      req.Hospital,
		Address:       req.Address,
		Message:       req.Message,
		DonationDate:  donationDate,
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to create donation request",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, request)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid donation request ID"))
		return
	}

	request, err := h.donations.GetByID(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, request)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid donation request ID"))
		return
	}

	donor := middleware.GetPrincipal(ctx)
	request, err := h.donations.Confirm(ctx, donor, id)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to confirm donation request",
				"error", err,
				"donation_id", id.String(),
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, request)
}

type overrideStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleOverrideStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid donation request ID"))
		return
	}

	var req overrideStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	actor := middleware.GetPrincipal(ctx)
	if err := h.donations.OverrideStatus(ctx, actor, id, models.Status(req.Status)); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to override donation status",
				"error", err,
				"donation_id", id.String(),
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListByRequester(w http.ResponseWriter, r *http.Request) {
	page, err := h.donations.ListByRequester(r.Context(), r.URL.Query().Get("email"), parseFilter(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleListByDonor(w http.ResponseWriter, r *http.Request) {
	requests, err := h.donations.ListByDonor(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.donations.ListPending(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.donations.List(r.Context(), parseFilter(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, page)
}

func parseFilter(r *http.Request) models.ListFilter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.ListFilter{
		Status: models.Status(q.Get("status")),
		Page:   page,
		Limit:  limit,
	}
}
