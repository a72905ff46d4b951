// Package handler exposes the geographic reference data over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rokthona/internal/geo/models"
	"rokthona/internal/identity"
	"rokthona/internal/platform/middleware"
	"rokthona/internal/transport/http/shared"
	dErrors "rokthona/pkg/domain-errors"
)

// Service is the slice of the geo service the HTTP layer needs.
type Service interface {
	Seed(ctx context.Context, actor identity.Principal) error
	ListDistricts(ctx context.Context) ([]models.District, error)
	ListUpazilas(ctx context.Context) ([]models.Upazila, error)
	ListUpazilasByDistrict(ctx context.Context, districtID string) ([]models.Upazila, error)
}

type Handler struct {
	logger *slog.Logger
	geo    Service
}

func New(geo Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, geo: geo}
}

// Register wires the geo routes. Reads are public; seeding is admin-only.
func (h *Handler) Register(r chi.Router, g middleware.Guards) {
	r.Get("/api/districts", h.handleListDistricts)
	r.Get("/api/upazilas", h.handleListUpazilas)
	r.Get("/api/upazilas/{districtID}", h.handleListUpazilasByDistrict)

	r.Group(func(r chi.Router) {
		r.Use(g.Auth())
		r.With(g.Admin()).Post("/api/geo/seed", h.handleSeed)
	})
}

func (h *Handler) handleSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor := middleware.GetPrincipal(ctx)
	if err := h.geo.Seed(ctx, actor); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to seed reference data",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleListDistricts(w http.ResponseWriter, r *http.Request) {
	districts, err := h.geo.ListDistricts(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, districts)
}

func (h *Handler) handleListUpazilas(w http.ResponseWriter, r *http.Request) {
	upazilas, err := h.geo.ListUpazilas(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, upazilas)
}

func (h *Handler) handleListUpazilasByDistrict(w http.ResponseWriter, r *http.Request) {
	upazilas, err := h.geo.ListUpazilasByDistrict(r.Context(), chi.URLParam(r, "districtID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, upazilas)
}
