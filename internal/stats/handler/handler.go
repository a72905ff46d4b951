// Package handler exposes the dashboard stats over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rokthona/internal/platform/middleware"
	"rokthona/internal/stats/service"
	"rokthona/internal/transport/http/shared"
	dErrors "rokthona/pkg/domain-errors"
)

// Service is the slice of the stats service the HTTP layer needs.
type Service interface {
	Summarize(ctx context.Context) (*service.Summary, error)
}

type Handler struct {
	logger *slog.Logger
	stats  Service
}

func New(stats Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, stats: stats}
}

// Register wires the two dashboard routes. Same payload, different gates:
// the admin dashboard and the volunteer dashboard each see the summary.
func (h *Handler) Register(r chi.Router, g middleware.Guards) {
	r.Group(func(r chi.Router) {
		r.Use(g.Auth())

		r.With(g.Admin()).Get("/admin/stats", h.handleSummary)
		r.With(g.Volunteer()).Get("/volunteers/stats", h.handleSummary)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.stats.Summarize(ctx)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to gather stats",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, summary)
}
