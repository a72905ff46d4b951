// Package handler exposes blog posts over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rokthona/internal/blog/models"
	"rokthona/internal/blog/service"
	"rokthona/internal/identity"
	"rokthona/internal/platform/middleware"
	"rokthona/internal/transport/http/shared"
	dErrors "rokthona/pkg/domain-errors"
)

// Service is the slice of the blog service the HTTP layer needs.
type Service interface {
	Create(ctx context.Context, author identity.Principal, input service.CreateInput) (*models.Blog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	List(ctx context.Context, status models.Status) ([]*models.Blog, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	Delete(ctx context.Context, actor identity.Principal, id uuid.UUID) error
}

type Handler struct {
	logger *slog.Logger
	blogs  Service
}

func New(blogs Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, blogs: blogs}
}

// Register wires the blog routes. Reads are public; writes require an
// admin or volunteer, deletion an admin.
func (h *Handler) Register(r chi.Router, g middleware.Guards) {
	r.Get("/blogs", h.handleList)
	r.Get("/blogs/{id}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(g.Auth())

		r.With(g.AdminOrVolunteer()).Post("/blogs", h.handleCreate)
		r.With(g.AdminOrVolunteer()).Patch("/blogs/{id}/status", h.handleSetStatus)
		r.With(g.Admin()).Delete("/blogs/{id}", h.handleDelete)
	})
}

type createRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	ThumbnailURL string `json:"thumbnail"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	author := middleware.GetPrincipal(ctx)
	blog, err := h.blogs.Create(ctx, author, service.CreateInput{
		Title:        req.Title,
		Content:      req.Content,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to create blog",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, blog)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context(), models.Status(r.URL.Query().Get("status")))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, blogs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid blog ID"))
		return
	}

	blog, err := h.blogs.GetByID(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, blog)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid blog ID"))
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	if err := h.blogs.SetStatus(r.Context(), id, models.Status(req.Status)); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid blog ID"))
		return
	}

	actor := middleware.GetPrincipal(ctx)
	if err := h.blogs.Delete(ctx, actor, id); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to delete blog",
				"error", err,
				"blog_id", id.String(),
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
