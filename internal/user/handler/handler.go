// Package handler exposes the user directory over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rokthona/internal/identity"
	"rokthona/internal/platform/middleware"
	"rokthona/internal/transport/http/shared"
	"rokthona/internal/user/models"
	"rokthona/internal/user/service"
	dErrors "rokthona/pkg/domain-errors"
)

// Service is the slice of the user service the HTTP layer needs.
type Service interface {
	Register(ctx context.Context, input service.RegisterInput) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, profile models.Profile) error
	SetRole(ctx context.Context, actor identity.Principal, targetEmail string, role models.Role) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error
	List(ctx context.Context) ([]*models.User, error)
	ListRecipients(ctx context.Context) ([]*models.User, error)
	SearchDonors(ctx context.Context, filter models.DonorFilter) ([]*models.User, error)
}

type Handler struct {
	logger *slog.Logger
	users  Service
}

func New(users Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, users: users}
}

// Register wires the user routes. Registration and donor search are public;
// everything else layers the authorization pipeline.
func (h *Handler) Register(r chi.Router, g middleware.Guards) {
	r.Post("/users", h.handleRegister)
	r.Get("/donors", h.handleSearchDonors)

	r.Group(func(r chi.Router) {
		r.Use(g.Auth())

		r.With(g.Self("email")).Get("/users/{email}", h.handleGetUser)
		r.With(g.Self("email")).Put("/users/{email}", h.handleUpdateProfile)
		r.Get("/recipients", h.handleListRecipients)

		r.With(g.Admin()).Get("/users", h.handleListUsers)
		r.With(g.Admin()).Put("/users/{email}/role", h.handleSetRole)
		r.With(g.Admin()).Patch("/users/{id}", h.handleUpdateStatus)
	})
}

type registerRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	BloodGroup string `json:"bloodGroup"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
	AvatarURL  string `json:"avatar"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	user, err := h.users.Register(ctx, service.RegisterInput{
		Email:      req.Email,
		Name:       req.Name,
		BloodGroup: req.BloodGroup,
		District:   req.District,
		Upazila:    req.Upazila,
		AvatarURL:  req.AvatarURL,
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to register user",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	email := chi.URLParam(r, "email")
	if err := h.users.UpdateProfile(r.Context(), email, profile); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	actor := middleware.GetPrincipal(ctx)
	target := chi.URLParam(r, "email")
	if err := h.users.SetRole(ctx, actor, target, models.Role(req.Role)); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to assign role",
				"error", err,
				"target", target,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid user ID"))
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	if err := h.users.UpdateStatus(r.Context(), id, models.AccountStatus(req.Status)); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) handleListRecipients(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.users.ListRecipients(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, recipients)
}

func (h *Handler) handleSearchDonors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	donors, err := h.users.SearchDonors(r.Context(), models.DonorFilter{
		BloodGroup: q.Get("bloodGroup"),
		District:   q.Get("district"),
		Upazila:    q.Get("upazila"),
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, donors)
}
