// Package service holds the user directory operations: self-registration,
// profile maintenance, donor search, and privileged role assignment.
package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"rokthona/internal/audit"
	"rokthona/internal/identity"
	"rokthona/internal/platform/metrics"
	"rokthona/internal/user/models"
	"rokthona/internal/user/store"
	dErrors "rokthona/pkg/domain-errors"
	"rokthona/pkg/email"
	"rokthona/pkg/platform/sentinel"
)

type Service struct {
	store    store.Store
	provider identity.Provider
	auditor  audit.Publisher
	metrics  *metrics.Metrics
}

func New(st store.Store, provider identity.Provider, auditor audit.Publisher, m *metrics.Metrics) *Service {
	return &Service{store: st, provider: provider, auditor: auditor, metrics: m}
}

// RegisterInput is the validated self-registration payload. Role is absent:
// every new account starts as a donor regardless of what the client sent.
type RegisterInput struct {
	Email      string
	Name       string
	BloodGroup string
	District   string
	Upazila    string
	AvatarURL  string
}

// Register creates a directory record on first sign-up. Duplicate emails are
// a conflict; the existing record is never touched.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	if input.Name == "" {
		input.Name = email.DisplayName(input.Email)
	}

	user := &models.User{
		ID:         uuid.New(),
		Email:      input.Email,
		Name:       input.Name,
		Role:       models.RoleDonor,
		Status:     models.StatusActive,
		BloodGroup: input.BloodGroup,
		District:   input.District,
		Upazila:    input.Upazila,
		AvatarURL:  input.AvatarURL,
		CreatedAt:  time.Now(),
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "user already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	if s.metrics != nil {
		s.metrics.UsersRegistered.Inc()
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:     audit.ActionUserCreated,
		ActorEmail: user.Email,
		Subject:    user.Email,
	})
	return user, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

// UpdateProfile replaces the self-editable fields of the record. Role and
// status cannot be reached through this path.
func (s *Service) UpdateProfile(ctx context.Context, email string, profile models.Profile) error {
	if err := s.store.UpdateProfile(ctx, email, profile); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
	}
	return nil
}

// ResolveRole implements the role lookup behind the authorization guards.
// Every call re-reads the directory so a role change applies on the next
// request. A missing record resolves to the empty role, which no guard
// accepts.
func (s *Service) ResolveRole(ctx context.Context, email string) (string, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return string(user.Role), nil
}

// SetRole performs the privileged two-phase role assignment. The identity
// provider's claim store is updated first; the directory write happens only
// after the claim update succeeds, so a token issued after this call always
// reflects a role the directory either already has or is about to get. Any
// leg failing surfaces as one combined failure.
func (s *Service) SetRole(ctx context.Context, actor identity.Principal, targetEmail string, role models.Role) error {
	if !role.Valid() {
		return dErrors.New(dErrors.CodeValidation, "unknown role")
	}
	if _, err := s.store.FindByEmail(ctx, targetEmail); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	providerUser, err := s.provider.LookupByEmail(ctx, targetEmail)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign role")
	}
	if err := s.provider.SetRoleClaim(ctx, providerUser.UID, string(role)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign role")
	}
	if err := s.store.UpdateRole(ctx, targetEmail, role); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign role")
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:     audit.ActionRoleChanged,
		ActorEmail: actor.Email,
		Subject:    targetEmail,
		Detail:     string(role),
	})
	return nil
}

// UpdateStatus sets the account status by record id (admin moderation).
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error {
	if !status.Valid() {
		return dErrors.New(dErrors.CodeValidation, "unknown account status")
	}
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

func (s *Service) ListRecipients(ctx context.Context) ([]*models.User, error) {
	users, err := s.store.ListByRole(ctx, models.RoleRecipient)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list recipients")
	}
	return users, nil
}

func (s *Service) SearchDonors(ctx context.Context, filter models.DonorFilter) ([]*models.User, error) {
	donors, err := s.store.SearchDonors(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search donors")
	}
	return donors, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
