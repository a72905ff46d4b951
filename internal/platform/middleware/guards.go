package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rokthona/internal/platform/metrics"
	"rokthona/internal/transport/http/shared"
	dErrors "rokthona/pkg/domain-errors"
)

// RoleResolver looks up the stored role for a principal's email. The lookup
// is deliberately uncached: a role change must take effect on the very next
// request. An empty role with nil error means no directory record exists.
type RoleResolver interface {
	ResolveRole(ctx context.Context, email string) (string, error)
}

const (
	roleAdmin     = "admin"
	roleVolunteer = "volunteer"
)

// RequireAdmin passes only principals whose stored role is admin.
func RequireAdmin(resolver RoleResolver, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return requireRoles(resolver, logger, m, roleAdmin)
}

// RequireVolunteer passes only principals whose stored role is volunteer.
func RequireVolunteer(resolver RoleResolver, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return requireRoles(resolver, logger, m, roleVolunteer)
}

// RequireAdminOrVolunteer passes principals holding either privileged role.
func RequireAdminOrVolunteer(resolver RoleResolver, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return requireRoles(resolver, logger, m, roleAdmin, roleVolunteer)
}

// requireRoles builds a guard that runs strictly after RequireAuth. Guards
// fail closed: a resolver error or a missing directory record is a 403,
// never an implicit allow.
func requireRoles(resolver RoleResolver, logger *slog.Logger, m *metrics.Metrics, allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal := GetPrincipal(ctx)
			if principal.Email == "" {
				logger.ErrorContext(ctx, "role guard reached without authenticated principal",
					"request_id", GetRequestID(ctx),
				)
				shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
				return
			}

			role, err := resolver.ResolveRole(ctx, principal.Email)
			if err != nil {
				logger.ErrorContext(ctx, "role resolution failed, denying",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				m.IncAuthFailure("role")
				shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "forbidden access"))
				return
			}

			for _, want := range allowed {
				if role == want {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.WarnContext(ctx, "forbidden access - insufficient role",
				"role", role,
				"request_id", GetRequestID(ctx),
			)
			m.IncAuthFailure("role")
			shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "forbidden access"))
		})
	}
}

// RequireSelf passes only when the email path parameter matches the
// authenticated principal's email.
func RequireSelf(param string, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return requireSelf(logger, m, func(r *http.Request) string {
		return chi.URLParam(r, param)
	})
}

// RequireSelfQuery is RequireSelf for routes that carry the email in a query
// parameter. A missing parameter is a validation failure, not a 403.
func RequireSelfQuery(param string, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return requireSelf(logger, m, func(r *http.Request) string {
		return r.URL.Query().Get(param)
	})
}

func requireSelf(logger *slog.Logger, m *metrics.Metrics, extract func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			email := extract(r)
			if email == "" {
				shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "email is required"))
				return
			}

			principal := GetPrincipal(ctx)
			if principal.Email == "" || principal.Email != email {
				logger.WarnContext(ctx, "forbidden access - self-only route",
					"request_id", GetRequestID(ctx),
				)
				m.IncAuthFailure("self")
				shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "forbidden access"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
