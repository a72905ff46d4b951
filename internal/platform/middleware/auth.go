package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"rokthona/internal/identity"
	"rokthona/internal/platform/metrics"
	"rokthona/internal/transport/http/shared"
	dErrors "rokthona/pkg/domain-errors"
)

// Verifier validates a bearer credential against the identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (identity.Principal, error)
}

type contextKeyPrincipal struct{}

// ContextKeyPrincipal is exported for use in handlers and tests.
var ContextKeyPrincipal = contextKeyPrincipal{}

// GetPrincipal retrieves the authenticated principal from the context.
// The zero Principal means the request never passed RequireAuth.
func GetPrincipal(ctx context.Context) identity.Principal {
	principal, ok := ctx.Value(ContextKeyPrincipal).(identity.Principal)
	if !ok {
		return identity.Principal{}
	}
	return principal
}

// ContextWithPrincipal is a test hook for exercising guarded handlers
// without minting tokens.
func ContextWithPrincipal(ctx context.Context, p identity.Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// RequireAuth verifies the Authorization header and attaches the resulting
// Principal to the request context. A missing or malformed header fails with
// 401 before the identity provider or any store is contacted; a present but
// rejected credential fails with 403.
func RequireAuth(verifier Verifier, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing bearer token",
					"request_id", GetRequestID(ctx),
				)
				m.IncAuthFailure("token")
				shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "unauthorized access"))
				return
			}

			principal, err := verifier.Verify(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "forbidden access - credential rejected",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				m.IncAuthFailure("token")
				shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "forbidden access"))
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(ctx, principal)))
		})
	}
}
