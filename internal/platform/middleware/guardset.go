package middleware

import (
	"log/slog"
	"net/http"

	"rokthona/internal/platform/metrics"
)

// Guards bundles the composed authorization pipeline stages so handlers can
// gate their own routes without re-wiring dependencies. Every role guard
// produced here already assumes RequireAuth ran first.
type Guards struct {
	verifier Verifier
	resolver RoleResolver
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewGuards(verifier Verifier, resolver RoleResolver, logger *slog.Logger, m *metrics.Metrics) Guards {
	return Guards{verifier: verifier, resolver: resolver, logger: logger, metrics: m}
}

func (g Guards) Auth() func(http.Handler) http.Handler {
	return RequireAuth(g.verifier, g.logger, g.metrics)
}

func (g Guards) Admin() func(http.Handler) http.Handler {
	return RequireAdmin(g.resolver, g.logger, g.metrics)
}

func (g Guards) Volunteer() func(http.Handler) http.Handler {
	return RequireVolunteer(g.resolver, g.logger, g.metrics)
}

func (g Guards) AdminOrVolunteer() func(http.Handler) http.Handler {
	return RequireAdminOrVolunteer(g.resolver, g.logger, g.metrics)
}

func (g Guards) Self(param string) func(http.Handler) http.Handler {
	return RequireSelf(param, g.logger, g.metrics)
}

func (g Guards) SelfQuery(param string) func(http.Handler) http.Handler {
	return RequireSelfQuery(param, g.logger, g.metrics)
}
