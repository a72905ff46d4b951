// Package httptransport assembles the HTTP surface: the shared middleware
// chain, the feature routers, and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bloghandler "rokthona/internal/blog/handler"
	donationhandler "rokthona/internal/donation/handler"
	fundinghandler "rokthona/internal/funding/handler"
	geohandler "rokthona/internal/geo/handler"
	"rokthona/internal/platform/metrics"
	"rokthona/internal/platform/middleware"
	statshandler "rokthona/internal/stats/handler"
	"rokthona/internal/transport/http/shared"
	userhandler "rokthona/internal/user/handler"
)

const requestTimeout = 30 * time.Second

// Deps carries everything the router mounts.
type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Guards  middleware.Guards

	Users     *userhandler.Handler
	Donations *donationhandler.Handler
	Blogs     *bloghandler.Handler
	Geo       *geohandler.Handler
	Funding   *fundinghandler.Handler
	Stats     *statshandler.Handler
}

// NewRouter builds the full application router. Middleware order matters:
// recovery wraps everything, the request id must exist before logging, and
// latency needs the route pattern chi resolves during dispatch.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	deps.Users.Register(r, deps.Guards)
	deps.Donations.Register(r, deps.Guards)
	deps.Blogs.Register(r, deps.Guards)
	deps.Geo.Register(r, deps.Guards)
	deps.Funding.Register(r, deps.Guards)
	deps.Stats.Register(r, deps.Guards)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
