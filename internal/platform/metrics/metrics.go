package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersRegistered    prometheus.Counter
	DonationsCreated   prometheus.Counter
	DonationsConfirmed prometheus.Counter
	ConfirmConflicts   prometheus.Counter
	AuthFailures       *prometheus.CounterVec
	RequestLatency     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rokthona_users_registered_total",
			Help: "Total number of user registrations",
		}),
		DonationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rokthona_donation_requests_created_total",
			Help: "Total number of donation requests created",
		}),
		DonationsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rokthona_donation_requests_confirmed_total",
			Help: "Total number of donation requests confirmed by a donor",
		}),
		ConfirmConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rokthona_donation_confirm_conflicts_total",
			Help: "Confirm attempts that lost the pending-state race or targeted a missing request",
		}),
		AuthFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rokthona_auth_failures_total",
			Help: "Authentication and authorization failures by stage",
		}, []string{"stage"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rokthona_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route, status).Observe(d.Seconds())
}

// IncAuthFailure counts a failure at the named pipeline stage
// (token, role, self).
func (m *Metrics) IncAuthFailure(stage string) {
	if m == nil {
		return
	}
	m.AuthFailures.WithLabelValues(stage).Inc()
}
