// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_submissions_total",
			Help: "Total number of ticket submissions by outcome",
		},
		[]string{"outcome"},
	)

	PicksAcceptedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_picks_accepted_total",
			Help: "Total number of picks written",
		},
	)

	PicksSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_picks_skipped_total",
			Help: "Total number of picks dropped during validation",
		},
		[]string{"reason"},
	)

	AdminLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_logins_total",
			Help: "Admin login attempts by result",
		},
		[]string{"result"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
