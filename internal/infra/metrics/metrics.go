// Package metrics holds the Prometheus collectors, registered on the default
// registry that /metrics serves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitin",
		Name:      "records_created_total",
		Help:      "Reservations and walk-ins created, by kind.",
	}, []string{"kind"})

	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitin",
		Name:      "record_transitions_total",
		Help:      "Record status changes.",
	}, []string{"from", "to"})

	Rejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitin",
		Name:      "operation_rejections_total",
		Help:      "Operations refused by a business rule, by reason.",
	}, []string{"op", "reason"})

	PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sitin",
		Name:      "points_awarded_total",
		Help:      "Points given to students.",
	})

	PointConversions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sitin",
		Name:      "point_conversions_total",
		Help:      "Times three points were turned into a session.",
	})

	Resets = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitin",
		Name:      "resets_total",
		Help:      "Administrative resets, by type.",
	}, []string{"type"})

	RecordsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sitin",
		Name:      "records_removed_total",
		Help:      "Records deleted by resets.",
	})

	AutoLogouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sitin",
		Name:      "auto_logouts_total",
		Help:      "Active sessions closed by the auto-logout sweep.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitin",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sitin",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)
