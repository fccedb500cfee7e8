// Package metrics holds Prometheus instruments used across the service.
// All collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebsitesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "website_requests_created_total",
			Help: "Cumulative number of website requests accepted.",
		})

	CreateConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "website_create_conflicts_total",
			Help: "Cumulative number of creations rejected for a duplicate name.",
		})

	StatusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "website_status_transitions_total",
			Help: "Cumulative number of applied status transitions by target status.",
		}, []string{"status"})

	PendingQueueSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "website_pending_queue_size",
			Help: "Pending requests seen by the most recent provisioner poll.",
		})

	EventPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "website_event_publish_errors_total",
			Help: "Cumulative number of lifecycle events that failed to publish.",
		})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(
		WebsitesCreatedTotal,
		CreateConflictsTotal,
		StatusTransitionsTotal,
		PendingQueueSize,
		EventPublishErrorsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
