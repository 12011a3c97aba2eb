package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "portal_http_requests_total", Help: "Total HTTP requests by route and status"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "portal_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	ModerationActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "portal_moderation_actions_total", Help: "Event submissions and moderation decisions"},
		[]string{"action"},
	)
	InteractionsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "portal_interactions_recorded_total", Help: "New applications, registrations and waitlist joins"},
		[]string{"type"},
	)
	SearchIndexFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "portal_search_index_failures_total", Help: "Catalog writes that could not be mirrored to the search index"},
	)
)

const (
	ActionSubmitted = "submitted"
	ActionApproved  = "approved"
	ActionRejected  = "rejected"
)

var once sync.Once

// Register is safe to call more than once; tests build several routers.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(HTTPRequests, HTTPDuration, ModerationActions, InteractionsRecorded, SearchIndexFailures)
	})
}
