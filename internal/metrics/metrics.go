package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "community_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	registrationOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_registration_ops_total",
			Help: "Registration lifecycle operations by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	casConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_cas_conflicts_total",
			Help: "Version conflicts detected on compare-and-swap saves",
		},
		[]string{"aggregate"},
	)

	mirrorOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_mirror_ops_total",
			Help: "Registration index sync attempts by outcome",
		},
		[]string{"outcome"},
	)

	ratingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "community_note_ratings_total",
			Help: "Total number of note ratings recorded",
		},
	)

	dependencyHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "community_dependency_health",
			Help: "Health status of dependencies (1 = healthy, 0 = unhealthy)",
		},
		[]string{"dependency"},
	)
)

// RecordHTTPRequest records one served request. route is the chi pattern, not the raw path.
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordRegistrationOp(kind, outcome string) {
	registrationOpsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordCASConflict(aggregate string) {
	casConflictsTotal.WithLabelValues(aggregate).Inc()
}

func RecordMirror(outcome string) {
	mirrorOpsTotal.WithLabelValues(outcome).Inc()
}

func RecordRating() {
	ratingsTotal.Inc()
}

func SetDependencyHealth(dependency string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	dependencyHealth.WithLabelValues(dependency).Set(value)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
