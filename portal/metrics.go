package portal

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MetricsRegistry holds the portal client's Prometheus collectors.
	MetricsRegistry = prometheus.NewRegistry()

	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "viola",
			Subsystem: "portal",
			Name:      "requests_total",
			Help:      "Total gateway requests by resource, method and outcome.",
		},
		[]string{"resource", "method", "outcome"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "viola",
			Subsystem: "portal",
			Name:      "request_duration_seconds",
			Help:      "Gateway request duration.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"resource", "method"},
	)
)

func init() {
	MetricsRegistry.MustRegister(requestsTotal, requestDuration)
}

// MetricsHandler exposes the portal client collectors for scraping.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(MetricsRegistry, promhttp.HandlerOpts{})
}

func observe(resource, method, outcome string, start time.Time) {
	requestsTotal.WithLabelValues(resource, method, outcome).Inc()
	requestDuration.WithLabelValues(resource, method).Observe(time.Since(start).Seconds())
}
