package gateway

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postdeck_upstream_requests_total",
			Help: "Total number of requests sent to the posts API",
		},
		[]string{"operation", "status"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "postdeck_upstream_request_duration_seconds",
			Help:    "Duration of requests sent to the posts API in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	upstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postdeck_upstream_errors_total",
			Help: "Total number of failed requests to the posts API",
		},
		[]string{"operation", "kind"},
	)
)

// recordRequest stores the outcome of one upstream call. status is zero when no response arrived.
func recordRequest(op string, status int, duration time.Duration, err error) {
	statusLabel := "none"
	if status != 0 {
		statusLabel = strconv.Itoa(status)
	}
	upstreamRequestsTotal.WithLabelValues(op, statusLabel).Inc()
	upstreamRequestDuration.WithLabelValues(op).Observe(duration.Seconds())

	if err != nil {
		kind := "network"
		switch {
		case status >= 200 && status < 300:
			kind = "decode"
		case status != 0:
			kind = "status"
		}
		upstreamErrors.WithLabelValues(op, kind).Inc()
	}
}
