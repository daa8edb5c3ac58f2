package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gitsync_webhook_requests_total",
			Help: "Total number of webhook requests, partitioned by outcome",
		},
		[]string{"outcome"},
	)

	webhookDenied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gitsync_webhook_denied_total",
			Help: "Total number of webhook requests rejected by the allowlist",
		},
	)

	webhookDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gitsync_webhook_request_duration_seconds",
			Help:    "Webhook request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)

	lastUpdate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gitsync_webhook_last_update_timestamp",
			Help: "Unix timestamp of the last applied hash update",
		},
		[]string{"namespace", "configmap"},
	)
)

// RequestHandled records the outcome and duration of one webhook request.
func RequestHandled(outcome string, start time.Time) {
	webhookRequests.WithLabelValues(outcome).Inc()
	webhookDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// RequestDenied counts a request rejected by the allowlist.
func RequestDenied() {
	webhookDenied.Inc()
}

// HashUpdated marks a successful annotation update on the given ConfigMap.
func HashUpdated(namespace, name string) {
	lastUpdate.WithLabelValues(namespace, name).SetToCurrentTime()
}
