package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook ingestion metrics
	WebhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_webhooks_total",
			Help: "Total number of webhook requests received",
		},
		[]string{"source", "status"},
	)

	WebhookBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_webhook_bytes_total",
			Help: "Total bytes of webhook payload data received",
		},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"source"},
	)

	// Forwarding metrics
	ForwardDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gateway_forward_duration_seconds",
			Help:    "Duration of downstream forwarding calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ForwardErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_forward_errors_total",
			Help: "Total number of downstream forwarding failures",
		},
	)

	// Pass-through proxy metrics
	ProxiedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_proxied_requests_total",
			Help: "Total number of pass-through proxy requests",
		},
		[]string{"namespace"},
	)

	// Maintenance metrics
	DownstreamUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_downstream_up",
			Help: "Whether the downstream orchestration service is reachable (1) or not (0)",
		},
	)

	RateLimitRecordsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_rate_limit_records_pruned_total",
			Help: "Total number of expired rate-limit records pruned by maintenance",
		},
	)
)
