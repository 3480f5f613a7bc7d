package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bl1nk-platform/edge-gateway/internal/forwarder"
	"github.com/bl1nk-platform/edge-gateway/internal/httputil"
	"github.com/bl1nk-platform/edge-gateway/internal/logging"
	"github.com/bl1nk-platform/edge-gateway/internal/metrics"
	"github.com/bl1nk-platform/edge-gateway/internal/models"
	"github.com/bl1nk-platform/edge-gateway/internal/ratelimit"
	"github.com/bl1nk-platform/edge-gateway/internal/reqctx"
	"github.com/bl1nk-platform/edge-gateway/internal/sources"
)

// WebhookHandler runs the ingestion pipeline for /webhook/{source}: context
// construction, rate-limit admission, signature verification, payload
// mapping and forwarding, strictly in that order. No verification cost is
// spent on rate-limited traffic and nothing unverified reaches the
// downstream worker.
type WebhookHandler struct {
	registry    *sources.Registry
	limiter     ratelimit.Limiter
	forwarder   *forwarder.Forwarder
	maxBodySize int64
	logger      *logging.Logger
}

// NewWebhookHandler wires the pipeline dependencies together.
func NewWebhookHandler(registry *sources.Registry, limiter ratelimit.Limiter, f *forwarder.Forwarder, maxBodySize int64, logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		registry:    registry,
		limiter:     limiter,
		forwarder:   f,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

// HandleWebhook ingests one webhook delivery.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		httputil.WriteError(w, ctx, models.ErrMethodNotAllowed, "webhook endpoints accept POST only")
		return
	}

	rc, err := reqctx.Build(r, h.maxBodySize)
	if err != nil {
		httputil.WriteGatewayError(w, ctx, err)
		return
	}

	// Admission check comes first: abusive traffic must not reach the
	// signature verifier.
	allowed, err := h.limiter.Allow(ctx, rc.ClientIP, rc.Source)
	if err != nil {
		// A broken limit store must not take the ingress path down with it.
		h.logger.WarnContext(ctx, "rate limit check failed, admitting request",
			logging.Error(err), logging.Source(rc.Source))
		allowed = true
	}
	if !allowed {
		metrics.WebhooksTotal.WithLabelValues(rc.Source, "rate_limited").Inc()
		httputil.WriteError(w, ctx, models.ErrRateLimitExceeded, "too many requests")
		return
	}

	src := h.registry.Find(rc.Source)
	if src == nil {
		metrics.WebhooksTotal.WithLabelValues(rc.Source, "unsupported").Inc()
		httputil.WriteError(w, ctx, models.ErrUnsupportedSource, "unsupported webhook source: "+rc.Source)
		return
	}

	if err := src.Verifier.Verify(rc.Body, rc.Headers); err != nil {
		metrics.WebhooksTotal.WithLabelValues(rc.Source, "unauthorized").Inc()
		h.logger.WarnContext(ctx, "webhook verification failed",
			logging.Source(rc.Source), logging.ClientIP(rc.ClientIP), logging.Error(err))
		httputil.WriteGatewayError(w, ctx, err)
		return
	}

	payload, err := src.Mapper.Map(rc.Body, rc.Headers)
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues(rc.Source, "invalid").Inc()
		httputil.WriteGatewayError(w, ctx, err)
		return
	}
	if err := payload.Validate(); err != nil {
		metrics.WebhooksTotal.WithLabelValues(rc.Source, "invalid").Inc()
		httputil.WriteError(w, ctx, models.ErrInvalidPayload, err.Error())
		return
	}

	metrics.WebhookBytesTotal.Add(float64(len(rc.Body)))

	result, err := h.forwarder.Forward(ctx, payload, rc.ClientIP)
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues(rc.Source, "forward_failed").Inc()
		h.logger.ErrorContext(ctx, "downstream forward failed",
			logging.Source(rc.Source), logging.ExternalID(payload.ExternalID), logging.Error(err))
		httputil.WriteGatewayError(w, ctx, err)
		return
	}

	metrics.WebhooksTotal.WithLabelValues(rc.Source, strconv.Itoa(result.StatusCode)).Inc()
	h.logger.InfoContext(ctx, "webhook forwarded",
		logging.Source(rc.Source),
		logging.ExternalID(payload.ExternalID),
		logging.UserID(payload.UserID),
		logging.Status(result.StatusCode),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.StatusCode)
	w.Write(result.Body)
}

// HandleTest answers GET /webhook/{source}/test with a connectivity probe
// body, so platform operators can confirm delivery wiring without sending a
// real event.
func (h *WebhookHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		httputil.WriteError(w, ctx, models.ErrMethodNotAllowed, "test endpoints accept GET only")
		return
	}

	source := reqctx.DeriveSource(r.URL.Path)
	if h.registry.Find(source) == nil {
		httputil.WriteError(w, ctx, models.ErrUnsupportedSource, "unsupported webhook source: "+source)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   "edge-gateway",
		"webhook":   source,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
