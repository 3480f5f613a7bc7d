package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bl1nk-platform/edge-gateway/internal/handlers"
	"github.com/bl1nk-platform/edge-gateway/internal/httputil"
	"github.com/bl1nk-platform/edge-gateway/internal/middleware"
	"github.com/bl1nk-platform/edge-gateway/internal/models"
	"github.com/bl1nk-platform/edge-gateway/internal/proxy"
)

// RouterConfig holds dependencies needed to configure routes.
type RouterConfig struct {
	WebhookHandler *handlers.WebhookHandler
	HealthHandler  *handlers.HealthHandler
	Proxy          *proxy.Proxy
	CORS           middleware.CORSConfig
}

// NewRouter constructs the gateway's dispatch tree. Dispatch is purely on
// path shape; method enforcement lives in the handlers so the error envelope
// stays uniform. The middleware chain is TraceID -> Recovery -> CORS, giving
// every response a trace id and the CORS header set from one place.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Webhook ingestion
	mux.HandleFunc("/webhook/{source}", cfg.WebhookHandler.HandleWebhook)
	mux.HandleFunc("/webhook/{source}/test", cfg.WebhookHandler.HandleTest)

	// Health endpoints
	mux.HandleFunc("/health", cfg.HealthHandler.Health)
	mux.HandleFunc("/health/detailed", cfg.HealthHandler.Detailed)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Transparent pass-throughs to the downstream orchestration service
	mux.Handle("/mcp/", cfg.Proxy.Handler())
	mux.Handle("/skills/", cfg.Proxy.Handler())
	mux.Handle("/tasks/", cfg.Proxy.Handler())

	// Everything else
	mux.HandleFunc("/", notFound)

	return middleware.TraceID(
		middleware.Recovery(
			middleware.CORS(cfg.CORS)(mux),
		),
	)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, r.Context(), models.ErrNotFound, "no route for "+r.URL.Path)
}
