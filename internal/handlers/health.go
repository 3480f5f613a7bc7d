package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bl1nk-platform/edge-gateway/internal/forwarder"
	"github.com/bl1nk-platform/edge-gateway/internal/httputil"
	"github.com/bl1nk-platform/edge-gateway/internal/ratelimit"
)

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	forwarder *forwarder.Forwarder
	store     ratelimit.Store
}

// NewHealthHandler creates the health endpoints. store may be nil when rate
// limiting is disabled.
func NewHealthHandler(f *forwarder.Forwarder, store ratelimit.Store) *HealthHandler {
	return &HealthHandler{forwarder: f, store: store}
}

// Health answers GET /health with a static liveness body.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "edge-gateway",
		"version":   forwarder.Version,
	})
}

// Detailed answers GET /health/detailed with per-dependency status. The
// gateway stays "healthy" as long as it can serve; degraded dependencies are
// reported, not fatal.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	downstream := "healthy"
	if err := h.forwarder.Probe(ctx); err != nil {
		downstream = "unreachable"
	}

	store := "disabled"
	if h.store != nil {
		store = "healthy"
		if _, err := h.store.Get(ctx, "health_check"); err != nil {
			store = "unreachable"
		}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "edge-gateway",
		"version":   forwarder.Version,
		"dependencies": map[string]string{
			"downstream":       downstream,
			"rate_limit_store": store,
		},
	})
}
