package server

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bl1nk-platform/edge-gateway/internal/config"
	"github.com/bl1nk-platform/edge-gateway/internal/forwarder"
	"github.com/bl1nk-platform/edge-gateway/internal/handlers"
	"github.com/bl1nk-platform/edge-gateway/internal/middleware"
	"github.com/bl1nk-platform/edge-gateway/internal/models"
	"github.com/bl1nk-platform/edge-gateway/internal/proxy"
	"github.com/bl1nk-platform/edge-gateway/internal/ratelimit"
	"github.com/bl1nk-platform/edge-gateway/internal/sources"
)

const githubSecret = "router-test-secret"

func newTestRouter(t *testing.T, downstreamURL string) http.Handler {
	t.Helper()

	registry := sources.Default(&config.WebhookConfig{
		Secrets: map[string]string{"github": githubSecret},
	})
	f := forwarder.New(downstreamURL, 2*time.Second)
	limiter := ratelimit.NewFixedWindowLimiter(ratelimit.NewMemoryStore(), 100, time.Minute)

	return NewRouter(RouterConfig{
		WebhookHandler: handlers.NewWebhookHandler(registry, limiter, f, 1<<20, nil),
		HealthHandler:  handlers.NewHealthHandler(f, nil),
		Proxy:          proxy.New(f, 1<<20),
		CORS: middleware.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		},
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://gateway.local/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://gateway.local/nope", nil))

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.ErrNotFound, resp.Error)
	assert.NotEmpty(t, resp.TraceID)
}

func TestRouter_Preflight(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodOptions, "http://gateway.local/webhook/github", nil)
	req.Header.Set("Origin", "https://dashboard.bl1nk.dev")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://dashboard.bl1nk.dev", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_WebhookDispatch(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhook/github", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"accepted","task_id":7}`))
	}))
	defer downstream.Close()

	router := newTestRouter(t, downstream.URL)

	body := []byte(`{"sender":{"login":"octocat"},"commits":[{"id":"c1","message":"fix bug"}]}`)
	mac := hmac.New(sha256.New, []byte(githubSecret))
	mac.Write(body)

	req := httptest.NewRequest(http.MethodPost, "http://gateway.local/webhook/github", bytes.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	req.Header.Set("X-GitHub-Event", "push")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "accepted")
}

func TestRouter_InboundTraceIDHonored(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "http://gateway.local/health", nil)
	req.Header.Set("X-Trace-ID", "upstream-trace-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "upstream-trace-1", w.Header().Get("X-Trace-ID"))
}

func TestRouter_TestEndpoint(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://gateway.local/webhook/github/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"webhook":"github"`)
}

func TestRouter_ProxyNamespaces(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(r.URL.Path))
	}))
	defer downstream.Close()

	router := newTestRouter(t, downstream.URL)

	for _, path := range []string{"/tasks/1", "/mcp/servers", "/skills/list"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://gateway.local"+path, nil))

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, path, w.Body.String(), path)
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://gateway.local/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
