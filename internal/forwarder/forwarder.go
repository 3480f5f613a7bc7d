// Package forwarder issues the outbound call carrying a normalized payload
// to the downstream orchestration worker. The gateway performs no retries;
// retry and backoff are downstream responsibilities.
package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bl1nk-platform/edge-gateway/internal/metrics"
	"github.com/bl1nk-platform/edge-gateway/internal/middleware"
	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

// UserAgent identifies the gateway on downstream calls.
const UserAgent = "bl1nk-edge-gateway/" + Version

// Version of the gateway, stamped into the forwarding user agent and the
// health body.
const Version = "0.3.0"

// Result relays the downstream response verbatim.
type Result struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Forwarder posts normalized payloads to the downstream base URL with a
// bounded timeout and trace propagation.
type Forwarder struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a forwarder for the given downstream base URL. timeout bounds
// each outbound call via context cancellation.
func New(baseURL string, timeout time.Duration) *Forwarder {
	return &Forwarder{
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Forward posts payload to the downstream webhook ingestion path and relays
// the response. Transport failures and timeouts are translated into
// ServiceUnavailable; the downstream status is otherwise passed through
// untouched.
func (f *Forwarder) Forward(ctx context.Context, payload *models.StandardWebhookPayload, clientIP string) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	path := fmt.Sprintf("/webhook/%s", payload.Source)
	return f.send(ctx, http.MethodPost, path, "", body, header, payload.Source, clientIP)
}

// hopHeaders are connection-scoped and must not travel across the relay.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// ForwardRaw relays an arbitrary request to a downstream path unmodified:
// original method, body, query and headers, minus hop-by-hop headers. Used
// by the pass-through proxy namespaces.
func (f *Forwarder) ForwardRaw(ctx context.Context, method, path, rawQuery string, body []byte, header http.Header, clientIP string) (*Result, error) {
	relayed := http.Header{}
	for key, values := range header {
		for _, value := range values {
			relayed.Add(key, value)
		}
	}
	for _, key := range hopHeaders {
		relayed.Del(key)
	}
	relayed.Del("Host")
	relayed.Del("Content-Length")

	return f.send(ctx, method, path, rawQuery, body, relayed, "", clientIP)
}

// HealthURL returns the downstream liveness endpoint probed by maintenance.
func (f *Forwarder) HealthURL() string {
	return f.baseURL + "/health"
}

// Probe checks downstream reachability. Used by the maintenance loop and the
// detailed health endpoint.
func (f *Forwarder) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.HealthURL(), nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downstream unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("downstream unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (f *Forwarder) send(ctx context.Context, method, path, rawQuery string, body []byte, header http.Header, source, clientIP string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	targetURL := f.baseURL + path
	if rawQuery != "" {
		targetURL += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build downstream request: %w", err)
	}

	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	// Gateway propagation headers win over anything relayed.
	req.Header.Set("User-Agent", UserAgent)
	if traceID := middleware.GetTraceID(ctx); traceID != "" {
		req.Header.Set(middleware.TraceIDHeader, traceID)
	}
	if source != "" {
		req.Header.Set("X-Webhook-Source", source)
	}
	if clientIP != "" {
		req.Header.Set("X-Forwarded-For", clientIP)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	metrics.ForwardDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ForwardErrors.Inc()
		return nil, models.NewGatewayError(models.ErrServiceUnavailable,
			"downstream service unreachable or timed out")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ForwardErrors.Inc()
		return nil, models.NewGatewayError(models.ErrServiceUnavailable,
			"failed to read downstream response")
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Header:     resp.Header,
	}, nil
}
