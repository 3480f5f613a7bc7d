// Package proxy implements the transparent pass-through namespaces
// (/mcp, /skills, /tasks). Requests are forwarded to the downstream service
// with their original method, body, query and headers, plus the trace id;
// they are capability pass-throughs, not reinterpreted by the gateway.
package proxy

import (
	"net/http"
	"strings"

	"github.com/bl1nk-platform/edge-gateway/internal/forwarder"
	"github.com/bl1nk-platform/edge-gateway/internal/httputil"
	"github.com/bl1nk-platform/edge-gateway/internal/metrics"
	"github.com/bl1nk-platform/edge-gateway/internal/reqctx"
)

// Proxy relays requests for a set of downstream namespaces.
type Proxy struct {
	forwarder   *forwarder.Forwarder
	maxBodySize int64
}

// New creates a pass-through proxy backed by the gateway's forwarder.
func New(f *forwarder.Forwarder, maxBodySize int64) *Proxy {
	return &Proxy{
		forwarder:   f,
		maxBodySize: maxBodySize,
	}
}

// Handler returns the HTTP handler for a proxied namespace.
func (p *Proxy) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc, err := reqctx.Build(r, p.maxBodySize)
		if err != nil {
			httputil.WriteGatewayError(w, r.Context(), err)
			return
		}

		metrics.ProxiedRequests.WithLabelValues(namespaceOf(r.URL.Path)).Inc()

		result, err := p.forwarder.ForwardRaw(r.Context(), r.Method, r.URL.Path, r.URL.RawQuery, rc.Body, rc.Headers, rc.ClientIP)
		if err != nil {
			httputil.WriteGatewayError(w, r.Context(), err)
			return
		}

		relayHeaders(w, result.Header)
		w.WriteHeader(result.StatusCode)
		w.Write(result.Body)
	})
}

func namespaceOf(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) > 0 {
		return segments[0]
	}
	return ""
}

// relayHeaders copies downstream response headers, leaving the gateway's own
// trace and CORS headers in place.
func relayHeaders(w http.ResponseWriter, header http.Header) {
	for key, values := range header {
		if w.Header().Get(key) != "" {
			continue
		}
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
}
