// Package reqctx builds the typed per-request context every pipeline stage
// operates on. The context is constructed once per request, owned exclusively
// by that request's handling, and never mutated afterwards.
package reqctx

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bl1nk-platform/edge-gateway/internal/httputil"
	"github.com/bl1nk-platform/edge-gateway/internal/middleware"
	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

// SourceUnknown is assigned when the path does not name a webhook source.
const SourceUnknown = "unknown"

// RequestContext is the typed view of an inbound request: URL, method,
// headers, the body read exactly once, the trace id, the derived source name
// and the caller address.
type RequestContext struct {
	URL      *url.URL
	Method   string
	Headers  http.Header
	Body     []byte
	TraceID  string
	Source   string
	ClientIP string
}

// Build parses r into a RequestContext. The body is read only for methods
// that carry one and is bounded by maxBodySize: a declared Content-Length
// above the ceiling is rejected before any buffering, and the read itself is
// capped so a lying Content-Length cannot bypass the limit.
func Build(r *http.Request, maxBodySize int64) (*RequestContext, error) {
	rc := &RequestContext{
		URL:      r.URL,
		Method:   r.Method,
		Headers:  r.Header,
		TraceID:  middleware.GetTraceID(r.Context()),
		Source:   DeriveSource(r.URL.Path),
		ClientIP: httputil.GetClientIP(r),
	}

	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return rc, nil
	}

	if r.ContentLength > maxBodySize {
		return nil, models.NewGatewayError(models.ErrPayloadTooLarge,
			"request body exceeds maximum payload size")
	}

	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, models.NewGatewayError(models.ErrInvalidPayload,
			"failed to read request body")
	}

	if int64(len(body)) > maxBodySize {
		return nil, models.NewGatewayError(models.ErrPayloadTooLarge,
			"request body exceeds maximum payload size")
	}

	rc.Body = body
	return rc, nil
}

// DeriveSource returns the second path segment when the first is "webhook",
// e.g. "/webhook/slack" -> "slack". Any other shape yields SourceUnknown.
func DeriveSource(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) >= 2 && segments[0] == "webhook" && segments[1] != "" {
		return segments[1]
	}
	return SourceUnknown
}
