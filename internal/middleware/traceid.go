package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// TraceIDHeader is the header used to propagate trace ids to and from the
// gateway.
const TraceIDHeader = "X-Trace-ID"

type contextKey string

// TraceIDKey is the context key for trace ids.
const TraceIDKey = contextKey("trace-id")

// TraceID is a middleware that generates or propagates trace ids for request
// correlation. It honors an existing X-Trace-ID header and generates a fresh
// UUID otherwise. The trace id is echoed on the response header and stored in
// the request context so every pipeline stage and the downstream call can
// carry it.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		w.Header().Set(TraceIDHeader, traceID)

		ctx := context.WithValue(r.Context(), TraceIDKey, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTraceID extracts the trace id from the context.
// Returns empty string if not found.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}
