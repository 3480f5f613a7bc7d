package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

// Recovery converts any panic escaping the pipeline into a structured
// InternalServerError envelope carrying the trace id, so callers never see an
// unstructured failure. It sits directly inside the TraceID middleware so the
// trace id is already on the request context when a panic is caught.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				traceID := GetTraceID(r.Context())
				slog.Error("panic recovered",
					slog.Any("panic", rec),
					slog.String("path", r.URL.Path),
					slog.String("trace_id", traceID),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(models.ErrorResponse{
					Error:   models.ErrInternalServerError,
					Message: "internal server error",
					TraceID: traceID,
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
