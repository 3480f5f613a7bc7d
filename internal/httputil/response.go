package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bl1nk-platform/edge-gateway/internal/middleware"
	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

// WriteJSON writes a JSON response with the given status code and data.
// It properly checks for encoding errors and logs them.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// WriteError writes a structured ErrorResponse for the given error kind.
// The HTTP status is derived from the kind and the trace id is taken from
// the request context.
func WriteError(w http.ResponseWriter, ctx context.Context, kind, message string) {
	WriteJSON(w, models.StatusForKind(kind), models.ErrorResponse{
		Error:   kind,
		Message: message,
		TraceID: middleware.GetTraceID(ctx),
	})
}

// WriteGatewayError writes the ErrorResponse for a pipeline error. Errors
// that are not GatewayError values are reported as InternalServerError.
func WriteGatewayError(w http.ResponseWriter, ctx context.Context, err error) {
	if gwErr, ok := err.(*models.GatewayError); ok {
		WriteError(w, ctx, gwErr.Kind, gwErr.Message)
		return
	}
	WriteError(w, ctx, models.ErrInternalServerError, "internal server error")
}
