package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestTraceID(t *testing.T) {
	tests := []struct {
		name            string
		existingTraceID string
		expectNewID     bool
	}{
		{
			name:            "generates new trace ID when not present",
			existingTraceID: "",
			expectNewID:     true,
		},
		{
			name:            "propagates existing trace ID",
			existingTraceID: "existing-trace-123",
			expectNewID:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedTraceID string

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedTraceID = GetTraceID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "http://example.com/test", nil)
			if tt.existingTraceID != "" {
				req.Header.Set(TraceIDHeader, tt.existingTraceID)
			}

			w := httptest.NewRecorder()
			TraceID(handler).ServeHTTP(w, req)

			responseTraceID := w.Header().Get(TraceIDHeader)
			if responseTraceID == "" {
				t.Error("expected X-Trace-ID header in response")
			}
			if capturedTraceID == "" {
				t.Error("expected trace ID in context")
			}
			if responseTraceID != capturedTraceID {
				t.Errorf("response header %q doesn't match context %q", responseTraceID, capturedTraceID)
			}

			if tt.expectNewID {
				if _, err := uuid.Parse(capturedTraceID); err != nil {
					t.Errorf("expected valid UUID, got %q: %v", capturedTraceID, err)
				}
			} else {
				if capturedTraceID != tt.existingTraceID {
					t.Errorf("expected trace ID %q, got %q", tt.existingTraceID, capturedTraceID)
				}
			}
		})
	}
}

func TestTraceID_UniqueIDs(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := TraceID(handler)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest("GET", "http://example.com/test", nil)
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)

		traceID := w.Header().Get(TraceIDHeader)
		if traceID == "" {
			t.Fatal("expected trace ID in response")
		}
		if seen[traceID] {
			t.Errorf("duplicate trace ID generated: %s", traceID)
		}
		seen[traceID] = true
	}
}

func TestGetTraceID_EmptyContext(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.com/test", nil)
	if got := GetTraceID(req.Context()); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
