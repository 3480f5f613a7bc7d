package forwarder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bl1nk-platform/edge-gateway/internal/middleware"
	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

func TestForwarder_Forward(t *testing.T) {
	var gotPath, gotTrace, gotSource, gotXFF, gotUA string
	var gotPayload models.StandardWebhookPayload

	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTrace = r.Header.Get("X-Trace-ID")
		gotSource = r.Header.Get("X-Webhook-Source")
		gotXFF = r.Header.Get("X-Forwarded-For")
		gotUA = r.Header.Get("User-Agent")
		json.NewDecoder(r.Body).Decode(&gotPayload)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"accepted","task_id":42,"message":"queued"}`))
	}))
	defer downstream.Close()

	f := New(downstream.URL, 5*time.Second)

	payload := &models.StandardWebhookPayload{
		Source:     models.SourcePoe,
		ExternalID: "evt-1",
		UserID:     "u-1",
		Message:    "hello",
		Metadata:   map[string]any{"context": "conversation"},
	}

	ctx := context.WithValue(context.Background(), middleware.TraceIDKey, "trace-xyz")
	result, err := f.Forward(ctx, payload, "203.0.113.7")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, string(result.Body), "accepted")
	assert.Equal(t, "/webhook/poe", gotPath)
	assert.Equal(t, "trace-xyz", gotTrace)
	assert.Equal(t, "poe", gotSource)
	assert.Equal(t, "203.0.113.7", gotXFF)
	assert.Equal(t, UserAgent, gotUA)
	assert.Equal(t, "evt-1", gotPayload.ExternalID)
	assert.Equal(t, "u-1", gotPayload.UserID)
}

func TestForwarder_DownstreamStatusPassedThrough(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"duplicate external_id"}`))
	}))
	defer downstream.Close()

	f := New(downstream.URL, 5*time.Second)

	payload := &models.StandardWebhookPayload{
		Source:     models.SourceSlack,
		ExternalID: "T1-C1-1",
		UserID:     "U1",
	}

	result, err := f.Forward(context.Background(), payload, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, result.StatusCode)
}

func TestForwarder_Timeout(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer downstream.Close()

	f := New(downstream.URL, 50*time.Millisecond)

	payload := &models.StandardWebhookPayload{
		Source:     models.SourcePoe,
		ExternalID: "evt-1",
		UserID:     "u-1",
	}

	_, err := f.Forward(context.Background(), payload, "")
	require.Error(t, err)

	var gwErr *models.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, models.ErrServiceUnavailable, gwErr.Kind)
}

func TestForwarder_Unreachable(t *testing.T) {
	f := New("http://127.0.0.1:1", 100*time.Millisecond)

	_, err := f.ForwardRaw(context.Background(), http.MethodGet, "/tasks/1", "", nil, nil, "")
	require.Error(t, err)

	var gwErr *models.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, models.ErrServiceUnavailable, gwErr.Kind)
}

func TestForwarder_ForwardRaw(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotBody string

	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.WriteHeader(http.StatusOK)
	}))
	defer downstream.Close()

	f := New(downstream.URL, 5*time.Second)

	result, err := f.ForwardRaw(context.Background(), http.MethodPut, "/tasks/9", "status=done", []byte(`{"status":"done"}`), nil, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/tasks/9", gotPath)
	assert.Equal(t, "status=done", gotQuery)
	assert.Equal(t, `{"status":"done"}`, gotBody)
}

func TestForwarder_ForwardRaw_RelaysHeaders(t *testing.T) {
	var gotHeader http.Header

	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer downstream.Close()

	f := New(downstream.URL, 5*time.Second)

	header := http.Header{}
	header.Set("Authorization", "Bearer caller-token")
	header.Set("Accept", "text/event-stream")
	header.Set("Content-Type", "application/x-ndjson")
	header.Set("Connection", "keep-alive")
	header.Set("Transfer-Encoding", "chunked")
	header.Set("User-Agent", "some-client/1.0")

	_, err := f.ForwardRaw(context.Background(), http.MethodPost, "/mcp/run", "", []byte("line1\nline2"), header, "")
	require.NoError(t, err)

	// Original end-to-end headers travel through untouched.
	assert.Equal(t, "Bearer caller-token", gotHeader.Get("Authorization"))
	assert.Equal(t, "text/event-stream", gotHeader.Get("Accept"))
	assert.Equal(t, "application/x-ndjson", gotHeader.Get("Content-Type"))

	// Hop-by-hop headers stop at the gateway.
	assert.Empty(t, gotHeader.Get("Transfer-Encoding"))
	assert.NotEqual(t, "keep-alive", gotHeader.Get("Connection"))

	// The gateway identifies itself on the wire.
	assert.Equal(t, UserAgent, gotHeader.Get("User-Agent"))
}

func TestForwarder_Forward_PostsJSON(t *testing.T) {
	var gotContentType string

	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer downstream.Close()

	f := New(downstream.URL, 5*time.Second)

	payload := &models.StandardWebhookPayload{
		Source:     models.SourcePoe,
		ExternalID: "evt-1",
		UserID:     "u-1",
	}

	_, err := f.Forward(context.Background(), payload, "")
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
}

func TestForwarder_Probe(t *testing.T) {
	t.Run("healthy downstream", func(t *testing.T) {
		downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer downstream.Close()

		f := New(downstream.URL, time.Second)
		assert.NoError(t, f.Probe(context.Background()))
	})

	t.Run("5xx is unhealthy", func(t *testing.T) {
		downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer downstream.Close()

		f := New(downstream.URL, time.Second)
		assert.Error(t, f.Probe(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		f := New("http://127.0.0.1:1", 100*time.Millisecond)
		assert.Error(t, f.Probe(context.Background()))
	})
}
