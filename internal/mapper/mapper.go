// Package mapper converts source-specific webhook wire formats into the
// canonical StandardWebhookPayload. Each supported source gets one Mapper
// variant; mapping is a pure function of the parsed body and headers.
package mapper

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

// Mapper normalizes one source's wire format into the canonical payload.
type Mapper interface {
	Map(body []byte, headers http.Header) (*models.StandardWebhookPayload, error)
}

func invalidPayload(message string) error {
	return models.NewGatewayError(models.ErrInvalidPayload, message)
}

// parseBody decodes the raw body into a generic JSON object.
func parseBody(body []byte) (map[string]any, error) {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, invalidPayload("malformed JSON body")
	}
	return parsed, nil
}

// getString returns the string value at key, or "" when absent or not a
// string.
func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// getObject returns the nested object at key, or nil.
func getObject(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	obj, _ := m[key].(map[string]any)
	return obj
}

// numToString renders a JSON number (decoded as float64) without a decimal
// point when it is integral, so numeric upstream ids stay readable.
func numToString(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		return n
	default:
		return ""
	}
}

// synthesizeExternalID builds a unique id for events whose upstream omits
// one, guaranteeing the non-empty invariant.
func synthesizeExternalID(source string) string {
	return fmt.Sprintf("%s-%d-%s", source, time.Now().UnixNano(), uuid.New().String()[:8])
}
