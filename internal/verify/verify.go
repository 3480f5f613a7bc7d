// Package verify implements per-source webhook authenticity checks. Each
// supported source gets one Verifier variant; the gateway selects it through
// the source registry. All signature comparisons use hmac.Equal so execution
// time does not depend on where two values first differ.
package verify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

// Verifier validates that a request genuinely originates from its source.
// Implementations hold the per-source secret material bound at construction.
// A secret-based verifier with no configured secret rejects every request,
// so missing configuration fails closed.
type Verifier interface {
	Verify(body []byte, headers http.Header) error
}

// hmacSHA256Hex computes the lowercase hex HMAC-SHA256 of message under key.
func hmacSHA256Hex(key []byte, message []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// equalConstantTime compares two signature strings without short-circuiting.
func equalConstantTime(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

func unauthorized(message string) error {
	return models.NewGatewayError(models.ErrUnauthorized, message)
}
