package httputil

import (
	"net/http"
	"strings"
)

// GetClientIP extracts the best available caller-identifying address from
// request headers. It handles proxy scenarios by checking headers in this
// order:
//  1. X-Forwarded-For (extracts first/client IP from comma-separated list)
//  2. X-Real-IP (single IP from reverse proxy)
//  3. RemoteAddr (direct connection)
//
// Example X-Forwarded-For: "203.0.113.195, 70.41.3.18, 150.172.238.178"
// Returns: "203.0.113.195" (the original client)
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs: "client, proxy1, proxy2"
		// We want the first (client) IP
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
