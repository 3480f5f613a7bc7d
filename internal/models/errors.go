package models

import "net/http"

// Machine-readable error kinds carried in ErrorResponse.Error.
const (
	ErrPayloadTooLarge      = "PayloadTooLarge"
	ErrMethodNotAllowed     = "MethodNotAllowed"
	ErrUnauthorized         = "Unauthorized"
	ErrInvalidPayload       = "InvalidPayload"
	ErrUnsupportedSource    = "UnsupportedSource"
	ErrUnsupportedEventType = "UnsupportedEventType"
	ErrRateLimitExceeded    = "RateLimitExceeded"
	ErrNotFound             = "NotFound"
	ErrServiceUnavailable   = "ServiceUnavailable"
	ErrInternalServerError  = "InternalServerError"
)

// StatusForKind maps an error kind to its HTTP status code.
func StatusForKind(kind string) int {
	switch kind {
	case ErrPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrInvalidPayload:
		return http.StatusBadRequest
	case ErrUnsupportedSource:
		return http.StatusNotFound
	case ErrUnsupportedEventType:
		return http.StatusBadRequest
	case ErrRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrNotFound:
		return http.StatusNotFound
	case ErrServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GatewayError pairs an error kind with a human-readable message so handlers
// can surface a structured ErrorResponse from any pipeline stage.
type GatewayError struct {
	Kind    string
	Message string
}

func (e *GatewayError) Error() string {
	return e.Kind + ": " + e.Message
}

// NewGatewayError builds a GatewayError for the given kind.
func NewGatewayError(kind, message string) *GatewayError {
	return &GatewayError{Kind: kind, Message: message}
}
