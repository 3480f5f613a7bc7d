package logging

import "log/slog"

// Common field names for consistent logging across the gateway.
const (
	FieldService  = "service"
	FieldTraceID  = "trace_id"
	FieldSource   = "source"
	FieldUserID   = "user_id"
	FieldClientIP = "client_ip"
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
	FieldDuration = "duration_ms"
	FieldError    = "error"
	FieldEventID  = "external_id"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// TraceID returns a slog attribute for the request trace id.
func TraceID(id string) slog.Attr {
	return slog.String(FieldTraceID, id)
}

// Source returns a slog attribute for the webhook source name.
func Source(name string) slog.Attr {
	return slog.String(FieldSource, name)
}

// UserID returns a slog attribute for the user ID.
func UserID(id string) slog.Attr {
	return slog.String(FieldUserID, id)
}

// ClientIP returns a slog attribute for the caller's IP address.
func ClientIP(ip string) slog.Attr {
	return slog.String(FieldClientIP, ip)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// ExternalID returns a slog attribute for a source-native event id.
func ExternalID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}
