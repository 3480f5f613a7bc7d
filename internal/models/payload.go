package models

import (
	"fmt"
)

// Source names recognized by the gateway. Each has a registered
// verifier/mapper variant in internal/sources.
const (
	SourcePoe      = "poe"
	SourceManus    = "manus"
	SourceSlack    = "slack"
	SourceGitHub   = "github"
	SourceInternal = "internal"
)

// StandardWebhookPayload is the canonical task-creation schema every
// source-specific wire format is normalized into before leaving the gateway.
// It is constructed once per inbound webhook and never mutated afterwards;
// enrichment produces a new value.
type StandardWebhookPayload struct {
	Source      string         `json:"source"`
	ExternalID  string         `json:"external_id"`
	UserID      string         `json:"user_id"`
	WorkspaceID string         `json:"workspace_id,omitempty"`
	Message     string         `json:"message"`
	Metadata    map[string]any `json:"metadata"`
}

// Validate checks the payload invariants: non-empty external_id and user_id,
// and a recognized source.
func (p *StandardWebhookPayload) Validate() error {
	if p.ExternalID == "" {
		return fmt.Errorf("external_id must not be empty")
	}
	if p.UserID == "" {
		return fmt.Errorf("user_id must not be empty")
	}
	switch p.Source {
	case SourcePoe, SourceManus, SourceSlack, SourceGitHub, SourceInternal:
		return nil
	default:
		return fmt.Errorf("unrecognized source %q", p.Source)
	}
}

// AckResponse is the outward-facing success envelope, relayed from the
// downstream orchestration worker.
type AckResponse struct {
	Status  string `json:"status"`
	TaskID  int    `json:"task_id,omitempty"`
	TraceID string `json:"trace_id"`
	Message string `json:"message"`
}

// ErrorResponse is the outward-facing failure envelope. Error carries a
// machine-readable kind from this package, Message a human explanation.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	TraceID string `json:"trace_id"`
}
