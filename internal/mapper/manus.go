package mapper

import (
	"net/http"

	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

// ManusMapper normalizes Manus document-platform webhooks. Deliveries name a
// task and a prompt; older deliveries use external_id/message field names.
type ManusMapper struct{}

func (ManusMapper) Map(body []byte, headers http.Header) (*models.StandardWebhookPayload, error) {
	parsed, err := parseBody(body)
	if err != nil {
		return nil, err
	}

	userID := getString(parsed, "user_id")
	if userID == "" {
		return nil, invalidPayload("missing field user_id")
	}

	message := getString(parsed, "prompt")
	if message == "" {
		message = getString(parsed, "message")
	}
	if message == "" {
		return nil, invalidPayload("missing field prompt")
	}

	externalID := getString(parsed, "task_id")
	if externalID == "" {
		externalID = getString(parsed, "external_id")
	}
	if externalID == "" {
		externalID = synthesizeExternalID(models.SourceManus)
	}

	return &models.StandardWebhookPayload{
		Source:      models.SourceManus,
		ExternalID:  externalID,
		UserID:      userID,
		WorkspaceID: getString(parsed, "workspace_id"),
		Message:     message,
		Metadata: map[string]any{
			"raw_payload": parsed,
			"context":     "document",
		},
	}, nil
}
