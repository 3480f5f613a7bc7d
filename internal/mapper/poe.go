package mapper

import (
	"net/http"

	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

// PoeMapper normalizes Poe chat webhooks, which already arrive close to the
// canonical shape: external_id, user_id and message are mandatory,
// conversation_id is optional context.
type PoeMapper struct{}

func (PoeMapper) Map(body []byte, headers http.Header) (*models.StandardWebhookPayload, error) {
	parsed, err := parseBody(body)
	if err != nil {
		return nil, err
	}

	userID := getString(parsed, "user_id")
	if userID == "" {
		return nil, invalidPayload("missing field user_id")
	}

	message := getString(parsed, "message")
	if message == "" {
		return nil, invalidPayload("missing field message")
	}

	externalID := getString(parsed, "external_id")
	if externalID == "" {
		externalID = synthesizeExternalID(models.SourcePoe)
	}

	return &models.StandardWebhookPayload{
		Source:     models.SourcePoe,
		ExternalID: externalID,
		UserID:     userID,
		Message:    message,
		Metadata: map[string]any{
			"raw_payload":     parsed,
			"context":         "conversation",
			"conversation_id": getString(parsed, "conversation_id"),
		},
	}, nil
}
