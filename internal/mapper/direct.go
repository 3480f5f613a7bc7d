package mapper

import (
	"net/http"

	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

// DirectMapper handles first-party callers that already submit the canonical
// shape; it validates the mandatory fields and stamps the configured source.
type DirectMapper struct {
	Source string
}

func (m DirectMapper) Map(body []byte, headers http.Header) (*models.StandardWebhookPayload, error) {
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
		externalID = synthesizeExternalID(m.Source)
	}

	return &models.StandardWebhookPayload{
		Source:      m.Source,
		ExternalID:  externalID,
		UserID:      userID,
		WorkspaceID: getString(parsed, "workspace_id"),
		Message:     message,
		Metadata: map[string]any{
			"raw_payload": parsed,
			"context":     "conversation",
		},
	}, nil
}
