package mapper

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

// mentionPattern matches Slack mention tokens like <@U12345> or <@BOT|name>.
var mentionPattern = regexp.MustCompile(`<@[^>]+>`)

// SlackMapper normalizes Slack Events API callbacks. The external id is
// composed from team, channel and event timestamp, which together identify a
// message uniquely within a workspace.
type SlackMapper struct{}

func (SlackMapper) Map(body []byte, headers http.Header) (*models.StandardWebhookPayload, error) {
	parsed, err := parseBody(body)
	if err != nil {
		return nil, err
	}

	event := getObject(parsed, "event")
	if event == nil {
		return nil, invalidPayload("missing field event")
	}

	userID := getString(event, "user")
	if userID == "" {
		return nil, invalidPayload("missing field event.user")
	}

	text := getString(event, "text")
	if text == "" {
		return nil, invalidPayload("missing field event.text")
	}

	teamID := getString(parsed, "team_id")
	channel := getString(event, "channel")
	ts := getString(event, "ts")

	externalID := ""
	if teamID != "" && channel != "" && ts != "" {
		externalID = teamID + "-" + channel + "-" + ts
	} else {
		externalID = synthesizeExternalID(models.SourceSlack)
	}

	return &models.StandardWebhookPayload{
		Source:      models.SourceSlack,
		ExternalID:  externalID,
		UserID:      userID,
		WorkspaceID: teamID,
		Message:     StripMentions(text),
		Metadata: map[string]any{
			"raw_payload": parsed,
			"context":     "conversation",
			"channel":     channel,
			"event_type":  getString(event, "type"),
		},
	}, nil
}

// StripMentions removes Slack mention tokens from message text. This is a
// documented Slack-specific transform, not a generic sanitizer: bot mentions
// are addressing noise, not content.
func StripMentions(text string) string {
	return strings.TrimSpace(mentionPattern.ReplaceAllString(text, ""))
}
