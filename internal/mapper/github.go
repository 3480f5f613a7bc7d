package mapper

import (
	"net/http"

	"github.com/bl1nk-platform/edge-gateway/internal/models"
)

const githubEventHeader = "X-GitHub-Event"

// GitHubMapper normalizes GitHub webhook deliveries. A delivery can take one
// of several shapes; the first matching shape wins, in fixed precedence
// order: pull request, then issue, then commit push, then a generic ref
// event keyed off the X-GitHub-Event header.
type GitHubMapper struct{}

func (GitHubMapper) Map(body []byte, headers http.Header) (*models.StandardWebhookPayload, error) {
	parsed, err := parseBody(body)
	if err != nil {
		return nil, err
	}

	eventType := headers.Get(githubEventHeader)
	sender := getObject(parsed, "sender")
	repo := getObject(parsed, "repository")

	userID := getString(sender, "login")
	if userID == "" {
		return nil, invalidPayload("missing field sender.login")
	}

	var externalID, message string
	switch {
	case getObject(parsed, "pull_request") != nil:
		pr := getObject(parsed, "pull_request")
		externalID = numToString(pr["id"])
		message = "PR: " + getString(pr, "title")

	case getObject(parsed, "issue") != nil:
		issue := getObject(parsed, "issue")
		externalID = numToString(issue["id"])
		message = "Issue: " + getString(issue, "title")

	case hasCommits(parsed):
		commits, _ := parsed["commits"].([]any)
		first, _ := commits[0].(map[string]any)
		externalID = getString(first, "id")
		if externalID == "" {
			externalID = getString(parsed, "after")
		}
		message = "Push: " + getString(first, "message")

	case getString(parsed, "ref") != "":
		if eventType == "" {
			return nil, models.NewGatewayError(models.ErrUnsupportedEventType,
				"unrecognized GitHub event shape")
		}
		externalID = getString(parsed, "after")
		message = "Event: " + eventType + " " + getString(parsed, "ref")

	default:
		return nil, models.NewGatewayError(models.ErrUnsupportedEventType,
			"unrecognized GitHub event shape")
	}

	if externalID == "" {
		externalID = synthesizeExternalID(models.SourceGitHub)
	}

	return &models.StandardWebhookPayload{
		Source:      models.SourceGitHub,
		ExternalID:  externalID,
		UserID:      userID,
		WorkspaceID: getString(repo, "full_name"),
		Message:     message,
		Metadata: map[string]any{
			"raw_payload": parsed,
			"context":     "repository",
			"event_type":  eventType,
		},
	}, nil
}

func hasCommits(parsed map[string]any) bool {
	commits, ok := parsed["commits"].([]any)
	return ok && len(commits) > 0
}
