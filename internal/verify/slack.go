package verify

import (
	"net/http"
	"strconv"
	"time"
)

const (
	slackSignatureHeader = "X-Slack-Signature"
	slackTimestampHeader = "X-Slack-Request-Timestamp"

	// slackReplayWindow bounds how long a captured signed request remains
	// reusable by an attacker.
	slackReplayWindow = 300 * time.Second
)

// SlackVerifier implements Slack's v0 signing scheme: HMAC-SHA256 over
// "v0:{timestamp}:{body}", formatted as "v0=<hex>", with a 300 second replay
// window on the request timestamp.
type SlackVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewSlackVerifier creates a verifier for the given signing secret.
func NewSlackVerifier(secret string) *SlackVerifier {
	return &SlackVerifier{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (v *SlackVerifier) Verify(body []byte, headers http.Header) error {
	if len(v.secret) == 0 {
		return unauthorized("no signing secret configured for slack")
	}

	signature := headers.Get(slackSignatureHeader)
	if signature == "" {
		return unauthorized("missing Slack signature header")
	}

	tsHeader := headers.Get(slackTimestampHeader)
	if tsHeader == "" {
		return unauthorized("missing Slack request timestamp")
	}

	ts, err := strconv.ParseInt(tsHeader, 10, 64)
	if err != nil {
		return unauthorized("malformed Slack request timestamp")
	}

	age := v.now().Unix() - ts
	if age > int64(slackReplayWindow.Seconds()) || age < -int64(slackReplayWindow.Seconds()) {
		return unauthorized("Slack request timestamp outside replay window")
	}

	base := "v0:" + tsHeader + ":" + string(body)
	expected := "v0=" + hmacSHA256Hex(v.secret, []byte(base))

	if !equalConstantTime(expected, signature) {
		return unauthorized("Slack signature mismatch")
	}
	return nil
}
