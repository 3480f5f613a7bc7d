package verify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func slackSign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestSlackVerifier_Verify(t *testing.T) {
	const secret = "slack-signing-secret"
	body := []byte(`{"event":{"type":"app_mention","text":"hello"}}`)
	now := time.Unix(1690000000, 0)

	tests := []struct {
		name      string
		timestamp string
		signature string
		wantErr   bool
	}{
		{
			name:      "valid signature inside window",
			timestamp: strconv.FormatInt(now.Unix(), 10),
			signature: slackSign(secret, strconv.FormatInt(now.Unix(), 10), body),
			wantErr:   false,
		},
		{
			name:      "valid signature near window edge",
			timestamp: strconv.FormatInt(now.Unix()-299, 10),
			signature: slackSign(secret, strconv.FormatInt(now.Unix()-299, 10), body),
			wantErr:   false,
		},
		{
			name:      "correct signature but timestamp too old",
			timestamp: strconv.FormatInt(now.Unix()-301, 10),
			signature: slackSign(secret, strconv.FormatInt(now.Unix()-301, 10), body),
			wantErr:   true,
		},
		{
			name:      "correct signature but timestamp too far in future",
			timestamp: strconv.FormatInt(now.Unix()+301, 10),
			signature: slackSign(secret, strconv.FormatInt(now.Unix()+301, 10), body),
			wantErr:   true,
		},
		{
			name:      "wrong secret",
			timestamp: strconv.FormatInt(now.Unix(), 10),
			signature: slackSign("other-secret", strconv.FormatInt(now.Unix(), 10), body),
			wantErr:   true,
		},
		{
			name:      "missing signature",
			timestamp: strconv.FormatInt(now.Unix(), 10),
			signature: "",
			wantErr:   true,
		},
		{
			name:      "missing timestamp",
			timestamp: "",
			signature: slackSign(secret, "", body),
			wantErr:   true,
		},
		{
			name:      "non-numeric timestamp",
			timestamp: "not-a-number",
			signature: slackSign(secret, "not-a-number", body),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewSlackVerifier(secret)
			v.now = func() time.Time { return now }

			headers := http.Header{}
			if tt.signature != "" {
				headers.Set("X-Slack-Signature", tt.signature)
			}
			if tt.timestamp != "" {
				headers.Set("X-Slack-Request-Timestamp", tt.timestamp)
			}

			err := v.Verify(body, headers)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSlackVerifier_NoSecretRejectsAll(t *testing.T) {
	body := []byte(`{"event":{"type":"message"}}`)
	now := time.Unix(1690000000, 0)
	ts := strconv.FormatInt(now.Unix(), 10)

	v := NewSlackVerifier("")
	v.now = func() time.Time { return now }

	// A signature computed with the empty key must not be accepted.
	headers := http.Header{}
	headers.Set("X-Slack-Signature", slackSign("", ts, body))
	headers.Set("X-Slack-Request-Timestamp", ts)

	if err := v.Verify(body, headers); err == nil {
		t.Error("verifier without a configured secret must reject")
	}
}

func TestSlackVerifier_FlippedByteRejected(t *testing.T) {
	const secret = "slack-signing-secret"
	body := []byte(`{"event":{"type":"message"}}`)
	now := time.Unix(1690000000, 0)
	ts := strconv.FormatInt(now.Unix(), 10)

	sig := []byte(slackSign(secret, ts, body))
	// Flip one hex character of an otherwise valid signature.
	if sig[10] == 'a' {
		sig[10] = 'b'
	} else {
		sig[10] = 'a'
	}

	v := NewSlackVerifier(secret)
	v.now = func() time.Time { return now }

	headers := http.Header{}
	headers.Set("X-Slack-Signature", string(sig))
	headers.Set("X-Slack-Request-Timestamp", ts)

	if err := v.Verify(body, headers); err == nil {
		t.Error("expected tampered signature to be rejected")
	}
}
