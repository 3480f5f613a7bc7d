package verify

import (
	"net/http"
	"strings"
)

const githubSignatureHeader = "X-Hub-Signature-256"

// GitHubVerifier implements the X-Hub-Signature-256 scheme used by GitHub,
// Gitea and most source-control webhook providers: "sha256=<hex>" over the
// raw body. The upstream protocol carries no timestamp, so there is no
// replay window to enforce.
type GitHubVerifier struct {
	secret []byte
}

// NewGitHubVerifier creates a verifier for the given webhook secret.
func NewGitHubVerifier(secret string) *GitHubVerifier {
	return &GitHubVerifier{secret: []byte(secret)}
}

func (v *GitHubVerifier) Verify(body []byte, headers http.Header) error {
	if len(v.secret) == 0 {
		return unauthorized("no signing secret configured for github")
	}

	signature := headers.Get(githubSignatureHeader)
	if signature == "" {
		return unauthorized("missing X-Hub-Signature-256 header")
	}

	const prefix = "sha256="
	if !strings.HasPrefix(signature, prefix) {
		return unauthorized("malformed X-Hub-Signature-256 header")
	}

	expected := prefix + hmacSHA256Hex(v.secret, body)
	if !equalConstantTime(expected, signature) {
		return unauthorized("GitHub signature mismatch")
	}
	return nil
}
