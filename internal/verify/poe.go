package verify

import "net/http"

const (
	poeSignatureHeader    = "X-Poe-Signature"
	poeSignatureAltHeader = "X-Signature"
)

// PoeVerifier checks the bare hex HMAC-SHA256 of the raw body that Poe
// deliveries carry in X-Poe-Signature (older deliveries use X-Signature).
type PoeVerifier struct {
	secret []byte
}

// NewPoeVerifier creates a verifier for the given webhook secret.
func NewPoeVerifier(secret string) *PoeVerifier {
	return &PoeVerifier{secret: []byte(secret)}
}

func (v *PoeVerifier) Verify(body []byte, headers http.Header) error {
	if len(v.secret) == 0 {
		return unauthorized("no signing secret configured for poe")
	}

	signature := headers.Get(poeSignatureHeader)
	if signature == "" {
		signature = headers.Get(poeSignatureAltHeader)
	}
	if signature == "" {
		return unauthorized("missing Poe signature header")
	}

	expected := hmacSHA256Hex(v.secret, body)
	if !equalConstantTime(expected, signature) {
		return unauthorized("Poe signature mismatch")
	}
	return nil
}
