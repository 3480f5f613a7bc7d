package verify

import "net/http"

// PassthroughVerifier handles sources with no defined signing scheme. When
// verification is required by configuration it rejects every request; the
// accept/reject decision is an explicit policy switch, not a default-allow.
type PassthroughVerifier struct {
	required bool
}

// NewPassthroughVerifier creates a verifier that accepts unconditionally
// unless required is set.
func NewPassthroughVerifier(required bool) *PassthroughVerifier {
	return &PassthroughVerifier{required: required}
}

func (v *PassthroughVerifier) Verify(body []byte, headers http.Header) error {
	if v.required {
		return unauthorized("source has no verification scheme but verification is required")
	}
	return nil
}
