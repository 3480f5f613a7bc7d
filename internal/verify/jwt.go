package verify

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by internal caller tokens.
type Claims struct {
	UserID string   `json:"user_id"`
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// BearerVerifier validates HS256 bearer tokens presented by first-party
// callers. Non-HMAC signing algorithms are rejected outright; exp and nbf are
// enforced by the parser.
type BearerVerifier struct {
	secret []byte
}

// NewBearerVerifier creates a verifier for the given JWT secret.
func NewBearerVerifier(secret string) *BearerVerifier {
	return &BearerVerifier{secret: []byte(secret)}
}

func (v *BearerVerifier) Verify(body []byte, headers http.Header) error {
	_, err := v.VerifyToken(extractBearer(headers))
	return err
}

// VerifyToken parses and validates a raw token string, returning the decoded
// claims on success.
func (v *BearerVerifier) VerifyToken(tokenString string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, unauthorized("no token secret configured")
	}
	if tokenString == "" {
		return nil, unauthorized("missing bearer token")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unsupported signing algorithm")
		}
		return v.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, unauthorized("token expired")
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, unauthorized("token not yet valid")
		default:
			return nil, unauthorized("invalid bearer token")
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, unauthorized("invalid bearer token")
	}
	return claims, nil
}

func extractBearer(headers http.Header) string {
	auth := headers.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
