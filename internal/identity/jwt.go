package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"chat-relay/internal/domain"
)

// JWTResolver resolves handshake tokens by validating an HMAC-signed JWT and
// taking the subject claim as the user id. It checks token integrity only;
// credential validation and session issuance belong to the issuer.
type JWTResolver struct {
	secret []byte
}

func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret)}
}

// Resolve validates token and returns its subject. Any validation failure,
// including a missing subject, is reported as domain.ErrUnresolved.
func (r *JWTResolver) Resolve(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnresolved
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return r.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", domain.ErrUnresolved, err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", domain.ErrUnresolved
	}
	return subject, nil
}
