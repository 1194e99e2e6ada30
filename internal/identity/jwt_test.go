package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chat-relay/internal/domain"
	"chat-relay/internal/identity"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestResolveValidToken(t *testing.T) {
	resolver := identity.NewJWTResolver(testSecret)
	token := signToken(t, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, jwt.SigningMethodHS256, testSecret)

	userID, err := resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if userID != "u1" {
		t.Errorf("Resolve() = %q, want u1", userID)
	}
}

func TestResolveFailures(t *testing.T) {
	resolver := identity.NewJWTResolver(testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not-a-jwt"},
		{
			"wrong secret",
			signToken(t, jwt.RegisteredClaims{Subject: "u1"}, jwt.SigningMethodHS256, "other-secret"),
		},
		{
			"expired token",
			signToken(t, jwt.RegisteredClaims{
				Subject:   "u1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			}, jwt.SigningMethodHS256, testSecret),
		},
		{
			"missing subject",
			signToken(t, jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}, jwt.SigningMethodHS256, testSecret),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := resolver.Resolve(context.Background(), tt.token)
			if !errors.Is(err, domain.ErrUnresolved) {
				t.Errorf("Resolve() error = %v, want ErrUnresolved", err)
			}
			if userID != "" {
				t.Errorf("Resolve() = %q, want empty", userID)
			}
		})
	}
}

func TestResolveRejectsUnsignedToken(t *testing.T) {
	resolver := identity.NewJWTResolver(testSecret)

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := resolver.Resolve(context.Background(), token); !errors.Is(err, domain.ErrUnresolved) {
		t.Errorf("Resolve() error = %v for alg=none token, want ErrUnresolved", err)
	}
}
