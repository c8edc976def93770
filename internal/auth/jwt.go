// Package auth provides token issuance and verification plus the HTTP
// authentication guard for the snippet API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenLifetime is how long an issued access token stays valid.
const DefaultTokenLifetime = 24 * time.Hour

// TokenService issues and verifies HS256-signed JWT access tokens. The user
// ID travels in the "sub" claim.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService with the given HMAC secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), lifetime: DefaultTokenLifetime}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a new access token for the given user ID.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, s.lifetime)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "snippet-manager",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning the user ID it
// encodes. An expired, tampered, or foreign-signed token fails.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &claims{},
		func(t *jwt.Token) (interface{}, error) {
			// Reject any algorithm other than the one we sign with. Without
			// this check an attacker could present an unsigned "none" token.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		},
	)
	if err != nil {
		return "", fmt.Errorf("auth: parsing token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return "", errors.New("auth: invalid token claims")
	}

	return c.Subject, nil
}

// Verify implements the Verifier interface used by the middleware.
func (s *TokenService) Verify(_ context.Context, tokenStr string) (string, error) {
	return s.Validate(tokenStr)
}
