// Package auth provides JWT token generation and validation plus the
// Bearer-token middleware protecting the API routes.
//
// Tokens are stateless: the signed payload carries the user ID and role,
// so verification needs no database lookup — only the HMAC secret. There
// is no server-side revocation list; a token stays valid until it
// expires.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/scriptorium/internal/apperror"
)

// defaultTokenLifetime is how long an issued access token stays valid.
const defaultTokenLifetime = 24 * time.Hour

const issuer = "scriptorium"

// Identity is the verified content of a token: who the caller is and
// what role they held when the token was issued.
type Identity struct {
	UserID string
	Role   string
}

// TokenService signs and verifies access tokens.
//
// The HMAC secret is injected at construction rather than read from a
// package-level variable, so tests can run with their own throwaway
// secrets and the process-wide signing key lives in exactly one place
// (the server config).
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The standard "sub" claim holds the user ID;
// the custom "role" claim holds the role at issue time.
type claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Generate creates and signs a new access token for the given identity.
func (s *TokenService) Generate(id Identity) (string, error) {
	return s.GenerateWithDuration(id, defaultTokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(id Identity, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the identity
// it encodes.
//
// Verification is pure: no side effects, and the failure paths never
// include the raw token in the returned error. All checks are done by
// the jwt library: signature, expiry, issuer, and signing algorithm.
// Restricting the algorithm to HS256 with WithValidMethods prevents
// algorithm-confusion attacks ("none"-signed tokens).
//
// Every failure maps to apperror.InvalidCredential — a presented-but-bad
// credential is always a 403, never a partial authorization outcome.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperror.InvalidCredential("token expired")
		}
		return Identity{}, apperror.InvalidCredential("invalid token")
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, apperror.InvalidCredential("invalid token claims")
	}

	if c.Subject == "" {
		return Identity{}, apperror.InvalidCredential("token has no subject")
	}

	return Identity{UserID: c.Subject, Role: c.Role}, nil
}
