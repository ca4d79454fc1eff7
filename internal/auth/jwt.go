// Package auth provides JWT token issuance/verification, bcrypt password
// hashing, and the per-request identity context.
//
// AUTHENTICATION FLOW:
// 1. Client signs up (newUser) or signs in (validate) through GraphQL,
//    or completes the GitHub OAuth flow.
// 2. Server issues a signed JWT bound to the identity's internal ID.
// 3. Subsequent requests carry the token in the Authorization header.
// 4. The /graphql handler verifies the token ONCE per request and stores
//    the identity ID in the request context; every field resolver in that
//    request observes the same identity.
//
// A failed verification is not an error at this layer's edge: the request
// simply proceeds as anonymous, and authorization downstream rejects
// whatever an anonymous caller may not do.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is how long an issued token stays valid. After expiry the
// client must sign in again.
const tokenTTL = 2 * time.Hour

// TokenService signs and verifies identity tokens.
//
// It holds the HMAC secret used for both operations. The secret lives
// only in process memory when generated via NewRandomSecret — restarting
// the server invalidates every outstanding token. That is a documented
// limitation, not a defect.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// NewRandomSecret generates a fresh 32-byte hex-encoded signing secret.
// Used at startup when no JWT_SECRET is configured.
func NewRandomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generating secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// claims is the JWT payload. The "sub" (Subject) claim carries the
// internal identity ID.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a token for the given identity ID,
// valid for tokenTTL from now.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-server deployment.
func (s *TokenService) Generate(identityID string) (string, error) {
	return s.GenerateWithDuration(identityID, tokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(identityID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "snipshare",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the identity ID
// it encodes.
//
// Checks performed: signature, expiry, issuer, and that the algorithm is
// HS256 (jwt.WithValidMethods closes the "alg confusion" hole where a
// token claims to be signed with "none").
//
// Validate reports failures as errors; the caller building the request
// context decides whether a failure degrades to anonymous.
func (s *TokenService) Validate(tokenStr string) (string, error) {
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
		jwt.WithIssuer("snipshare"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
