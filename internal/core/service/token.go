package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// TokenManager issues and verifies stateless session tokens (HS256 JWTs).
// Tokens are not stored server-side: rotating the secret invalidates every
// outstanding token at once, and nothing short of expiry invalidates a
// single one.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime, used by the transport layer to
// align cookie expiry with token expiry.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue mints a signed token whose subject is userID.
func (m *TokenManager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates token, returning the embedded user ID.
// Failures map to domain.ErrTokenExpired, domain.ErrTokenInvalid or
// domain.ErrTokenMalformed.
func (m *TokenManager) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "", domain.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", domain.ErrTokenInvalid
	case err != nil || !parsed.Valid:
		return "", domain.ErrTokenInvalid
	}

	if claims.Subject == "" {
		return "", domain.ErrTokenMalformed
	}
	return claims.Subject, nil
}
