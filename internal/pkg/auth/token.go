// internal/pkg/auth/token.go
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the gateway can learn from a backend token without its signing key
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Expired reports whether the token had expired at now
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// InspectToken decodes a backend JWT without verifying its signature.
// The backend stays the authority; this only spares a round trip for tokens
// that are certain to be rejected.
func InspectToken(tokenString string) (TokenInfo, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return TokenInfo{}, fmt.Errorf("failed to parse token: %w", err)
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// TokenExpired returns true only for well-formed JWTs whose exp lies in the past.
// Opaque or malformed tokens are left for the backend to judge.
func TokenExpired(tokenString string, now time.Time) bool {
	info, err := InspectToken(tokenString)
	if err != nil {
		return false
	}
	return info.Expired(now)
}
