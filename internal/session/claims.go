package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo holds fields read from a JWT access token without verifying
// its signature. It is for display only; the server stays the authority.
type TokenInfo struct {
	Subject  string
	IssuedAt time.Time
	Expiry   time.Time
}

// InspectToken reads claims from raw. Opaque or malformed tokens return a
// zero TokenInfo and false.
func InspectToken(raw string) (TokenInfo, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return TokenInfo{}, false
	}
	info := TokenInfo{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.Expiry = claims.ExpiresAt.Time
	}
	return info, true
}

// IsExpired reports whether the expiry has passed at now.
// A zero expiry is treated as not expired.
func (t TokenInfo) IsExpired(now time.Time) bool {
	if t.Expiry.IsZero() {
		return false
	}
	return now.After(t.Expiry)
}
