package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	raw, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	info, ok := InspectToken(raw)
	if !ok {
		t.Fatal("expected JWT to parse")
	}
	if info.Subject != "user-1" {
		t.Errorf("subject = %q", info.Subject)
	}
	if !info.Expiry.Equal(exp) {
		t.Errorf("expiry = %v, want %v", info.Expiry, exp)
	}
	if info.IsExpired(time.Now()) {
		t.Error("token should not be expired")
	}
	if !info.IsExpired(exp.Add(time.Minute)) {
		t.Error("token should be expired after exp")
	}
}

func TestInspectToken_Opaque(t *testing.T) {
	info, ok := InspectToken("abc123")
	if ok {
		t.Error("opaque token should not parse")
	}
	if info.IsExpired(time.Now()) {
		t.Error("zero expiry is never expired")
	}
}
