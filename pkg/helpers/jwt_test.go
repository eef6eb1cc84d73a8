package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	tok, exp, err := m.GenerateToken("user-1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("expiry %v is not in the future", exp)
	}
	claims, err := m.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	tok, _, err := m.GenerateToken("user-1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ParseToken(tok); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	tok, _, err := NewJWTManager("one", time.Hour).GenerateToken("user-1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewJWTManager("two", time.Hour).ParseToken(tok); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestJWTRejectsMissingSubject(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseToken(tok); err == nil {
		t.Fatal("expected token without user id to be rejected")
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	if _, err := NewJWTManager("secret", time.Hour).ParseToken("not-a-token"); err == nil {
		t.Fatal("expected parse error")
	}
}
