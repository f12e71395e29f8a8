package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "a-test-secret-that-is-long-enough"

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens(testSecret)
	signed, err := tokens.Issue("user-123", "p@example.com", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	ac, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ac.UserID != "user-123" || ac.Email != "p@example.com" {
		t.Errorf("got %+v", ac)
	}
}

func TestParseExpired(t *testing.T) {
	tokens := NewTokens(testSecret)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, err := tokens.Issue("user-123", "", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tokens.now = time.Now
	if _, err := tokens.Parse(signed); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	signed, err := NewTokens("another-secret-entirely").Issue("user-123", "", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokens(testSecret).Parse(signed); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsNoneAlg(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123", Issuer: issuer}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewTokens(testSecret).Parse(signed); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestDisabled(t *testing.T) {
	tokens := NewTokens("")
	if tokens.Enabled() {
		t.Error("expected disabled")
	}
	if _, err := tokens.Issue("u", "", time.Hour); err == nil {
		t.Error("expected issue error without secret")
	}
	if _, err := tokens.Parse("anything"); err != ErrInvalidToken {
		t.Errorf("err = %v", err)
	}
}
