package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
	"github.com/ErlanBelekov/yamdb-auth/internal/token"
	"github.com/golang-jwt/jwt/v5"
)

const testKey = "token-test-secret-at-least-32-chars!"

var testUser = &domain.User{ID: "user-1", Email: "a@example.com", Role: domain.RoleModerator}

func TestMint_ParseRoundTrip(t *testing.T) {
	iss := token.NewIssuer([]byte(testKey), time.Hour)

	signed, err := iss.Mint(testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := iss.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != testUser.ID {
		t.Errorf("sub = %q, want %q", claims.Subject, testUser.ID)
	}
	if claims.Email != testUser.Email {
		t.Errorf("email = %q, want %q", claims.Email, testUser.Email)
	}
	if claims.Role != domain.RoleModerator {
		t.Errorf("role = %q, want moderator", claims.Role)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("lifetime = %s, want 1h", got)
	}
}

func TestParse_WrongKey(t *testing.T) {
	signed, err := token.NewIssuer([]byte("different-key-that-is-32-chars!!"), time.Hour).Mint(testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = token.NewIssuer([]byte(testKey), time.Hour).Parse(signed)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("want ErrUnauthorized, got %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = token.NewIssuer([]byte(testKey), time.Hour).Parse(signed)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("want ErrUnauthorized, got %v", err)
	}
}

func TestParse_MissingExpiry(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := token.NewIssuer([]byte(testKey), time.Hour).Parse(signed); err == nil {
		t.Fatal("expected error for token without exp")
	}
}

func TestParse_MissingSubject(t *testing.T) {
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := token.NewIssuer([]byte(testKey), time.Hour).Parse(signed); err == nil {
		t.Fatal("expected error for token without sub")
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, err := token.NewIssuer([]byte(testKey), time.Hour).Parse("not.a.jwt"); err == nil {
		t.Fatal("expected error")
	}
}
