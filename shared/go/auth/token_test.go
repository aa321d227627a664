package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewTokenManager("test-secret", time.Hour)

	token, err := mgr.Generate(42)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	userID, err := mgr.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user ID 42, got %d", userID)
	}
}

func TestTokenExpired(t *testing.T) {
	mgr := NewTokenManager("test-secret", -time.Minute)

	token, err := mgr.Generate(7)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if _, err := mgr.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Generate(7)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if _, err := NewTokenManager("secret-b", time.Hour).Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	mgr := NewTokenManager("test-secret", time.Hour)
	if _, err := mgr.Parse("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if err := VerifyPassword("hunter2", hash); err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if err := VerifyPassword("wrong", hash); err == nil {
		t.Fatal("expected mismatch error for wrong password")
	}
}
