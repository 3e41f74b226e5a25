package service

import (
	"errors"
	"testing"
	"time"
)

func TestSessionService_SignAndVerify(t *testing.T) {
	sessions, err := NewSessionService("secret", "linklite-test", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionService returned error: %v", err)
	}

	token, err := sessions.Sign("alice")
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	userID, err := sessions.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if userID != "alice" {
		t.Fatalf("expected alice, got %q", userID)
	}
}

func TestSessionService_RejectsForgedAndExpired(t *testing.T) {
	sessions, err := NewSessionService("secret", "linklite-test", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionService returned error: %v", err)
	}

	if _, err := sessions.Verify("not.a.token"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession for garbage, got %v", err)
	}

	other, err := NewSessionService("different-secret", "linklite-test", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionService returned error: %v", err)
	}
	forged, err := other.Sign("alice")
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}
	if _, err := sessions.Verify(forged); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession for wrong secret, got %v", err)
	}

	shortLived, err := NewSessionService("secret", "linklite-test", time.Millisecond)
	if err != nil {
		t.Fatalf("NewSessionService returned error: %v", err)
	}
	token, err := shortLived.Sign("alice")
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := shortLived.Verify(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession for expired token, got %v", err)
	}
}

func TestNewSessionService_Validation(t *testing.T) {
	if _, err := NewSessionService("", "issuer", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewSessionService("secret", "", time.Hour); err == nil {
		t.Fatal("expected error for empty issuer")
	}
	if _, err := NewSessionService("secret", "issuer", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
