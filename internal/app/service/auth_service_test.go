package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tinylink-io/linklite/internal/app/repository"
	"golang.org/x/crypto/bcrypt"
)

func newTestSessions(t *testing.T) *SessionService {
	t.Helper()
	sessions, err := NewSessionService("test-secret", "linklite-test", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionService returned error: %v", err)
	}
	return sessions
}

func TestAuthService_Register_FirstUser(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	auth := NewAuthService(users, newTestSessions(t))

	user, err := auth.Register(context.Background(), "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID != "alice" || user.Name != "alice" {
		t.Fatalf("expected id and name to equal the supplied name, got %+v", user)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Fatal("password must never be stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("stored hash does not match the password: %v", err)
	}
}

func TestAuthService_Register_ClosedAfterFirstUser(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	auth := NewAuthService(users, newTestSessions(t))

	if _, err := auth.Register(context.Background(), "alice", "s3cret-pass"); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if _, err := auth.Register(context.Background(), "bob", "another-pass"); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("expected ErrRegistrationClosed, got %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	auth := NewAuthService(repository.NewMemoryUserRepository(), newTestSessions(t))

	if _, err := auth.Register(context.Background(), "", "pass"); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials for empty name, got %v", err)
	}
	if _, err := auth.Register(context.Background(), "alice", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials for empty password, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	sessions := newTestSessions(t)
	auth := NewAuthService(users, sessions)

	if _, err := auth.Register(context.Background(), "alice", "s3cret-pass"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	token, err := auth.Authenticate(context.Background(), "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	userID, err := sessions.Verify(token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if userID != "alice" {
		t.Fatalf("expected session for alice, got %q", userID)
	}
}

func TestAuthService_Authenticate_GenericFailure(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	auth := NewAuthService(users, newTestSessions(t))

	if _, err := auth.Register(context.Background(), "alice", "s3cret-pass"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Wrong password and unknown user must be indistinguishable.
	_, wrongPass := auth.Authenticate(context.Background(), "alice", "wrong")
	_, unknownUser := auth.Authenticate(context.Background(), "mallory", "whatever")
	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", unknownUser)
	}
	if wrongPass.Error() != unknownUser.Error() {
		t.Fatalf("failure modes must not be distinguishable: %q vs %q", wrongPass, unknownUser)
	}
}
