package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tinylink-io/linklite/internal/app/model"
	"github.com/tinylink-io/linklite/internal/app/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrRegistrationClosed signals that the single admin account already exists.
	ErrRegistrationClosed = errors.New("registration is closed")
	// ErrInvalidCredentials covers both unknown user and wrong password so the
	// login surface never leaks which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredentials signals an empty name or password on registration.
	ErrMissingCredentials = errors.New("name and password are required")
)

// AuthService implements the single-admin registration and login gate.
type AuthService struct {
	users    repository.UserRepository
	sessions *SessionService
}

// NewAuthService returns an auth service over the given user store and session signer.
func NewAuthService(users repository.UserRepository, sessions *SessionService) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Register creates the one and only admin account. The supplied name becomes
// both the id and the display name, matching the single-tenant model. Once a
// row exists the system is permanently in the registered state and every
// further attempt fails with ErrRegistrationClosed.
func (a *AuthService) Register(ctx context.Context, name, password string) (*model.User, error) {
	if name == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	count, err := a.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil, ErrRegistrationClosed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           name,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks the credentials and returns a signed session token.
// Unknown ids and wrong passwords are indistinguishable to the caller.
func (a *AuthService) Authenticate(ctx context.Context, id, password string) (string, error) {
	user, err := a.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := a.sessions.Sign(user.ID)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}
