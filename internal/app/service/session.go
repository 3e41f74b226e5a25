package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned for tokens that are malformed, forged or expired.
var ErrInvalidSession = errors.New("invalid session token")

// SessionService issues and verifies HS256 session tokens for the admin account.
type SessionService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSessionService validates its inputs and returns a session signer.
func NewSessionService(secret, issuer string, ttl time.Duration) (*SessionService, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	if issuer == "" {
		return nil, errors.New("session issuer is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be > 0")
	}
	return &SessionService{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Sign mints a session token for the given user id.
func (s *SessionService) Sign(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the token and returns the user id it was issued to.
func (s *SessionService) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if _, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
