package service

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/tinylink-io/linklite/internal/app/model"
)

// codeAlphabet is URL-safe; 62^6 codes make exhaustion unreachable in practice.
const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// maxCodeAttempts bounds the regenerate-on-collision loop. Hitting it means
// something is badly wrong with the store, not that the keyspace is full.
const maxCodeAttempts = 32

// ErrCodeSpaceExhausted is returned when code generation keeps colliding past
// the retry ceiling.
var ErrCodeSpaceExhausted = errors.New("could not generate a unique short code")

// GenerateCode produces a fixed-length random short code.
func GenerateCode() (string, error) {
	buf := make([]byte, model.CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
