package service

import (
	"strings"
	"testing"

	"github.com/tinylink-io/linklite/internal/app/model"
)

func TestGenerateCode_LengthAndAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode returned error: %v", err)
		}
		if len(code) != model.CodeLength {
			t.Fatalf("expected code of length %d, got %q", model.CodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	}
}

func TestGenerateCode_NoImmediateRepeats(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode returned error: %v", err)
		}
		seen[code] = true
	}
	// 1000 draws from 62^6 should essentially never collide; a heavily
	// repeating generator would show up here.
	if len(seen) < 990 {
		t.Fatalf("expected ~1000 distinct codes, got %d", len(seen))
	}
}
