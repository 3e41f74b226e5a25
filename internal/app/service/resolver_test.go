package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tinylink-io/linklite/internal/app/model"
	"github.com/tinylink-io/linklite/internal/app/repository"
)

func TestResolver_Resolve_Hit(t *testing.T) {
	increments := 0
	repo := &mockLinkRepository{
		findCodeFn: func(ctx context.Context, code string) (*model.ShortLink, error) {
			return &model.ShortLink{ShortCode: code, OriginalURL: "https://example.com/a"}, nil
		},
		incrementFn: func(ctx context.Context, code string) error {
			increments++
			return nil
		},
	}

	r := NewResolver(repo, nil)
	target, err := r.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if target != "https://example.com/a" {
		t.Fatalf("expected target url, got %q", target)
	}
	if increments != 1 {
		t.Fatalf("expected exactly one increment, got %d", increments)
	}
}

func TestResolver_Resolve_Miss(t *testing.T) {
	repo := &mockLinkRepository{
		incrementFn: func(ctx context.Context, code string) error {
			t.Fatal("increment must not run for unknown codes")
			return nil
		},
	}

	r := NewResolver(repo, nil)
	if _, err := r.Resolve(context.Background(), "nope"); !errors.Is(err, repository.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}
}

func TestResolver_Resolve_IncrementFailureStillRedirects(t *testing.T) {
	repo := &mockLinkRepository{
		findCodeFn: func(ctx context.Context, code string) (*model.ShortLink, error) {
			return &model.ShortLink{ShortCode: code, OriginalURL: "https://example.com/b"}, nil
		},
		incrementFn: func(ctx context.Context, code string) error {
			return errors.New("store unreachable")
		},
	}

	r := NewResolver(repo, nil)
	target, err := r.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("expected best-effort resolve to succeed, got %v", err)
	}
	if target != "https://example.com/b" {
		t.Fatalf("expected target url, got %q", target)
	}
}
