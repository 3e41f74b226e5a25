package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tinylink-io/linklite/internal/app/model"
	"github.com/tinylink-io/linklite/internal/app/repository"
)

type mockLinkRepository struct {
	insertFn    func(ctx context.Context, link *model.ShortLink) error
	findCodeFn  func(ctx context.Context, code string) (*model.ShortLink, error)
	findIDFn    func(ctx context.Context, id string) (*model.ShortLink, error)
	findAllFn   func(ctx context.Context) ([]model.ShortLink, error)
	incrementFn func(ctx context.Context, code string) error
	updateFn    func(ctx context.Context, link *model.ShortLink) error
	deleteFn    func(ctx context.Context, id string) error
}

func (m *mockLinkRepository) Insert(ctx context.Context, link *model.ShortLink) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, link)
	}
	return nil
}

func (m *mockLinkRepository) FindByCode(ctx context.Context, code string) (*model.ShortLink, error) {
	if m.findCodeFn != nil {
		return m.findCodeFn(ctx, code)
	}
	return nil, repository.ErrLinkNotFound
}

func (m *mockLinkRepository) FindByID(ctx context.Context, id string) (*model.ShortLink, error) {
	if m.findIDFn != nil {
		return m.findIDFn(ctx, id)
	}
	return nil, repository.ErrLinkNotFound
}

func (m *mockLinkRepository) FindAll(ctx context.Context) ([]model.ShortLink, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

func (m *mockLinkRepository) IncrementClick(ctx context.Context, code string) error {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, code)
	}
	return nil
}

func (m *mockLinkRepository) Update(ctx context.Context, link *model.ShortLink) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, link)
	}
	return nil
}

func (m *mockLinkRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func TestLinkService_CreateShortLink(t *testing.T) {
	repo := &mockLinkRepository{
		insertFn: func(ctx context.Context, link *model.ShortLink) error {
			if link.ID == "" {
				t.Fatal("expected id to be set")
			}
			if len(link.ShortCode) != model.CodeLength {
				t.Fatalf("expected %d-char code, got %q", model.CodeLength, link.ShortCode)
			}
			if link.ClickCount != 0 {
				t.Fatalf("expected zero click count, got %d", link.ClickCount)
			}
			return nil
		},
	}

	svc := NewLinkService(repo)
	link, err := svc.CreateShortLink(context.Background(), CreateLinkInput{
		OriginalURL: "https://example.com/a",
		Title:       "Example",
	})
	if err != nil {
		t.Fatalf("CreateShortLink returned error: %v", err)
	}
	if link.OriginalURL != "https://example.com/a" {
		t.Fatalf("expected original url preserved, got %q", link.OriginalURL)
	}
}

func TestLinkService_CreateShortLink_InvalidURL(t *testing.T) {
	svc := NewLinkService(&mockLinkRepository{
		insertFn: func(ctx context.Context, link *model.ShortLink) error {
			t.Fatal("insert must not be reached for invalid urls")
			return nil
		},
	})

	for _, raw := range []string{"", "not a url", "example.com/no-scheme", "/relative/path"} {
		if _, err := svc.CreateShortLink(context.Background(), CreateLinkInput{OriginalURL: raw}); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("expected ErrInvalidURL for %q, got %v", raw, err)
		}
	}
}

func TestLinkService_CreateShortLink_RetriesOnCollision(t *testing.T) {
	attempts := 0
	codes := make(map[string]bool)
	repo := &mockLinkRepository{
		insertFn: func(ctx context.Context, link *model.ShortLink) error {
			attempts++
			codes[link.ShortCode] = true
			if attempts < 3 {
				return repository.ErrDuplicateCode
			}
			return nil
		},
	}

	svc := NewLinkService(repo)
	if _, err := svc.CreateShortLink(context.Background(), CreateLinkInput{OriginalURL: "https://example.com"}); err != nil {
		t.Fatalf("CreateShortLink returned error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 insert attempts, got %d", attempts)
	}
	if len(codes) != 3 {
		t.Fatalf("expected a fresh code per attempt, got %d distinct codes", len(codes))
	}
}

func TestLinkService_CreateShortLink_ExhaustsRetries(t *testing.T) {
	repo := &mockLinkRepository{
		insertFn: func(ctx context.Context, link *model.ShortLink) error {
			return repository.ErrDuplicateCode
		},
	}

	svc := NewLinkService(repo)
	if _, err := svc.CreateShortLink(context.Background(), CreateLinkInput{OriginalURL: "https://example.com"}); !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Fatalf("expected ErrCodeSpaceExhausted, got %v", err)
	}
}

func TestLinkService_GetLinkByShortCode_NotFound(t *testing.T) {
	svc := NewLinkService(&mockLinkRepository{})
	if _, err := svc.GetLinkByShortCode(context.Background(), "missing"); !errors.Is(err, repository.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}
}

func TestLinkService_GetAllLinks(t *testing.T) {
	now := time.Now()
	svc := NewLinkService(&mockLinkRepository{
		findAllFn: func(ctx context.Context) ([]model.ShortLink, error) {
			return []model.ShortLink{
				{ShortCode: "newest", CreatedAt: now},
				{ShortCode: "oldest", CreatedAt: now.Add(-time.Hour)},
			}, nil
		},
	})

	links, err := svc.GetAllLinks(context.Background())
	if err != nil {
		t.Fatalf("GetAllLinks returned error: %v", err)
	}
	if len(links) != 2 || links[0].ShortCode != "newest" {
		t.Fatalf("expected repository ordering preserved, got %+v", links)
	}
}

func TestLinkService_DeleteLink_Idempotent(t *testing.T) {
	deleted := 0
	svc := NewLinkService(&mockLinkRepository{
		deleteFn: func(ctx context.Context, id string) error {
			deleted++
			return nil
		},
	})

	for i := 0; i < 2; i++ {
		if err := svc.DeleteLink(context.Background(), "gone"); err != nil {
			t.Fatalf("DeleteLink returned error on attempt %d: %v", i+1, err)
		}
	}
	if deleted != 2 {
		t.Fatalf("expected delete forwarded twice, got %d", deleted)
	}
}

func TestLinkService_UpdateLink(t *testing.T) {
	svc := NewLinkService(&mockLinkRepository{
		findIDFn: func(ctx context.Context, id string) (*model.ShortLink, error) {
			return &model.ShortLink{ID: id, OriginalURL: "https://old.example.com"}, nil
		},
		updateFn: func(ctx context.Context, link *model.ShortLink) error {
			if link.OriginalURL != "https://new.example.com" {
				t.Fatalf("expected updated url, got %q", link.OriginalURL)
			}
			return nil
		},
	})

	newURL := "https://new.example.com"
	if _, err := svc.UpdateLink(context.Background(), "abc", UpdateLinkInput{OriginalURL: &newURL}); err != nil {
		t.Fatalf("UpdateLink returned error: %v", err)
	}
}

func TestLinkService_UpdateLink_InvalidURL(t *testing.T) {
	svc := NewLinkService(&mockLinkRepository{
		findIDFn: func(ctx context.Context, id string) (*model.ShortLink, error) {
			return &model.ShortLink{ID: id}, nil
		},
	})

	bad := "nope"
	if _, err := svc.UpdateLink(context.Background(), "abc", UpdateLinkInput{OriginalURL: &bad}); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
}

func TestIsValidURL(t *testing.T) {
	valid := []string{
		"https://example.com/a",
		"http://localhost:8080/path?q=1",
		"ftp://files.example.com/a.txt",
	}
	for _, u := range valid {
		if !IsValidURL(u) {
			t.Errorf("expected %q to be valid", u)
		}
	}

	invalid := []string{"", "   ", "example.com", "/just/a/path", "http://"}
	for _, u := range invalid {
		if IsValidURL(u) {
			t.Errorf("expected %q to be invalid", u)
		}
	}
}
