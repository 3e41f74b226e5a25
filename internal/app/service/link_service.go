package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tinylink-io/linklite/internal/app/model"
	"github.com/tinylink-io/linklite/internal/app/repository"
)

// ErrInvalidURL is returned when the submitted destination does not parse as
// an absolute URL.
var ErrInvalidURL = errors.New("invalid url")

// LinkService defines behaviour-level operations on short links.
type LinkService interface {
	CreateShortLink(ctx context.Context, input CreateLinkInput) (*model.ShortLink, error)
	GetAllLinks(ctx context.Context) ([]model.ShortLink, error)
	GetLinkByShortCode(ctx context.Context, code string) (*model.ShortLink, error)
	UpdateLink(ctx context.Context, id string, input UpdateLinkInput) (*model.ShortLink, error)
	DeleteLink(ctx context.Context, id string) error
}

type linkService struct {
	repo repository.LinkRepository
}

// NewLinkService returns a service implementation backed by the given repository.
func NewLinkService(repo repository.LinkRepository) LinkService {
	return &linkService{repo: repo}
}

// CreateLinkInput captures data required to create a link.
type CreateLinkInput struct {
	OriginalURL string
	Title       string
}

// UpdateLinkInput captures fields that can be changed on an existing link.
type UpdateLinkInput struct {
	OriginalURL *string
	Title       *string
}

// IsValidURL reports whether candidate parses as an absolute URL. Parse-only;
// no network reachability check and no scheme allow-list.
func IsValidURL(candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	return u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

// CreateShortLink validates the destination, then inserts with a fresh random
// code, regenerating on duplicate-code rejections from the store. Concurrent
// creations may race on the same code; the store's unique constraint is the
// arbiter and the loop simply tries again.
func (s *linkService) CreateShortLink(ctx context.Context, input CreateLinkInput) (*model.ShortLink, error) {
	rawURL := strings.TrimSpace(input.OriginalURL)
	if !IsValidURL(rawURL) {
		return nil, ErrInvalidURL
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return nil, err
		}

		link := &model.ShortLink{
			ID:          uuid.New().String(),
			ShortCode:   code,
			OriginalURL: rawURL,
			Title:       input.Title,
			ClickCount:  0,
		}
		if err := s.repo.Insert(ctx, link); err != nil {
			if errors.Is(err, repository.ErrDuplicateCode) {
				continue
			}
			return nil, fmt.Errorf("create link: %w", err)
		}
		return link, nil
	}
	return nil, ErrCodeSpaceExhausted
}

func (s *linkService) GetAllLinks(ctx context.Context) ([]model.ShortLink, error) {
	links, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

func (s *linkService) GetLinkByShortCode(ctx context.Context, code string) (*model.ShortLink, error) {
	link, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return link, nil
}

func (s *linkService) UpdateLink(ctx context.Context, id string, input UpdateLinkInput) (*model.ShortLink, error) {
	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load link: %w", err)
	}

	if input.OriginalURL != nil {
		rawURL := strings.TrimSpace(*input.OriginalURL)
		if !IsValidURL(rawURL) {
			return nil, ErrInvalidURL
		}
		link.OriginalURL = rawURL
	}
	if input.Title != nil {
		link.Title = *input.Title
	}

	if err := s.repo.Update(ctx, link); err != nil {
		return nil, fmt.Errorf("update link: %w", err)
	}
	return link, nil
}

// DeleteLink removes the row. Deleting an unknown id succeeds quietly.
func (s *linkService) DeleteLink(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}
