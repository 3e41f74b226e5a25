package repository

import (
	"context"
	"errors"

	"github.com/tinylink-io/linklite/internal/app/model"
)

var (
	// ErrLinkNotFound signals that the requested short link does not exist.
	ErrLinkNotFound = errors.New("link not found")
	// ErrDuplicateCode signals that an insert collided with an existing short code.
	ErrDuplicateCode = errors.New("short code already exists")
	// ErrUserNotFound signals that no user row matches the given id.
	ErrUserNotFound = errors.New("user not found")
)

// LinkRepository defines the data access contract for short links.
//
// Delete is a no-op for unknown ids and IncrementClick must be atomic in the
// backing store; both are relied on by the service layer.
type LinkRepository interface {
	Insert(ctx context.Context, link *model.ShortLink) error
	FindByCode(ctx context.Context, code string) (*model.ShortLink, error)
	FindByID(ctx context.Context, id string) (*model.ShortLink, error)
	FindAll(ctx context.Context) ([]model.ShortLink, error)
	IncrementClick(ctx context.Context, code string) error
	Update(ctx context.Context, link *model.ShortLink) error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the data access contract for the admin account.
type UserRepository interface {
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// ClickEventRepository defines the data access contract for click audit events.
type ClickEventRepository interface {
	Create(ctx context.Context, event *model.ClickEvent) error
}
