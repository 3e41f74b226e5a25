package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tinylink-io/linklite/internal/app/model"
)

// MemoryLinkRepository is a process-local LinkRepository for development and
// tests. Nothing survives a restart and it must not back multiple serving
// processes.
type MemoryLinkRepository struct {
	mu     sync.RWMutex
	byID   map[string]*model.ShortLink
	byCode map[string]*model.ShortLink
}

// NewMemoryLinkRepository returns an empty in-memory link store.
func NewMemoryLinkRepository() *MemoryLinkRepository {
	return &MemoryLinkRepository{
		byID:   make(map[string]*model.ShortLink),
		byCode: make(map[string]*model.ShortLink),
	}
}

func (r *MemoryLinkRepository) Insert(_ context.Context, link *model.ShortLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[link.ShortCode]; ok {
		return ErrDuplicateCode
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	stored := *link
	r.byID[stored.ID] = &stored
	r.byCode[stored.ShortCode] = &stored
	return nil
}

func (r *MemoryLinkRepository) FindByCode(_ context.Context, code string) (*model.ShortLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	link, ok := r.byCode[code]
	if !ok {
		return nil, ErrLinkNotFound
	}
	out := *link
	return &out, nil
}

func (r *MemoryLinkRepository) FindByID(_ context.Context, id string) (*model.ShortLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	link, ok := r.byID[id]
	if !ok {
		return nil, ErrLinkNotFound
	}
	out := *link
	return &out, nil
}

func (r *MemoryLinkRepository) FindAll(_ context.Context) ([]model.ShortLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]model.ShortLink, 0, len(r.byID))
	for _, link := range r.byID {
		result = append(result, *link)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryLinkRepository) IncrementClick(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.byCode[code]
	if !ok {
		return ErrLinkNotFound
	}
	link.ClickCount++
	return nil
}

func (r *MemoryLinkRepository) Update(_ context.Context, link *model.ShortLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[link.ID]
	if !ok {
		return ErrLinkNotFound
	}
	stored.OriginalURL = link.OriginalURL
	stored.Title = link.Title
	*link = *stored
	return nil
}

func (r *MemoryLinkRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	delete(r.byCode, link.ShortCode)
	return nil
}

// MemoryUserRepository is a process-local UserRepository for development and tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// NewMemoryUserRepository returns an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*model.User)}
}

func (r *MemoryUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	r.users[stored.ID] = &stored
	return nil
}

// MemoryClickEventRepository collects click events in memory.
type MemoryClickEventRepository struct {
	mu     sync.Mutex
	events []model.ClickEvent
}

// NewMemoryClickEventRepository returns an empty in-memory click event store.
func NewMemoryClickEventRepository() *MemoryClickEventRepository {
	return &MemoryClickEventRepository{}
}

func (r *MemoryClickEventRepository) Create(_ context.Context, event *model.ClickEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

// Events returns a snapshot of recorded events, oldest first.
func (r *MemoryClickEventRepository) Events() []model.ClickEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ClickEvent, len(r.events))
	copy(out, r.events)
	return out
}
