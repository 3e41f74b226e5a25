package service

import (
	"context"
	"fmt"

	"github.com/tinylink-io/linklite/internal/app/repository"
	"go.uber.org/zap"
)

// Resolver maps inbound short codes to their destination and records the visit.
type Resolver struct {
	links  repository.LinkRepository
	logger *zap.Logger
}

// NewResolver returns a resolver backed by the given repository.
func NewResolver(links repository.LinkRepository, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{links: links, logger: logger}
}

// Resolve looks up the code and increments its click counter. Click counts are
// advisory: an increment failure is logged and the redirect still proceeds with
// the already-fetched destination. Unknown codes return
// repository.ErrLinkNotFound wrapped.
func (r *Resolver) Resolve(ctx context.Context, code string) (string, error) {
	link, err := r.links.FindByCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", code, err)
	}

	if err := r.links.IncrementClick(ctx, code); err != nil {
		r.logger.Warn("click increment failed",
			zap.String("code", code),
			zap.Error(err))
	}

	return link.OriginalURL, nil
}
