package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tinylink-io/linklite/internal/app/repository"
	"github.com/tinylink-io/linklite/internal/app/service"
	"github.com/tinylink-io/linklite/internal/http/cache"
	"github.com/tinylink-io/linklite/internal/infra/metrics"
	"go.uber.org/zap"
)

// RedirectDeps groups dependencies required by the public redirect surface.
type RedirectDeps struct {
	Logger         *zap.Logger
	Resolver       *service.Resolver
	Codes          *cache.CodeFilter
	ClickPublisher *service.ClickPublisher
	Postgres       *pgxpool.Pool
	HomeURL        string
}

// RedirectHandler serves the unauthenticated resolve path.
type RedirectHandler struct {
	logger         *zap.Logger
	resolver       *service.Resolver
	codes          *cache.CodeFilter
	clickPublisher *service.ClickPublisher
	pool           *pgxpool.Pool
	homeURL        string
}

// NewRedirectHandler creates a redirect handler with the provided dependencies.
func NewRedirectHandler(deps RedirectDeps) *RedirectHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	homeURL := deps.HomeURL
	if homeURL == "" {
		homeURL = "/"
	}
	return &RedirectHandler{
		logger:         logger,
		resolver:       deps.Resolver,
		codes:          deps.Codes,
		clickPublisher: deps.ClickPublisher,
		pool:           deps.Postgres,
		homeURL:        homeURL,
	}
}

// Register wires the public routes onto the app. The catch-all :code route
// must be registered after every other top-level route.
func (h *RedirectHandler) Register(router fiber.Router) {
	router.Get("/", h.Health)
	router.Get("/health", h.Health)
	router.Get("/:code", h.Resolve)
}

// Health reports service status; it also serves as the home location that
// unknown codes are redirected to.
func (h *RedirectHandler) Health(c *fiber.Ctx) error {
	status := fiber.Map{
		"service": "linklite",
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
	}
	if h.pool != nil {
		if err := h.pool.Ping(c.UserContext()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		}
	}
	return c.JSON(status)
}

// Resolve handles GET /:code. Hits redirect to the stored destination with the
// click counter incremented once; misses redirect to home rather than erroring
// visibly.
func (h *RedirectHandler) Resolve(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Redirect(h.homeURL, fiber.StatusFound)
	}

	if h.codes != nil && !h.codes.MightContain(code) {
		metrics.RedirectsTotal.WithLabelValues("miss").Inc()
		return c.Redirect(h.homeURL, fiber.StatusFound)
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	target, err := h.resolver.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			metrics.RedirectsTotal.WithLabelValues("miss").Inc()
			return c.Redirect(h.homeURL, fiber.StatusFound)
		}
		metrics.RedirectsTotal.WithLabelValues("error").Inc()
		h.logger.Error("resolve failed", zap.String("code", code), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if h.clickPublisher != nil {
		go h.publishClickEvent(code, c.IP(), c.Get(fiber.HeaderUserAgent))
	}

	metrics.RedirectsTotal.WithLabelValues("hit").Inc()
	h.logger.Debug("redirecting short link", zap.String("code", code), zap.String("target", target))
	return c.Redirect(target, fiber.StatusFound)
}

func (h *RedirectHandler) publishClickEvent(code, ip, userAgent string) {
	if err := h.clickPublisher.Publish(code, ip, userAgent); err != nil {
		h.logger.Error("failed to publish click event", zap.Error(err), zap.String("code", code))
	}
}
