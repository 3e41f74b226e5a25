package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tinylink-io/linklite/internal/app/repository"
	"github.com/tinylink-io/linklite/internal/app/service"
	"github.com/tinylink-io/linklite/internal/http/cache"
	"github.com/tinylink-io/linklite/internal/http/middleware"
	"github.com/tinylink-io/linklite/internal/infra/metrics"
	"go.uber.org/zap"
)

// APIDeps groups dependencies required by the management API.
type APIDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
	Sessions    *service.SessionService
	Codes       *cache.CodeFilter
}

// APIHandler implements the session-gated link management endpoints.
type APIHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
	sessions    *service.SessionService
	codes       *cache.CodeFilter
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger:      logger,
		linkService: deps.LinkService,
		sessions:    deps.Sessions,
		codes:       deps.Codes,
	}
}

// Register wires the /api/links routes. Every route requires a valid session.
func (h *APIHandler) Register(router fiber.Router) {
	links := router.Group("/api/links", middleware.RequireSession(h.sessions))
	links.Get("/", h.ListLinks)
	links.Post("/", h.CreateLink)
	links.Delete("/", h.DeleteLink)
	links.Get("/:code", h.GetLink)
	links.Put("/:id", h.UpdateLink)
}

// CreateLinkRequest is the body of POST /api/links.
type CreateLinkRequest struct {
	OriginalURL string `json:"originalUrl"`
	Title       string `json:"title,omitempty"`
}

// CreateLink handles POST /api/links.
func (h *APIHandler) CreateLink(c *fiber.Ctx) error {
	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	link, err := h.linkService.CreateShortLink(h.requestCtx(c), service.CreateLinkInput{
		OriginalURL: req.OriginalURL,
		Title:       req.Title,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidURL) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "valid originalUrl is required",
			})
		}
		h.logger.Error("failed to create link", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create link",
		})
	}

	if h.codes != nil {
		h.codes.Add(link.ShortCode)
	}
	metrics.LinksCreatedTotal.Inc()

	return c.Status(fiber.StatusCreated).JSON(link)
}

// ListLinks handles GET /api/links, newest first.
func (h *APIHandler) ListLinks(c *fiber.Ctx) error {
	links, err := h.linkService.GetAllLinks(h.requestCtx(c))
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list links",
		})
	}
	return c.JSON(links)
}

// GetLink handles GET /api/links/:code.
func (h *APIHandler) GetLink(c *fiber.Ctx) error {
	code := c.Params("code")
	link, err := h.linkService.GetLinkByShortCode(h.requestCtx(c), code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "link not found",
			})
		}
		h.logger.Error("failed to get link", zap.Error(err), zap.String("code", code))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get link",
		})
	}
	return c.JSON(link)
}

// UpdateLinkRequest is the body of PUT /api/links/:id.
type UpdateLinkRequest struct {
	OriginalURL *string `json:"originalUrl,omitempty"`
	Title       *string `json:"title,omitempty"`
}

// UpdateLink handles PUT /api/links/:id.
func (h *APIHandler) UpdateLink(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	link, err := h.linkService.UpdateLink(h.requestCtx(c), id, service.UpdateLinkInput{
		OriginalURL: req.OriginalURL,
		Title:       req.Title,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "valid originalUrl is required",
			})
		case errors.Is(err, repository.ErrLinkNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "link not found",
			})
		}
		h.logger.Error("failed to update link", zap.Error(err), zap.String("id", id))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update link",
		})
	}
	return c.JSON(link)
}

// DeleteLink handles DELETE /api/links?id=... and succeeds even when the id is
// already gone.
func (h *APIHandler) DeleteLink(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "link id is required",
		})
	}

	if err := h.linkService.DeleteLink(h.requestCtx(c), id); err != nil {
		h.logger.Error("failed to delete link", zap.Error(err), zap.String("id", id))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete link",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *APIHandler) requestCtx(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}
