package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tinylink-io/linklite/internal/app/service"
	"go.uber.org/zap"
)

// AuthDeps groups dependencies required by the auth endpoints.
type AuthDeps struct {
	Logger *zap.Logger
	Auth   *service.AuthService
}

// AuthHandler implements registration and login for the single admin account.
type AuthHandler struct {
	logger *zap.Logger
	auth   *service.AuthService
}

// NewAuthHandler creates an auth handler with the provided dependencies.
func NewAuthHandler(deps AuthDeps) *AuthHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{logger: logger, auth: deps.Auth}
}

// Register wires the /api/auth routes. Both are public by design: register is
// self-gating and login is the entry point.
func (h *AuthHandler) Register(router fiber.Router) {
	auth := router.Group("/api/auth")
	auth.Post("/register", h.RegisterUser)
	auth.Post("/login", h.Login)
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterUser handles POST /api/auth/register. Succeeds exactly once per
// deployment; afterwards every attempt is rejected with 403.
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	user, err := h.auth.Register(h.requestCtx(c), req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "name and password are required",
			})
		case errors.Is(err, service.ErrRegistrationClosed):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "registration is closed",
			})
		}
		h.logger.Error("failed to register user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to register user",
		})
	}

	return c.JSON(fiber.Map{
		"id":   user.ID,
		"name": user.Name,
	})
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. Unknown user and wrong password produce
// the same response.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	token, err := h.auth.Authenticate(h.requestCtx(c), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid credentials",
			})
		}
		h.logger.Error("login failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{"token": token})
}

func (h *AuthHandler) requestCtx(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}
