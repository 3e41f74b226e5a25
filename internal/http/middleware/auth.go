package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tinylink-io/linklite/internal/app/service"
)

// UserIDKey is the fiber.Ctx locals key holding the authenticated user id.
const UserIDKey = "user_id"

// RequireSession rejects requests without a valid bearer session token. The
// redirect path is registered outside this middleware and stays public.
func RequireSession(sessions *service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := parseBearer(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		userID, err := sessions.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

func parseBearer(header string) string {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return fields[1]
}
