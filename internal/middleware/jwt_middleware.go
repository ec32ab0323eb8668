package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipeapi/internal/services"
)

// AuthRequired is a Fiber middleware that resolves the request's token to an
// active user and stores the user's id under "user_id".
func AuthRequired(authService *services.AuthService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication credentials were not provided",
			})
		}

		// Expected format: "Bearer <token>" or "Token <token>"
		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || (scheme != "Bearer" && scheme != "Token") || tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		user, err := authService.Authenticate(c.UserContext(), strings.TrimSpace(tokenString))
		if err != nil {
			logger.Debug("authentication failed", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals("user_id", user.ID)
		return c.Next()
	}
}
