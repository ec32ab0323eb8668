package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	domainerrors "recipeapi/internal/errors"
)

// respondError writes err as {"message", "errors"} with the status mapped
// from its domain code. Unexpected errors are logged and hidden.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	status := domainerrors.Status(err)

	var domainErr *domainerrors.Error
	if status >= fiber.StatusInternalServerError || !domainerrors.As(err, &domainErr) {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}

	body := fiber.Map{"message": domainErr.Message}
	if domainErr.Details != nil {
		body["errors"] = domainErr.Details
	}
	return c.Status(status).JSON(body)
}

// currentUserID returns the id stored by middleware.AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

func parseID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, domainerrors.NotFound(fmt.Sprintf("no resource with ID %q", raw))
	}
	return uint(id), nil
}

// parseIDList parses a comma separated list of ids such as "1,2,3".
func parseIDList(param, raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, domainerrors.ValidationWithDetails("invalid filter", map[string]string{
				param: fmt.Sprintf("%q is not a valid id", part),
			})
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// parseBody decodes the request body into dst.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domainerrors.Validation("invalid request body").WithCause(err)
	}
	return nil
}
