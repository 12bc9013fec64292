package admin

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/hoacouncil/canvass/pkg/internal/http/exts"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"github.com/hoacouncil/canvass/pkg/internal/services"
)

func extractSessionToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(exts.AuthCookieName); cookie != "" {
		return cookie
	}
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// authenticated resolves the session capability token from the HTTP-only
// cookie or bearer header and loads the acting admin into locals.
func authenticated(c *fiber.Ctx) error {
	raw := extractSessionToken(c)
	if raw == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing session token")
	}

	admin, err := services.ParseSessionToken(raw)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid session token")
	}

	c.Locals("admin", admin)
	return c.Next()
}

// requireRole gates a route on the acting admin's role tier. LIMITED admins
// only pass where explicitly listed.
func requireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, ok := c.Locals("admin").(models.Admin)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing session")
		}
		for _, role := range roles {
			if admin.Role == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}
