package exts

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const AuthCookieName = "canvass_session"

// SetSessionCookie installs the signed session token as an HTTP-only cookie.
func SetSessionCookie(c *fiber.Ctx, token string, validFor time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  time.Now().Add(validFor),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
