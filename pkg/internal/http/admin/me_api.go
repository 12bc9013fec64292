package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hoacouncil/canvass/pkg/internal/http/exts"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"github.com/hoacouncil/canvass/pkg/internal/services"
)

func getMe(c *fiber.Ctx) error {
	user := c.Locals("admin").(models.Admin)
	return c.JSON(user)
}

// Two-factor management is self-service only: it never consults the invite
// tree and other admins cannot toggle it on your behalf.
func beginTwoFactor(c *fiber.Ctx) error {
	user := c.Locals("admin").(models.Admin)

	user, url, err := services.BeginTwoFactor(user)
	if err != nil {
		return exts.InternalError(err, "Unable to begin two-factor setup.")
	}

	return c.JSON(fiber.Map{
		"otpauth_url": url,
		"admin":       user,
	})
}

func confirmTwoFactor(c *fiber.Ctx) error {
	user := c.Locals("admin").(models.Admin)

	var data struct {
		Code string `json:"code" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, err := services.ConfirmTwoFactor(user, data.Code)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(user)
}

func disableTwoFactor(c *fiber.Ctx) error {
	user := c.Locals("admin").(models.Admin)

	user, err := services.DisableTwoFactor(user)
	if err != nil {
		return exts.InternalError(err, "Unable to disable two-factor.")
	}

	return c.JSON(user)
}
