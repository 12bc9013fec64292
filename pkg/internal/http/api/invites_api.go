package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hoacouncil/canvass/pkg/internal/http/exts"
	"github.com/hoacouncil/canvass/pkg/internal/services"
)

func getInvite(c *fiber.Ctx) error {
	admin, err := services.GetInviteWithToken(c.Params("token"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(fiber.Map{
		"email": admin.Email,
		"name":  admin.Name,
		"role":  admin.Role,
	})
}

func acceptInvite(c *fiber.Ctx) error {
	var data struct {
		Name     string `json:"name"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	admin, err := services.AcceptInvite(c.Params("token"), data.Name, data.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(admin)
}
