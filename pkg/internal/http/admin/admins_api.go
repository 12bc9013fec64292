package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hoacouncil/canvass/pkg/internal/http/exts"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"github.com/hoacouncil/canvass/pkg/internal/services"
)

// listAdmins shows the caller's managed subtree plus themselves; admins
// outside the subtree stay invisible.
func listAdmins(c *fiber.Ctx) error {
	user := c.Locals("admin").(models.Admin)

	managed, err := services.GetManagedAdmins(user.ID)
	if err != nil {
		return exts.InternalError(err, "Unable to load managed admins.")
	}

	return c.JSON(append([]models.Admin{user}, managed...))
}

func createInvite(c *fiber.Ctx) error {
	user := c.Locals("admin").(models.Admin)

	var data struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name" validate:"required"`
		Role  string `json:"role" validate:"required,oneof=FULL VIEW_ONLY"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	invited, err := services.NewInvite(user, data.Email, data.Name, data.Role)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(invited)
}

func changeAdminRole(c *fiber.Ctx) error {
	user := c.Locals("admin").(models.Admin)
	adminId, _ := c.ParamsInt("adminId")

	if uint(adminId) == user.ID {
		return fiber.NewError(fiber.StatusForbidden, "you cannot change your own role")
	}

	var data struct {
		Role string `json:"role" validate:"required,oneof=FULL VIEW_ONLY"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	target, err := services.GetAdminWithID(uint(adminId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if !services.CanManage(user.ID, target.ID) {
		return fiber.NewError(fiber.StatusForbidden, "admin is not in your invite tree")
	}

	target, err = services.ChangeAdminRole(user, target, data.Role)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(target)
}

func deleteAdmin(c *fiber.Ctx) error {
	user := c.Locals("admin").(models.Admin)
	adminId, _ := c.ParamsInt("adminId")

	if uint(adminId) == user.ID {
		return fiber.NewError(fiber.StatusForbidden, "you cannot delete yourself")
	}

	target, err := services.GetAdminWithID(uint(adminId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if !services.CanManage(user.ID, target.ID) {
		return fiber.NewError(fiber.StatusForbidden, "admin is not in your invite tree")
	}

	if err := services.DeleteAdmin(user, target); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.SendStatus(fiber.StatusNoContent)
}
