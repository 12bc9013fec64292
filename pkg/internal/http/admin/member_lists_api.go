package admin

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/hoacouncil/canvass/pkg/internal/http/exts"
	"github.com/hoacouncil/canvass/pkg/internal/services"
)

func listMemberLists(c *fiber.Ctx) error {
	lists, err := services.ListMemberLists()
	if err != nil {
		return exts.InternalError(err, "Unable to list member lists.")
	}
	return c.JSON(lists)
}

func getMemberList(c *fiber.Ctx) error {
	listId, _ := c.ParamsInt("listId")

	list, err := services.GetMemberListWithID(uint(listId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.JSON(list)
}

func createMemberList(c *fiber.Ctx) error {
	var data struct {
		Name string `json:"name" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	list, err := services.NewMemberList(data.Name)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(list)
}

func renameMemberList(c *fiber.Ctx) error {
	listId, _ := c.ParamsInt("listId")

	var data struct {
		Name string `json:"name" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	list, err := services.GetMemberListWithID(uint(listId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	list, err = services.RenameMemberList(list, data.Name)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(list)
}

func deleteMemberList(c *fiber.Ctx) error {
	listId, _ := c.ParamsInt("listId")

	list, err := services.GetMemberListWithID(uint(listId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeleteMemberList(list); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func addMember(c *fiber.Ctx) error {
	listId, _ := c.ParamsInt("listId")

	var data struct {
		Lot     string `json:"lot" validate:"required"`
		Name    string `json:"name" validate:"required"`
		Email   string `json:"email" validate:"required,email"`
		Address string `json:"address"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	list, err := services.GetMemberListWithID(uint(listId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	member, err := services.AddMember(list, data.Lot, data.Name, data.Email, data.Address)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(member)
}

func removeMember(c *fiber.Ctx) error {
	listId, _ := c.ParamsInt("listId")
	memberId, _ := c.ParamsInt("memberId")

	list, err := services.GetMemberListWithID(uint(listId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	for _, member := range list.Members {
		if member.ID == uint(memberId) {
			if err := services.RemoveMember(list, member); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return c.SendStatus(fiber.StatusNoContent)
		}
	}

	return fiber.NewError(fiber.StatusNotFound, "member is not on this list")
}

// importMembers accepts the raw CSV file as the request body.
func importMembers(c *fiber.Ctx) error {
	listId, _ := c.ParamsInt("listId")

	list, err := services.GetMemberListWithID(uint(listId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	imported, err := services.ImportMembers(list, bytes.NewReader(c.Body()))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{"imported": imported})
}
