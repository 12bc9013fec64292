package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hoacouncil/canvass/pkg/internal/http/exts"
	"github.com/hoacouncil/canvass/pkg/internal/services"
)

func signUp(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required,email"`
		Name     string `json:"name" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	admin, err := services.SignUpAdmin(data.Email, data.Name, data.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(admin)
}

func verifyEmail(c *fiber.Ctx) error {
	var data struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	admin, err := services.VerifyEmail(data.Email, data.Code)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(admin)
}

func login(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		TotpCode string `json:"totp_code"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	admin, err := services.Authenticate(data.Email, data.Password, data.TotpCode)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	token, err := services.IssueSessionToken(admin)
	if err != nil {
		return exts.InternalError(err, "Unable to issue session token.")
	}

	exts.SetSessionCookie(c, token, 24*time.Hour)
	return c.JSON(fiber.Map{
		"admin": admin,
		"token": token,
	})
}

func logout(c *fiber.Ctx) error {
	exts.ClearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// requestPasswordReset always answers 200 with the same body so the endpoint
// cannot be used to enumerate accounts.
func requestPasswordReset(c *fiber.Ctx) error {
	var data struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	services.RequestPasswordReset(data.Email)
	return c.JSON(fiber.Map{"message": "if the account exists, a reset link has been sent"})
}

func resetPassword(c *fiber.Ctx) error {
	var data struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if _, err := services.ResetPassword(data.Token, data.Password); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{"message": "password has been reset"})
}
