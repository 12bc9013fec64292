package api

import "github.com/gofiber/fiber/v2"

// MapAPIs wires the public surface: account endpoints plus everything a
// bearer capability token (response, signature, invite, reset) unlocks.
func MapAPIs(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	{
		auth.Post("/sign-up", signUp)
		auth.Post("/verify", verifyEmail)
		auth.Post("/login", login)
		auth.Post("/logout", logout)
		auth.Post("/password-reset", requestPasswordReset)
		auth.Put("/password-reset", resetPassword)
	}

	invites := api.Group("/invites")
	{
		invites.Get("/:token", getInvite)
		invites.Post("/:token/accept", acceptInvite)
	}

	surveys := api.Group("/surveys")
	{
		surveys.Get("/:token", getSurveyForResponse)
		surveys.Put("/:token/answers", submitAnswers)
		surveys.Post("/:token/signature-requests", requestSignature)
		surveys.Post("/:token/sign/:signature", signResponse)
	}
}
