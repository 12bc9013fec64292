package exts

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// InternalError logs the underlying cause and answers with a generic 500
// body, so persistence detail never reaches clients.
func InternalError(err error, msg string) error {
	log.Error().Err(err).Msg(msg)
	return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
}
