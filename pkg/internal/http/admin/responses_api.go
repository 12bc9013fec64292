package admin

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/hoacouncil/canvass/pkg/internal/http/exts"
	"github.com/hoacouncil/canvass/pkg/internal/services"
)

func listResponses(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")

	survey, err := services.GetSurveyWithID(uint(surveyId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	responses, err := services.ListSurveyResponses(survey)
	if err != nil {
		return exts.InternalError(err, "Unable to list responses.")
	}
	return c.JSON(responses)
}

func getStatistics(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")

	survey, err := services.GetSurveyWithID(uint(surveyId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	stats, err := services.GetSurveyStatistics(survey)
	if err != nil {
		return exts.InternalError(err, "Unable to tabulate survey statistics.")
	}
	return c.JSON(stats)
}

func exportResults(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")

	survey, err := services.GetSurveyWithID(uint(surveyId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	var buffer bytes.Buffer
	if err := services.ExportSurveyCSV(&buffer, survey); err != nil {
		return exts.InternalError(err, "Unable to export survey results.")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"survey-%d-results.csv\"", survey.ID))
	return c.Send(buffer.Bytes())
}

func distributeSurvey(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")

	survey, err := services.GetSurveyWithID(uint(surveyId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	outcome, err := services.DistributeSurvey(survey)
	if err != nil {
		return exts.InternalError(err, "Unable to distribute survey.")
	}
	return c.JSON(outcome)
}

func broadcastReminders(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")

	survey, err := services.GetSurveyWithID(uint(surveyId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	outcome, err := services.BroadcastReminders(survey)
	if err != nil {
		return exts.InternalError(err, "Unable to broadcast reminders.")
	}
	return c.JSON(outcome)
}

// unlockResponse reopens a signed response; unlocking an unsigned one is a
// deliberate 200 no-op.
func unlockResponse(c *fiber.Ctx) error {
	responseId, _ := c.ParamsInt("responseId")

	response, err := services.GetResponseWithID(uint(responseId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	response, err = services.UnlockResponse(response)
	if err != nil {
		return exts.InternalError(err, "Unable to unlock response.")
	}
	return c.JSON(response)
}

// resetResponse discards the member's response entirely and seeds a fresh
// one with a new distribution token.
func resetResponse(c *fiber.Ctx) error {
	responseId, _ := c.ParamsInt("responseId")

	response, err := services.GetResponseWithID(uint(responseId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	replacement, err := services.ResetResponse(response)
	if err != nil {
		return exts.InternalError(err, "Unable to reset response.")
	}
	return c.JSON(replacement)
}
