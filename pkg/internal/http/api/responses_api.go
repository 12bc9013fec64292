package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hoacouncil/canvass/pkg/internal/http/exts"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"github.com/hoacouncil/canvass/pkg/internal/services"
	"github.com/samber/lo"
)

// lifecycleError maps state-guard violations to 409 with their message;
// anything else is a persistence failure and surfaces as a generic 500.
func lifecycleError(err error) error {
	switch {
	case errors.Is(err, services.ErrSurveyClosed),
		errors.Is(err, services.ErrAlreadySigned),
		errors.Is(err, services.ErrNotSubmitted),
		errors.Is(err, services.ErrSignatureMismatch):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return exts.InternalError(err, "Response lifecycle operation failed.")
	}
}

// getSurveyForResponse renders the answering page payload: the survey, its
// questions in display order, and any previously stored answers decoded back
// into their submitted shape.
func getSurveyForResponse(c *fiber.Ctx) error {
	response, err := services.GetResponseWithToken(c.Params("token"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	survey, err := services.GetSurveyWithID(response.SurveyID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	var answers []models.Answer
	if response.Submitted() {
		full, err := services.GetResponseWithID(response.ID)
		if err == nil {
			answers = full.Answers
		}
	}

	return c.JSON(fiber.Map{
		"survey":    survey,
		"questions": survey.Questions,
		"response":  response,
		"answers": lo.SliceToMap(answers, func(item models.Answer) (uint, any) {
			return item.QuestionID, services.DecodeAnswerValue(item.Value)
		}),
	})
}

func submitAnswers(c *fiber.Ctx) error {
	response, err := services.GetResponseWithToken(c.Params("token"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	survey, err := services.GetSurveyWithID(response.SurveyID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	var data struct {
		Answers map[uint]any `json:"answers" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	response, err = services.SubmitAnswers(survey, response, data.Answers)
	if err != nil {
		return lifecycleError(err)
	}

	return c.JSON(response)
}

func requestSignature(c *fiber.Ctx) error {
	response, err := services.GetResponseWithToken(c.Params("token"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	survey, err := services.GetSurveyWithID(response.SurveyID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	response, err = services.RequestSignature(survey, response)
	if err != nil {
		return lifecycleError(err)
	}

	return c.JSON(response)
}

func signResponse(c *fiber.Ctx) error {
	response, err := services.GetResponseWithToken(c.Params("token"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	survey, err := services.GetSurveyWithID(response.SurveyID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	response, err = services.SignResponse(survey, response, c.Params("signature"))
	if err != nil {
		return lifecycleError(err)
	}

	return c.JSON(response)
}
