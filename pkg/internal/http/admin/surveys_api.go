package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hoacouncil/canvass/pkg/internal/http/exts"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"github.com/hoacouncil/canvass/pkg/internal/services"
)

func listSurveys(c *fiber.Ctx) error {
	surveys, err := services.ListSurveys()
	if err != nil {
		return exts.InternalError(err, "Unable to list surveys.")
	}
	return c.JSON(surveys)
}

func getSurvey(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")

	survey, err := services.GetSurveyWithID(uint(surveyId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.JSON(survey)
}

func createSurvey(c *fiber.Ctx) error {
	var data struct {
		Title                string    `json:"title" validate:"required"`
		Description          string    `json:"description"`
		OpensAt              time.Time `json:"opens_at" validate:"required"`
		ClosesAt             time.Time `json:"closes_at" validate:"required"`
		MemberListID         uint      `json:"member_list_id" validate:"required"`
		NotifyOnMinResponses bool      `json:"notify_on_min_responses"`
		MinResponses         int       `json:"min_responses"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if _, err := services.GetMemberListWithID(data.MemberListID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	survey := models.Survey{
		Title:                data.Title,
		Description:          data.Description,
		OpensAt:              data.OpensAt,
		ClosesAt:             data.ClosesAt,
		MemberListID:         data.MemberListID,
		NotifyOnMinResponses: data.NotifyOnMinResponses,
		MinResponses:         data.MinResponses,
	}

	survey, err := services.NewSurvey(survey)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(survey)
}

func updateSurvey(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")

	var data struct {
		Title                string    `json:"title" validate:"required"`
		Description          string    `json:"description"`
		OpensAt              time.Time `json:"opens_at" validate:"required"`
		ClosesAt             time.Time `json:"closes_at" validate:"required"`
		NotifyOnMinResponses bool      `json:"notify_on_min_responses"`
		MinResponses         int       `json:"min_responses"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	survey, err := services.GetSurveyWithID(uint(surveyId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	survey.Title = data.Title
	survey.Description = data.Description
	survey.OpensAt = data.OpensAt
	survey.ClosesAt = data.ClosesAt
	survey.NotifyOnMinResponses = data.NotifyOnMinResponses
	survey.MinResponses = data.MinResponses

	survey, err = services.UpdateSurvey(survey)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(survey)
}

// changeSurveyMemberList conflicts once the survey has any submitted
// response, because re-seeding would discard them.
func changeSurveyMemberList(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")

	var data struct {
		MemberListID uint `json:"member_list_id" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	survey, err := services.GetSurveyWithID(uint(surveyId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	list, err := services.GetMemberListWithID(data.MemberListID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	survey, err = services.ChangeSurveyMemberList(survey, list)
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return c.JSON(survey)
}

func deleteSurvey(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")

	survey, err := services.GetSurveyWithID(uint(surveyId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeleteSurvey(survey); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}
