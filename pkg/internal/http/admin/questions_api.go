package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hoacouncil/canvass/pkg/internal/http/exts"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"github.com/hoacouncil/canvass/pkg/internal/services"
	"gorm.io/datatypes"
)

type questionPayload struct {
	Text     string               `json:"text" validate:"required"`
	Type     string               `json:"type" validate:"required,oneof=MULTI_SINGLE MULTI_MULTI YES_NO RATING_5 PARAGRAPH"`
	Options  []string             `json:"options"`
	Required bool                 `json:"required"`
	ShowWhen *models.ShowWhenRule `json:"show_when"`
}

func (p questionPayload) apply(question models.Question) models.Question {
	question.Text = p.Text
	question.Type = p.Type
	question.Options = datatypes.NewJSONSlice(p.Options)
	question.Required = p.Required
	if p.ShowWhen != nil {
		rule := datatypes.NewJSONType(*p.ShowWhen)
		question.ShowWhen = &rule
	} else {
		question.ShowWhen = nil
	}
	return question
}

func createQuestion(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")

	var data questionPayload
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	survey, err := services.GetSurveyWithID(uint(surveyId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	question, err := services.NewQuestion(survey, data.apply(models.Question{}))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(question)
}

func updateQuestion(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")
	questionId, _ := c.ParamsInt("questionId")

	var data questionPayload
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	question, err := services.GetQuestionWithID(uint(surveyId), uint(questionId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	question, err = services.UpdateQuestion(data.apply(question))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(question)
}

func deleteQuestion(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")
	questionId, _ := c.ParamsInt("questionId")

	question, err := services.GetQuestionWithID(uint(surveyId), uint(questionId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeleteQuestion(question); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func reorderQuestions(c *fiber.Ctx) error {
	surveyId, _ := c.ParamsInt("surveyId")

	var data struct {
		QuestionIDs []uint `json:"question_ids" validate:"required,min=1"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	survey, err := services.GetSurveyWithID(uint(surveyId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.ReorderQuestions(survey, data.QuestionIDs); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}
