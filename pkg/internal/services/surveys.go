package services

import (
	"fmt"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"gorm.io/gorm"
)

func ListSurveys() ([]models.Survey, error) {
	var surveys []models.Survey
	if err := database.C.Preload("MemberList").Order("closes_at DESC").Find(&surveys).Error; err != nil {
		return nil, fmt.Errorf("unable to list surveys: %v", err)
	}
	return surveys, nil
}

func GetSurveyWithID(id uint) (models.Survey, error) {
	var survey models.Survey
	if err := database.C.
		Preload("MemberList").
		Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Where("id = ?", id).First(&survey).Error; err != nil {
		return survey, fmt.Errorf("unable to get survey: %v", err)
	}
	return survey, nil
}

// NewSurvey creates the survey and seeds one unsubmitted response per member
// of the attached list.
func NewSurvey(survey models.Survey) (models.Survey, error) {
	if err := database.C.Create(&survey).Error; err != nil {
		return survey, fmt.Errorf("unable to create survey: %v", err)
	}
	if err := SeedResponses(survey); err != nil {
		return survey, err
	}
	return survey, nil
}

func UpdateSurvey(survey models.Survey) (models.Survey, error) {
	if err := database.C.Save(&survey).Error; err != nil {
		return survey, fmt.Errorf("unable to update survey: %v", err)
	}
	return survey, nil
}

// ChangeSurveyMemberList re-targets the survey at another member list. The
// change conflicts once anyone has submitted, because seeded responses would
// be discarded.
func ChangeSurveyMemberList(survey models.Survey, list models.MemberList) (models.Survey, error) {
	var submitted int64
	if err := database.C.Model(&models.Response{}).
		Where("survey_id = ? AND submitted_at IS NOT NULL", survey.ID).
		Count(&submitted).Error; err != nil {
		return survey, fmt.Errorf("unable to count submissions: %v", err)
	}
	if submitted > 0 {
		return survey, fmt.Errorf("survey already has submitted responses")
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("survey_id = ?", survey.ID).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		survey.MemberListID = list.ID
		survey.MemberList = list
		return tx.Save(&survey).Error
	})
	if err != nil {
		return survey, fmt.Errorf("unable to change member list: %v", err)
	}

	return survey, SeedResponses(survey)
}

func DeleteSurvey(survey models.Survey) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("survey_id = ?", survey.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		var responses []models.Response
		if err := tx.Where("survey_id = ?", survey.ID).Find(&responses).Error; err != nil {
			return err
		}
		for _, response := range responses {
			if err := tx.Where("response_id = ?", response.ID).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("survey_id = ?", survey.ID).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("survey_id = ?", survey.ID).Delete(&models.Reminder{}).Error; err != nil {
			return err
		}
		return tx.Delete(&survey).Error
	})
}

// SeedResponses creates a response for every list member that has none yet,
// minting the distribution token each response link will carry.
func SeedResponses(survey models.Survey) error {
	list, err := GetMemberListWithID(survey.MemberListID)
	if err != nil {
		return err
	}

	for _, member := range list.Members {
		var count int64
		if err := database.C.Model(&models.Response{}).
			Where("survey_id = ? AND member_id = ?", survey.ID, member.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("unable to check for existing response: %v", err)
		}
		if count > 0 {
			continue
		}

		token, err := RandomToken(24)
		if err != nil {
			return err
		}
		response := models.Response{
			SurveyID: survey.ID,
			MemberID: member.ID,
			Token:    token,
		}
		if err := database.C.Create(&response).Error; err != nil {
			return fmt.Errorf("unable to seed response: %v", err)
		}
	}
	return nil
}

func nextSortOrder(surveyID uint) (int, error) {
	var max int
	err := database.C.Model(&models.Question{}).
		Where("survey_id = ?", surveyID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("unable to get question order: %v", err)
	}
	return max + 1, nil
}

func NewQuestion(survey models.Survey, question models.Question) (models.Question, error) {
	question.SurveyID = survey.ID
	if question.SortOrder == 0 {
		order, err := nextSortOrder(survey.ID)
		if err != nil {
			return question, err
		}
		question.SortOrder = order
	}

	if err := database.C.Create(&question).Error; err != nil {
		return question, fmt.Errorf("unable to create question: %v", err)
	}
	return question, nil
}

func UpdateQuestion(question models.Question) (models.Question, error) {
	if err := database.C.Save(&question).Error; err != nil {
		return question, fmt.Errorf("unable to update question: %v", err)
	}
	return question, nil
}

func DeleteQuestion(question models.Question) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
}

// ReorderQuestions assigns sort orders following the given id sequence.
func ReorderQuestions(survey models.Survey, questionIDs []uint) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		for idx, id := range questionIDs {
			if err := tx.Model(&models.Question{}).
				Where("id = ? AND survey_id = ?", id, survey.ID).
				Update("sort_order", idx+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func GetQuestionWithID(surveyID, id uint) (models.Question, error) {
	var question models.Question
	if err := database.C.Where("id = ? AND survey_id = ?", id, surveyID).First(&question).Error; err != nil {
		return question, fmt.Errorf("unable to get question: %v", err)
	}
	return question, nil
}
