package services

import (
	"fmt"
	"math"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"gorm.io/gorm"
)

type QuestionStats struct {
	QuestionID uint           `json:"question_id"`
	Text       string         `json:"text"`
	Type       string         `json:"type"`
	Total      int            `json:"total"`
	Counts     map[string]int `json:"counts,omitempty"`
	Average    float64        `json:"average,omitempty"`
	Histogram  map[string]int `json:"histogram,omitempty"`
	Texts      []string       `json:"texts,omitempty"`
}

// TabulateQuestion aggregates a question's answers by type: exact-match
// counts for YES_NO and MULTI_SINGLE, flattened option counts for
// MULTI_MULTI, mean (one decimal) plus histogram for RATING_5, and raw
// passthrough for PARAGRAPH.
func TabulateQuestion(question models.Question, answers []models.Answer) QuestionStats {
	stats := QuestionStats{
		QuestionID: question.ID,
		Text:       question.Text,
		Type:       question.Type,
		Total:      len(answers),
	}

	switch question.Type {
	case models.QuestionTypeYesNo, models.QuestionTypeMultiSingle:
		stats.Counts = make(map[string]int)
		for _, answer := range answers {
			stats.Counts[answer.Value]++
		}
	case models.QuestionTypeMultiMulti:
		stats.Counts = make(map[string]int)
		for _, answer := range answers {
			switch value := DecodeAnswerValue(answer.Value).(type) {
			case []any:
				for _, entry := range value {
					if option, ok := entry.(string); ok {
						stats.Counts[option]++
					}
				}
			case string:
				stats.Counts[value]++
			}
		}
	case models.QuestionTypeRating5:
		stats.Histogram = make(map[string]int)
		sum := 0.0
		rated := 0
		for _, answer := range answers {
			rating, ok := DecodeAnswerValue(answer.Value).(float64)
			if !ok {
				continue
			}
			stats.Histogram[fmt.Sprintf("%d", int(rating))]++
			sum += rating
			rated++
		}
		if rated > 0 {
			stats.Average = math.Round(sum/float64(rated)*10) / 10
		}
	case models.QuestionTypeParagraph:
		for _, answer := range answers {
			stats.Texts = append(stats.Texts, answer.Value)
		}
	}

	return stats
}

// GetSurveyStatistics tabulates every question of the survey in display
// order.
func GetSurveyStatistics(survey models.Survey) ([]QuestionStats, error) {
	var questions []models.Question
	if err := database.C.Where("survey_id = ?", survey.ID).
		Order("sort_order ASC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("unable to load questions: %v", err)
	}

	var answers []models.Answer
	err := database.C.
		Joins("JOIN responses ON responses.id = answers.response_id").
		Where("responses.survey_id = ? AND responses.deleted_at IS NULL", survey.ID).
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("unable to load answers: %v", err)
	}

	byQuestion := make(map[uint][]models.Answer)
	for _, answer := range answers {
		byQuestion[answer.QuestionID] = append(byQuestion[answer.QuestionID], answer)
	}

	stats := make([]QuestionStats, 0, len(questions))
	for _, question := range questions {
		stats = append(stats, TabulateQuestion(question, byQuestion[question.ID]))
	}
	return stats, nil
}

// CountSubmittedResponses is used by the results dashboard header.
func CountSubmittedResponses(tx *gorm.DB, surveyID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Response{}).
		Where("survey_id = ? AND submitted_at IS NOT NULL", surveyID).
		Count(&count).Error
	return count, err
}
