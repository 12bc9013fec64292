package services

import (
	"testing"
	"time"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/models"
)

func TestDeleteSurveyCascades(t *testing.T) {
	useTestDatabase(t)

	member := models.Member{Lot: "3B", Name: "Kim Park", Email: "kim@example.com"}
	if err := database.C.Create(&member).Error; err != nil {
		t.Fatalf("unable to seed member: %v", err)
	}
	survey := models.Survey{
		Title:   "Clubhouse renovation",
		OpensAt: time.Now().Add(-time.Hour), ClosesAt: time.Now().Add(time.Hour),
	}
	if err := database.C.Create(&survey).Error; err != nil {
		t.Fatalf("unable to seed survey: %v", err)
	}
	question := models.Question{SurveyID: survey.ID, Text: "Approve?", Type: models.QuestionTypeYesNo, SortOrder: 1}
	if err := database.C.Create(&question).Error; err != nil {
		t.Fatalf("unable to seed question: %v", err)
	}
	response := models.Response{SurveyID: survey.ID, MemberID: member.ID, Token: "cascade-token"}
	if err := database.C.Create(&response).Error; err != nil {
		t.Fatalf("unable to seed response: %v", err)
	}
	answer := models.Answer{ResponseID: response.ID, QuestionID: question.ID, Value: "Yes"}
	if err := database.C.Create(&answer).Error; err != nil {
		t.Fatalf("unable to seed answer: %v", err)
	}
	reminder := models.Reminder{SurveyID: survey.ID, MemberID: member.ID, SentAt: time.Now(), ReminderNum: 1}
	if err := database.C.Create(&reminder).Error; err != nil {
		t.Fatalf("unable to seed reminder: %v", err)
	}

	if err := DeleteSurvey(survey); err != nil {
		t.Fatalf("DeleteSurvey() error = %v", err)
	}

	counts := []struct {
		name  string
		model any
		where string
		arg   uint
	}{
		{"questions", &models.Question{}, "survey_id = ?", survey.ID},
		{"responses", &models.Response{}, "survey_id = ?", survey.ID},
		{"answers", &models.Answer{}, "response_id = ?", response.ID},
		{"reminders", &models.Reminder{}, "survey_id = ?", survey.ID},
	}
	for _, tt := range counts {
		var rows int64
		database.C.Model(tt.model).Where(tt.where, tt.arg).Count(&rows)
		if rows != 0 {
			t.Errorf("%d %s left behind after survey deletion", rows, tt.name)
		}
	}
}
