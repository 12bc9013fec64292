package services

import (
	"reflect"
	"testing"

	"github.com/hoacouncil/canvass/pkg/internal/models"
)

func answerRows(values ...string) []models.Answer {
	answers := make([]models.Answer, 0, len(values))
	for _, value := range values {
		answers = append(answers, models.Answer{Value: value})
	}
	return answers
}

func TestTabulateQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question models.Question
		answers  []models.Answer
		want     QuestionStats
	}{
		{
			"yes/no counts",
			models.Question{Type: models.QuestionTypeYesNo},
			answerRows("Yes", "No", "Yes", "Yes"),
			QuestionStats{Type: models.QuestionTypeYesNo, Total: 4, Counts: map[string]int{"Yes": 3, "No": 1}},
		},
		{
			"single choice counts",
			models.Question{Type: models.QuestionTypeMultiSingle},
			answerRows("Pool", "Gym", "Pool"),
			QuestionStats{Type: models.QuestionTypeMultiSingle, Total: 3, Counts: map[string]int{"Pool": 2, "Gym": 1}},
		},
		{
			"multi choice flattens selections",
			models.Question{Type: models.QuestionTypeMultiMulti},
			answerRows(`["Pool","Gym"]`, `["Pool"]`),
			QuestionStats{Type: models.QuestionTypeMultiMulti, Total: 2, Counts: map[string]int{"Pool": 2, "Gym": 1}},
		},
		{
			"rating mean rounds to one decimal",
			models.Question{Type: models.QuestionTypeRating5},
			answerRows("5", "4", "4"),
			QuestionStats{Type: models.QuestionTypeRating5, Total: 3, Average: 4.3, Histogram: map[string]int{"5": 1, "4": 2}},
		},
		{
			"rating skips non-numeric garbage",
			models.Question{Type: models.QuestionTypeRating5},
			answerRows("3", "unrated"),
			QuestionStats{Type: models.QuestionTypeRating5, Total: 2, Average: 3, Histogram: map[string]int{"3": 1}},
		},
		{
			"paragraph passthrough",
			models.Question{Type: models.QuestionTypeParagraph},
			answerRows("First comment", "Second comment"),
			QuestionStats{Type: models.QuestionTypeParagraph, Total: 2, Texts: []string{"First comment", "Second comment"}},
		},
		{
			"no answers",
			models.Question{Type: models.QuestionTypeYesNo},
			nil,
			QuestionStats{Type: models.QuestionTypeYesNo, Total: 0, Counts: map[string]int{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TabulateQuestion(tt.question, tt.answers)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TabulateQuestion() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
