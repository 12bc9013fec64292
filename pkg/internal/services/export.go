package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hoacouncil/canvass/pkg/internal/models"
	"github.com/samber/lo"
)

// ResultRow pairs a member's response with its answers keyed by question id.
type ResultRow struct {
	Member   models.Member
	Response models.Response
	Answers  map[uint]string
}

// exportCell renders a stored answer for CSV: array values are joined with
// "; ", everything else passes through as text.
func exportCell(raw string) string {
	value := DecodeAnswerValue(raw)
	if entries, ok := value.([]any); ok {
		parts := lo.FilterMap(entries, func(entry any, _ int) (string, bool) {
			text, ok := entry.(string)
			return text, ok
		})
		return strings.Join(parts, "; ")
	}
	return raw
}

func exportTimestamp(stamp *time.Time, loc *time.Location) string {
	if stamp == nil {
		return ""
	}
	return stamp.In(loc).Format("2006-01-02 15:04")
}

// WriteResultsCSV streams the survey results: fixed member/lifecycle columns
// followed by one column per question in display order. encoding/csv handles
// quoting of commas, quotes and newlines.
func WriteResultsCSV(w io.Writer, questions []models.Question, rows []ResultRow, loc *time.Location) error {
	writer := csv.NewWriter(w)

	header := []string{"Lot", "Name", "Email", "Submitted At", "Signed", "Signed At"}
	for _, question := range questions {
		header = append(header, question.Text)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.Member.Lot,
			row.Member.Name,
			row.Member.Email,
			exportTimestamp(row.Response.SubmittedAt, loc),
			fmt.Sprintf("%t", row.Response.Signed),
			exportTimestamp(row.Response.SignedAt, loc),
		}
		for _, question := range questions {
			record = append(record, exportCell(row.Answers[question.ID]))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportSurveyCSV loads the survey's responses and writes the full results
// file.
func ExportSurveyCSV(w io.Writer, survey models.Survey) error {
	full, err := GetSurveyWithID(survey.ID)
	if err != nil {
		return err
	}

	responses, err := ListSurveyResponses(full)
	if err != nil {
		return err
	}

	rows := lo.Map(responses, func(response models.Response, _ int) ResultRow {
		answers := make(map[uint]string, len(response.Answers))
		for _, answer := range response.Answers {
			answers[answer.QuestionID] = answer.Value
		}
		return ResultRow{
			Member:   response.Member,
			Response: response,
			Answers:  answers,
		}
	})

	return WriteResultsCSV(w, full.Questions, rows, DisplayLocation())
}
