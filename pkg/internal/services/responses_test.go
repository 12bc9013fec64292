package services

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/models"
)

func timePtr(v time.Time) *time.Time { return &v }

func strPtr(v string) *string { return &v }

func TestValidateSubmission(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	open := models.Survey{ClosesAt: now.Add(24 * time.Hour)}
	closed := models.Survey{ClosesAt: now.Add(-time.Hour)}

	tests := []struct {
		name     string
		survey   models.Survey
		response models.Response
		wantErr  error
	}{
		{"fresh response on open survey", open, models.Response{}, nil},
		{"resubmission before signing", open, models.Response{SubmittedAt: timePtr(now)}, nil},
		{"signed response is locked", open, models.Response{Signed: true}, ErrAlreadySigned},
		{"closed survey rejects", closed, models.Response{}, ErrSurveyClosed},
		{"signed wins over closed", closed, models.Response{Signed: true}, ErrAlreadySigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateSubmission(tt.survey, tt.response, now); !errors.Is(err, tt.wantErr) {
				t.Errorf("validateSubmission() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSignatureRequest(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		response models.Response
		wantErr  error
	}{
		{"submitted and unsigned", models.Response{SubmittedAt: &now}, nil},
		{"not yet submitted", models.Response{}, ErrNotSubmitted},
		{"already signed", models.Response{SubmittedAt: &now, Signed: true}, ErrAlreadySigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateSignatureRequest(tt.response); !errors.Is(err, tt.wantErr) {
				t.Errorf("validateSignatureRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSignature(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		response models.Response
		token    string
		wantErr  error
	}{
		{"matching token", models.Response{SubmittedAt: &now, SignatureToken: strPtr("abc")}, "abc", nil},
		{"wrong token", models.Response{SubmittedAt: &now, SignatureToken: strPtr("abc")}, "def", ErrSignatureMismatch},
		{"token never issued", models.Response{SubmittedAt: &now}, "abc", ErrSignatureMismatch},
		{"not submitted", models.Response{SignatureToken: strPtr("abc")}, "abc", ErrNotSubmitted},
		{"already signed", models.Response{SubmittedAt: &now, Signed: true, SignatureToken: strPtr("abc")}, "abc", ErrAlreadySigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateSignature(tt.response, tt.token); !errors.Is(err, tt.wantErr) {
				t.Errorf("validateSignature() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeAnswerValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
		keep  bool
	}{
		{"plain string", "Yes", "Yes", true},
		{"free text with comma", "Fix the gate, please", "Fix the gate, please", true},
		{"empty string dropped", "", "", false},
		{"nil dropped", nil, "", false},
		{"empty array dropped", []any{}, "", false},
		{"array serialized", []any{"A", "B"}, `["A","B"]`, true},
		{"rating", float64(4), "4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, keep := EncodeAnswerValue(tt.value)
			if keep != tt.keep {
				t.Fatalf("EncodeAnswerValue() keep = %v, want %v", keep, tt.keep)
			}
			if got != tt.want {
				t.Errorf("EncodeAnswerValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnswerValueRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"single choice", "Yes"},
		{"multi choice", []any{"Pool hours", "Landscaping"}},
		{"rating", float64(5)},
		{"paragraph", "The clubhouse roof leaks when it rains."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, keep := EncodeAnswerValue(tt.value)
			if !keep {
				t.Fatal("EncodeAnswerValue() dropped a non-empty value")
			}
			if got := DecodeAnswerValue(encoded); !reflect.DeepEqual(got, tt.value) {
				t.Errorf("round trip = %#v, want %#v", got, tt.value)
			}
		})
	}
}

func TestDecodeAnswerValueFallback(t *testing.T) {
	// Free text that happens to look JSON-ish must survive untouched.
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{"plain text", "Needs work", "Needs work"},
		{"quoted word stays raw", `"maybe"`, `"maybe"`},
		{"broken json stays raw", `["A",`, `["A",`},
		{"number decodes", "3", float64(3)},
		{"array decodes", `["A","B"]`, []any{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeAnswerValue(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeAnswerValue(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBuildAnswers(t *testing.T) {
	questionIDs := map[uint]bool{1: true, 2: true, 3: true}
	values := map[uint]any{
		1: "Yes",
		2: []any{"A", "B"},
		3: "",       // cleared answer, dropped
		9: "Orphan", // not a question of this survey
	}

	answers := buildAnswers(42, questionIDs, values)
	if len(answers) != 2 {
		t.Fatalf("buildAnswers() returned %d rows, want 2", len(answers))
	}

	byQuestion := make(map[uint]string)
	for _, answer := range answers {
		if answer.ResponseID != 42 {
			t.Errorf("answer carries response id %d, want 42", answer.ResponseID)
		}
		byQuestion[answer.QuestionID] = answer.Value
	}
	if byQuestion[1] != "Yes" {
		t.Errorf("question 1 stored %q, want %q", byQuestion[1], "Yes")
	}
	if byQuestion[2] != `["A","B"]` {
		t.Errorf("question 2 stored %q, want %q", byQuestion[2], `["A","B"]`)
	}
}

func TestGetResponseWithIDLoadsAnswers(t *testing.T) {
	useTestDatabase(t)

	member := models.Member{Lot: "12A", Name: "Pat Doe", Email: "pat@example.com"}
	if err := database.C.Create(&member).Error; err != nil {
		t.Fatalf("unable to seed member: %v", err)
	}
	survey := models.Survey{
		Title:   "Pool contract",
		OpensAt: time.Now().Add(-time.Hour), ClosesAt: time.Now().Add(time.Hour),
	}
	if err := database.C.Create(&survey).Error; err != nil {
		t.Fatalf("unable to seed survey: %v", err)
	}
	question := models.Question{SurveyID: survey.ID, Text: "Renew?", Type: models.QuestionTypeYesNo, SortOrder: 1}
	if err := database.C.Create(&question).Error; err != nil {
		t.Fatalf("unable to seed question: %v", err)
	}

	now := time.Now()
	signature := "signature-token"
	response := models.Response{
		SurveyID: survey.ID, MemberID: member.ID,
		Token: "response-token", SubmittedAt: &now, SignatureToken: &signature,
	}
	if err := database.C.Create(&response).Error; err != nil {
		t.Fatalf("unable to seed response: %v", err)
	}
	answer := models.Answer{ResponseID: response.ID, QuestionID: question.ID, Value: "Yes"}
	if err := database.C.Create(&answer).Error; err != nil {
		t.Fatalf("unable to seed answer: %v", err)
	}

	loaded, err := GetResponseWithID(response.ID)
	if err != nil {
		t.Fatalf("GetResponseWithID() error = %v", err)
	}
	if len(loaded.Answers) != 1 {
		t.Fatalf("loaded %d answers, want 1", len(loaded.Answers))
	}
	if loaded.Answers[0].Value != "Yes" {
		t.Errorf("loaded answer %q, want %q", loaded.Answers[0].Value, "Yes")
	}
	if loaded.Member.Email != member.Email {
		t.Errorf("loaded member %q, want %q", loaded.Member.Email, member.Email)
	}
}

func TestResetResponseSeedsFreshRow(t *testing.T) {
	useTestDatabase(t)

	member := models.Member{Lot: "7", Name: "Sam Lee", Email: "sam@example.com"}
	if err := database.C.Create(&member).Error; err != nil {
		t.Fatalf("unable to seed member: %v", err)
	}
	survey := models.Survey{
		Title:   "Landscaping",
		OpensAt: time.Now().Add(-time.Hour), ClosesAt: time.Now().Add(time.Hour),
	}
	if err := database.C.Create(&survey).Error; err != nil {
		t.Fatalf("unable to seed survey: %v", err)
	}

	submitted := time.Now()
	signature := "old-signature"
	response := models.Response{
		SurveyID: survey.ID, MemberID: member.ID,
		Token: "old-token", SubmittedAt: &submitted,
		SignatureToken: &signature, Signed: true, SignedAt: &submitted,
	}
	if err := database.C.Create(&response).Error; err != nil {
		t.Fatalf("unable to seed response: %v", err)
	}
	answer := models.Answer{ResponseID: response.ID, QuestionID: 1, Value: "Yes"}
	if err := database.C.Create(&answer).Error; err != nil {
		t.Fatalf("unable to seed answer: %v", err)
	}

	replacement, err := ResetResponse(response)
	if err != nil {
		t.Fatalf("ResetResponse() error = %v", err)
	}
	if replacement.Token == "old-token" {
		t.Error("replacement reuses the old distribution token")
	}
	if replacement.Submitted() || replacement.Signed || replacement.SignatureToken != nil {
		t.Error("replacement is not a fresh unsubmitted response")
	}

	var rows int64
	database.C.Unscoped().Model(&models.Response{}).
		Where("survey_id = ? AND member_id = ?", survey.ID, member.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("found %d response rows for the member, want exactly 1", rows)
	}

	var answers int64
	database.C.Unscoped().Model(&models.Answer{}).
		Where("response_id = ?", response.ID).Count(&answers)
	if answers != 0 {
		t.Errorf("found %d answers for the discarded response, want 0", answers)
	}

	if _, err := GetResponseWithToken("old-token"); err == nil {
		t.Error("old distribution token still resolves")
	}
}
