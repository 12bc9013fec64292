package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/mailer"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// State-guard violations map to 409 Conflict at the HTTP layer; callers may
// branch on the message text.
var (
	ErrSurveyClosed      = errors.New("survey has already closed")
	ErrAlreadySigned     = errors.New("response has already been signed")
	ErrNotSubmitted      = errors.New("response has not been submitted yet")
	ErrSignatureMismatch = errors.New("signature token does not match")
)

// validateSubmission gates the submit-answers transition. A signed response
// is terminal for edits; a closed survey rejects everything.
func validateSubmission(survey models.Survey, response models.Response, now time.Time) error {
	if response.Signed {
		return ErrAlreadySigned
	}
	if survey.Closed(now) {
		return ErrSurveyClosed
	}
	return nil
}

func validateSignatureRequest(response models.Response) error {
	if !response.Submitted() {
		return ErrNotSubmitted
	}
	if response.Signed {
		return ErrAlreadySigned
	}
	return nil
}

// validateSignature is capability-based: whoever holds both the response
// token and the matching signature token may sign.
func validateSignature(response models.Response, signatureToken string) error {
	if !response.Submitted() {
		return ErrNotSubmitted
	}
	if response.Signed {
		return ErrAlreadySigned
	}
	if response.SignatureToken == nil || *response.SignatureToken != signatureToken {
		return ErrSignatureMismatch
	}
	return nil
}

// EncodeAnswerValue renders a submitted value into its stored string form.
// Empty strings, nils and empty arrays are dropped rather than stored; arrays
// and objects are JSON-serialized.
func EncodeAnswerValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case []any:
		if len(v) == 0 {
			return "", false
		}
	}

	raw, err := jsoniter.MarshalToString(value)
	if err != nil {
		return "", false
	}
	return raw, true
}

// DecodeAnswerValue parses a stored value back into its submitted shape,
// falling back to the raw string so historical free-text answers that happen
// not to be valid JSON are not corrupted.
func DecodeAnswerValue(raw string) any {
	var parsed any
	if err := jsoniter.UnmarshalFromString(raw, &parsed); err != nil {
		return raw
	}
	switch parsed.(type) {
	case []any, map[string]any, float64, bool:
		return parsed
	}
	return raw
}

// buildAnswers filters a submission down to rows worth storing: values must
// be non-empty and keyed by a question that belongs to the survey.
func buildAnswers(responseID uint, questionIDs map[uint]bool, values map[uint]any) []models.Answer {
	var answers []models.Answer
	for questionID, value := range values {
		if !questionIDs[questionID] {
			continue
		}
		encoded, keep := EncodeAnswerValue(value)
		if !keep {
			continue
		}
		answers = append(answers, models.Answer{
			ResponseID: responseID,
			QuestionID: questionID,
			Value:      encoded,
		})
	}
	return answers
}

func GetResponseWithToken(token string) (models.Response, error) {
	var response models.Response
	if err := database.C.Preload("Member").Where("token = ?", token).First(&response).Error; err != nil {
		return response, fmt.Errorf("unable to find response: %v", err)
	}
	return response, nil
}

func GetResponseWithID(id uint) (models.Response, error) {
	var response models.Response
	if err := database.C.Preload("Member").Preload("Answers").Where("id = ?", id).First(&response).Error; err != nil {
		return response, fmt.Errorf("unable to find response: %v", err)
	}
	return response, nil
}

func ListSurveyResponses(survey models.Survey) ([]models.Response, error) {
	var responses []models.Response
	if err := database.C.Preload("Member").Preload("Answers").
		Where("survey_id = ?", survey.ID).Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("unable to list responses: %v", err)
	}
	return responses, nil
}

// SubmitAnswers replaces the response's answers wholesale, stamps the
// submission and mints a fresh signature token. The signature-request email
// is best effort; persistence is authoritative.
func SubmitAnswers(survey models.Survey, response models.Response, values map[uint]any) (models.Response, error) {
	if err := validateSubmission(survey, response, time.Now()); err != nil {
		return response, err
	}

	questionIDs := make(map[uint]bool, len(survey.Questions))
	for _, question := range survey.Questions {
		questionIDs[question.ID] = true
	}
	answers := buildAnswers(response.ID, questionIDs, values)

	signatureToken, err := RandomToken(24)
	if err != nil {
		return response, err
	}
	now := time.Now()

	err = database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("response_id = ?", response.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		response.SubmittedAt = &now
		response.SignatureToken = &signatureToken
		return tx.Save(&response).Error
	})
	if err != nil {
		return response, fmt.Errorf("unable to store submission: %v", err)
	}
	response.Answers = answers

	subject, body := mailer.SignatureRequestBody(
		response.Member.Name, survey.Title,
		mailer.SignatureLink(response.Token, signatureToken),
	)
	if err := mailer.Send(response.Member.Email, subject, body); err != nil {
		log.Warn().Err(err).Uint("response", response.ID).Msg("Submission stored but signature request email failed.")
	}

	notifyMinResponsesReached(survey)

	return response, nil
}

// RequestSignature re-issues the signature email without touching answers.
func RequestSignature(survey models.Survey, response models.Response) (models.Response, error) {
	if err := validateSignatureRequest(response); err != nil {
		return response, err
	}

	signatureToken, err := RandomToken(24)
	if err != nil {
		return response, err
	}
	response.SignatureToken = &signatureToken
	if err := database.C.Save(&response).Error; err != nil {
		return response, fmt.Errorf("unable to store signature token: %v", err)
	}

	subject, body := mailer.SignatureRequestBody(
		response.Member.Name, survey.Title,
		mailer.SignatureLink(response.Token, signatureToken),
	)
	if err := mailer.Send(response.Member.Email, subject, body); err != nil {
		log.Warn().Err(err).Uint("response", response.ID).Msg("Signature request email failed.")
	}

	return response, nil
}

// SignResponse finalizes a submission once both capability tokens match.
func SignResponse(survey models.Survey, response models.Response, signatureToken string) (models.Response, error) {
	if err := validateSignature(response, signatureToken); err != nil {
		return response, err
	}

	now := time.Now()
	response.Signed = true
	response.SignedAt = &now
	if err := database.C.Save(&response).Error; err != nil {
		return response, fmt.Errorf("unable to store signature: %v", err)
	}

	subject, body := mailer.SignatureConfirmationBody(
		response.Member.Name, survey.Title,
		*response.SubmittedAt, now, DisplayLocation(),
	)
	if err := mailer.Send(response.Member.Email, subject, body); err != nil {
		log.Warn().Err(err).Uint("response", response.ID).Msg("Signature stored but confirmation email failed.")
	}

	return response, nil
}

// UnlockResponse reopens a signed response for edits. Unlocking a response
// that was never signed is a deliberate no-op, so the operation is idempotent.
func UnlockResponse(response models.Response) (models.Response, error) {
	if !response.Signed {
		return response, nil
	}

	err := database.C.Model(&response).Updates(map[string]any{
		"signed":          false,
		"signed_at":       nil,
		"signature_token": nil,
	}).Error
	if err != nil {
		return response, fmt.Errorf("unable to unlock response: %v", err)
	}

	response.Signed = false
	response.SignedAt = nil
	response.SignatureToken = nil
	return response, nil
}

// ResetResponse deletes the response with its answers and seeds a fresh
// unsubmitted one for the same member. The old distribution link dies with
// the old token; a new link must be redistributed.
func ResetResponse(response models.Response) (models.Response, error) {
	token, err := RandomToken(24)
	if err != nil {
		return response, err
	}

	replacement := models.Response{
		SurveyID: response.SurveyID,
		MemberID: response.MemberID,
		Token:    token,
	}

	err = database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("response_id = ?", response.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&response).Error; err != nil {
			return err
		}
		return tx.Create(&replacement).Error
	})
	if err != nil {
		return response, fmt.Errorf("unable to reset response: %v", err)
	}
	return replacement, nil
}

// notifyMinResponsesReached emails every FULL admin exactly once, when the
// submitted count lands on the configured threshold.
func notifyMinResponsesReached(survey models.Survey) {
	if !survey.NotifyOnMinResponses || survey.MinResponses <= 0 {
		return
	}

	var submitted int64
	if err := database.C.Model(&models.Response{}).
		Where("survey_id = ? AND submitted_at IS NOT NULL", survey.ID).
		Count(&submitted).Error; err != nil {
		log.Warn().Err(err).Uint("survey", survey.ID).Msg("Unable to count submissions for threshold check.")
		return
	}
	if submitted != int64(survey.MinResponses) {
		return
	}

	var admins []models.Admin
	if err := database.C.Where("role = ?", models.AdminRoleFull).Find(&admins).Error; err != nil {
		log.Warn().Err(err).Msg("Unable to load admins for threshold notification.")
		return
	}
	for _, admin := range admins {
		subject, body := mailer.MinResponsesBody(admin.Name, survey.Title, survey.MinResponses)
		if err := mailer.Send(admin.Email, subject, body); err != nil {
			log.Warn().Err(err).Uint("admin", admin.ID).Msg("Threshold notification email failed.")
		}
	}
}
