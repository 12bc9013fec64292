package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/hoacouncil/canvass/pkg/internal/database"
	"github.com/hoacouncil/canvass/pkg/internal/mailer"
	"github.com/hoacouncil/canvass/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type BroadcastOutcome struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// fanOutSends dispatches one send per response concurrently and collects the
// responses whose sends succeeded. One recipient's failure never blocks or
// rolls back the others.
func fanOutSends(pending []models.Response, send func(models.Response) error) ([]models.Response, BroadcastOutcome) {
	var mu sync.Mutex
	var wg sync.WaitGroup
	var delivered []models.Response
	var outcome BroadcastOutcome

	for _, response := range pending {
		wg.Add(1)
		go func(response models.Response) {
			defer wg.Done()
			err := send(response)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				outcome.Failed++
				return
			}
			outcome.Sent++
			delivered = append(delivered, response)
		}(response)
	}
	wg.Wait()

	return delivered, outcome
}

func pendingResponses(survey models.Survey) ([]models.Response, error) {
	var responses []models.Response
	if err := database.C.Preload("Member").
		Where("survey_id = ? AND submitted_at IS NULL", survey.ID).
		Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("unable to load pending responses: %v", err)
	}
	return responses, nil
}

// BroadcastReminders emails every member that has not submitted yet and
// records one Reminder row per successful send. Failures are counted, not
// retried.
func BroadcastReminders(survey models.Survey) (BroadcastOutcome, error) {
	pending, err := pendingResponses(survey)
	if err != nil {
		return BroadcastOutcome{}, err
	}

	delivered, outcome := fanOutSends(pending, func(response models.Response) error {
		subject, body := mailer.ReminderBody(
			response.Member.Name, survey.Title,
			mailer.SurveyLink(response.Token), survey.ClosesAt,
		)
		return mailer.Send(response.Member.Email, subject, body)
	})

	now := time.Now()
	reminders := lo.Map(delivered, func(response models.Response, _ int) models.Reminder {
		var previous int64
		if err := database.C.Model(&models.Reminder{}).
			Where("survey_id = ? AND member_id = ?", survey.ID, response.MemberID).
			Count(&previous).Error; err != nil {
			log.Warn().Err(err).Uint("member", response.MemberID).Msg("Unable to count prior reminders.")
		}
		return models.Reminder{
			SurveyID:    survey.ID,
			MemberID:    response.MemberID,
			SentAt:      now,
			ReminderNum: int(previous) + 1,
		}
	})
	if len(reminders) > 0 {
		if err := database.C.Create(&reminders).Error; err != nil {
			return outcome, fmt.Errorf("unable to record reminders: %v", err)
		}
	}

	log.Info().Uint("survey", survey.ID).Int("sent", outcome.Sent).Int("failed", outcome.Failed).
		Msg("Reminder broadcast finished.")
	return outcome, nil
}

// DistributeSurvey sends every member their personal survey link and stamps
// the survey as initially sent.
func DistributeSurvey(survey models.Survey) (BroadcastOutcome, error) {
	var responses []models.Response
	if err := database.C.Preload("Member").
		Where("survey_id = ?", survey.ID).
		Find(&responses).Error; err != nil {
		return BroadcastOutcome{}, fmt.Errorf("unable to load responses: %v", err)
	}

	_, outcome := fanOutSends(responses, func(response models.Response) error {
		subject, body := mailer.SurveyInvitationBody(
			response.Member.Name, survey.Title,
			mailer.SurveyLink(response.Token), survey.ClosesAt,
		)
		return mailer.Send(response.Member.Email, subject, body)
	})

	now := time.Now()
	if err := database.C.Model(&survey).Update("initial_sent_at", now).Error; err != nil {
		return outcome, fmt.Errorf("unable to stamp initial distribution: %v", err)
	}

	log.Info().Uint("survey", survey.ID).Int("sent", outcome.Sent).Int("failed", outcome.Failed).
		Msg("Initial distribution finished.")
	return outcome, nil
}

// DoScheduledDispatch runs on a cron tick and distributes surveys whose
// opening time has passed without an initial send.
func DoScheduledDispatch() {
	var surveys []models.Survey
	if err := database.C.
		Where("initial_sent_at IS NULL AND opens_at <= ?", time.Now()).
		Find(&surveys).Error; err != nil {
		log.Warn().Err(err).Msg("Unable to load surveys for scheduled dispatch.")
		return
	}

	for _, survey := range surveys {
		if _, err := DistributeSurvey(survey); err != nil {
			log.Warn().Err(err).Uint("survey", survey.ID).Msg("Scheduled dispatch failed.")
		}
	}
}
