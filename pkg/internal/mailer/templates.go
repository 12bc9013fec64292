package mailer

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

func baseUrl() string {
	return viper.GetString("general.base_url")
}

func SurveyLink(token string) string {
	return fmt.Sprintf("%s/survey/%s", baseUrl(), token)
}

func SignatureLink(responseToken, signatureToken string) string {
	return fmt.Sprintf("%s/survey/%s/sign/%s", baseUrl(), responseToken, signatureToken)
}

func InviteLink(token string) string {
	return fmt.Sprintf("%s/invite/%s", baseUrl(), token)
}

func ResetLink(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", baseUrl(), token)
}

func SurveyInvitationBody(name, surveyTitle, link string, closesAt time.Time) (string, string) {
	subject := fmt.Sprintf("Survey: %s", surveyTitle)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour community association is asking for your input on %q.\n\n"+
			"Answer the survey at the link below before %s:\n\n%s\n",
		name, surveyTitle, closesAt.Format("January 2, 2006"), link,
	)
	return subject, body
}

func SignatureRequestBody(name, surveyTitle, link string) (string, string) {
	subject := fmt.Sprintf("Please sign your response to %s", surveyTitle)
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received your answers to %q. To finalize them, "+
			"confirm your submission with a digital signature:\n\n%s\n\n"+
			"You may keep editing your answers until the survey closes; "+
			"each new submission will ask for a fresh signature.\n",
		name, surveyTitle, link,
	)
	return subject, body
}

func SignatureConfirmationBody(name, surveyTitle string, submittedAt, signedAt time.Time, loc *time.Location) (string, string) {
	subject := fmt.Sprintf("Your response to %s has been signed", surveyTitle)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour response to %q is now signed and on record.\n\n"+
			"Submitted at: %s\nSigned at: %s\n",
		name, surveyTitle,
		submittedAt.In(loc).Format("January 2, 2006 at 3:04 PM MST"),
		signedAt.In(loc).Format("January 2, 2006 at 3:04 PM MST"),
	)
	return subject, body
}

func ReminderBody(name, surveyTitle, link string, closesAt time.Time) (string, string) {
	subject := fmt.Sprintf("Reminder: %s is waiting for your response", surveyTitle)
	body := fmt.Sprintf(
		"Hello %s,\n\nWe have not received your response to %q yet. "+
			"The survey closes on %s.\n\n%s\n",
		name, surveyTitle, closesAt.Format("January 2, 2006"), link,
	)
	return subject, body
}

func AdminInviteBody(name, inviterName, link string) (string, string) {
	subject := "You have been invited to administer Canvass"
	body := fmt.Sprintf(
		"Hello %s,\n\n%s invited you to help administer community surveys. "+
			"Accept the invitation and choose a password here:\n\n%s\n\n"+
			"The invitation expires in 7 days.\n",
		name, inviterName, link,
	)
	return subject, body
}

func VerificationBody(name, code string) (string, string) {
	subject := "Verify your Canvass account"
	body := fmt.Sprintf(
		"Hello %s,\n\nEnter this code to verify your email address: %s\n\n"+
			"The code expires in 15 minutes.\n",
		name, code,
	)
	return subject, body
}

func PasswordResetBody(name, link string) (string, string) {
	subject := "Reset your Canvass password"
	body := fmt.Sprintf(
		"Hello %s,\n\nA password reset was requested for your account. "+
			"If that was you, follow this link:\n\n%s\n\n"+
			"If it was not, you can ignore this message.\n",
		name, link,
	)
	return subject, body
}

func MinResponsesBody(name, surveyTitle string, count int) (string, string) {
	subject := fmt.Sprintf("%s reached %d responses", surveyTitle, count)
	body := fmt.Sprintf(
		"Hello %s,\n\nThe survey %q has reached its configured threshold of %d "+
			"submitted responses.\n",
		name, surveyTitle, count,
	)
	return subject, body
}
