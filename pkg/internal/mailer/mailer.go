package mailer

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Send delivers a single plain-text message over SMTP. Delivery is treated as
// best effort everywhere; callers that must not fail on a dead relay log the
// error and move on.
func Send(to, subject, body string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", viper.GetString("mailer.sender"))
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	dialer := gomail.NewDialer(
		viper.GetString("mailer.smtp_host"),
		viper.GetInt("mailer.smtp_port"),
		viper.GetString("mailer.smtp_username"),
		viper.GetString("mailer.smtp_password"),
	)

	if err := dialer.DialAndSend(message); err != nil {
		log.Warn().Err(err).Str("to", to).Str("subject", subject).Msg("An error occurred when sending email...")
		return err
	}

	log.Debug().Str("to", to).Str("subject", subject).Msg("Email sent.")
	return nil
}
