package config

import (
	"fmt"

	"backoffice/internal/queue"
	"backoffice/internal/service"

	"github.com/sirupsen/logrus"
)

// NewMailer builds the mailer selected by MAIL_DRIVER. The returned close func
// releases broker connections and is never nil.
func NewMailer(cfg Config, logger logrus.FieldLogger) (service.Mailer, func() error, error) {
	noop := func() error { return nil }
	switch cfg.MailDriver {
	case "smtp":
		return service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom), noop, nil
	case "resend":
		return service.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom), noop, nil
	case "queue":
		publisher := queue.NewPublisher(cfg.RabbitMQURL, cfg.MailQueue)
		return publisher, publisher.Close, nil
	case "log", "":
		return service.LogMailer{Logger: logger}, noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported MAIL_DRIVER %q", cfg.MailDriver)
	}
}

// NewDeliveryMailer picks the mailer the queue worker hands jobs to.
func NewDeliveryMailer(cfg Config, logger logrus.FieldLogger) service.Mailer {
	switch {
	case cfg.ResendAPIKey != "":
		return service.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
	case cfg.SMTPHost != "":
		return service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	default:
		return service.LogMailer{Logger: logger}
	}
}
