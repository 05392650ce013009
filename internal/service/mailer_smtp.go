package service

import (
	"context"
	"errors"
	"strings"

	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	From   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(host string, port int, username string, password string, from string) *SMTPMailer {
	if port == 0 {
		port = 587
	}
	return &SMTPMailer{
		From:   from,
		dialer: gomail.NewDialer(host, port, username, password),
	}
}

// Send checks ctx only before dialing; gomail offers no way to cancel an
// SMTP exchange that has started.
func (m *SMTPMailer) Send(ctx context.Context, to string, subject string, html string) error {
	if m.dialer == nil || strings.TrimSpace(m.dialer.Host) == "" {
		return errors.New("smtp mailer not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	message := gomail.NewMessage()
	message.SetHeader("From", m.From)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", html)
	return m.dialer.DialAndSend(message)
}
