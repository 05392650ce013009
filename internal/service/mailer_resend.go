package service

import (
	"context"
	"errors"
	"strings"

	"github.com/resend/resend-go/v2"
)

type ResendMailer struct {
	From   string
	client *resend.Client
}

func NewResendMailer(apiKey string, from string) *ResendMailer {
	if strings.TrimSpace(apiKey) == "" {
		return &ResendMailer{From: from}
	}
	return &ResendMailer{From: from, client: resend.NewClient(apiKey)}
}

func (m *ResendMailer) Send(ctx context.Context, to string, subject string, html string) error {
	if m.client == nil {
		return errors.New("resend mailer not configured")
	}
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.From,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	return err
}
