package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogMailer writes messages to the log instead of delivering them. Development only.
type LogMailer struct {
	Logger logrus.FieldLogger
}

func (m LogMailer) Send(ctx context.Context, to string, subject string, html string) error {
	logger := m.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"body":    html,
	}).Info("mail not delivered (log driver)")
	return nil
}
