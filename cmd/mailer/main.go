package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/config"
	"backoffice/internal/queue"
	"backoffice/internal/reporting"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	reporter, err := reporting.NewSentryReporter(cfg.SentryDSN, cfg.AppEnv, cfg.Release)
	if err != nil {
		logger.WithError(err).Warn("sentry disabled")
		reporter = reporting.Nop{}
	}
	defer reporter.Flush(2 * time.Second)

	mailer := config.NewDeliveryMailer(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deliver := func(ctx context.Context, job queue.MailJob) error {
		sendCtx, cancel := context.WithTimeout(ctx, cfg.MailTimeout)
		defer cancel()
		if err := mailer.Send(sendCtx, job.To, job.Subject, job.HTML); err != nil {
			reporter.CaptureException(err)
			return err
		}
		logger.WithFields(logrus.Fields{"to": job.To, "subject": job.Subject}).Info("mail delivered")
		return nil
	}

	logger.WithField("queue", cfg.MailQueue).Info("mail-consumer: started")
	if err := queue.Consume(ctx, cfg.RabbitMQURL, cfg.MailQueue, deliver, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("mail-consumer: stopped")
	}
	logger.Info("mail-consumer: exited")
}
