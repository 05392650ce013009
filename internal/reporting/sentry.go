// Package reporting forwards unexpected errors to Sentry.
package reporting

import (
	"time"

	"github.com/getsentry/sentry-go"
)

type Reporter interface {
	CaptureException(err error)
	Flush(timeout time.Duration) bool
}

type SentryReporter struct {
	Environment string
}

// NewSentryReporter initialises the global Sentry client. An empty dsn yields
// a Nop reporter so local runs need no Sentry project.
func NewSentryReporter(dsn string, environment string, release string) (Reporter, error) {
	if dsn == "" {
		return Nop{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		Debug:            environment == "development",
		SampleRate:       1.0,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, err
	}
	return &SentryReporter{Environment: environment}, nil
}

func (s *SentryReporter) CaptureException(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

func (s *SentryReporter) Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

type Nop struct{}

func (Nop) CaptureException(error) {}

func (Nop) Flush(time.Duration) bool { return true }
