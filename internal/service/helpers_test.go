package service

import (
	"context"
	"errors"
	"io"
	"net/url"
	"regexp"
	"sync"
	"testing"
	"time"

	"backoffice/internal/repository"
	"backoffice/internal/testutil"
	"backoffice/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (m *fakeMailer) messages() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type capturingReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *capturingReporter) CaptureException(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *capturingReporter) Flush(time.Duration) bool { return true }

func (r *capturingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

type authFixture struct {
	db       *gorm.DB
	users    repository.UserRepository
	logs     repository.SecurityLogRepository
	mailer   *fakeMailer
	clock    *fakeClock
	reporter *capturingReporter
	jwt      *utils.JWTManager
	service  *AuthService
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newAuthFixture(t *testing.T, config AuthConfig) *authFixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &authFixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		logs:     repository.NewSecurityLogRepository(db),
		mailer:   &fakeMailer{},
		clock:    &fakeClock{now: time.Now().UTC()},
		reporter: &capturingReporter{},
	}
	f.jwt = &utils.JWTManager{Secret: []byte("test-secret"), Issuer: "backoffice", Now: f.clock.Now}
	resetTokens := NewResetTokenService(f.users, f.clock, DefaultResetTokenTTL)
	f.service = NewAuthService(
		f.users,
		f.logs,
		resetTokens,
		f.mailer,
		BcryptPasswordHasher{Cost: bcrypt.MinCost},
		JWTSessionIssuer{Manager: f.jwt},
		quietLogger(),
		f.reporter,
		config,
	)
	return f
}

var tokenPattern = regexp.MustCompile(`token=([A-Za-z0-9_\-%]+)`)

// resetTokenFromMail pulls the raw token out of the most recent reset email.
func resetTokenFromMail(t *testing.T, mailer *fakeMailer) string {
	t.Helper()
	messages := mailer.messages()
	if len(messages) == 0 {
		t.Fatal("no reset email sent")
	}
	match := tokenPattern.FindStringSubmatch(messages[len(messages)-1].HTML)
	if match == nil {
		t.Fatal("reset email has no token link")
	}
	token, err := url.QueryUnescape(match[1])
	if err != nil {
		t.Fatalf("unescape token: %v", err)
	}
	return token
}

var errMailDown = errors.New("smtp unavailable")
