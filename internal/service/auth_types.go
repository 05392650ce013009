package service

import (
	"context"
	"time"

	"backoffice/internal/entity"

	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	MailTimeout       time.Duration
	AllowRegisterRole bool
	AppBaseURL        string
	ResetPasswordPath string
}

// Mailer delivers a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to string, subject string, html string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type SessionTokenIssuer interface {
	IssueSessionToken(user entity.User) (string, time.Time, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
