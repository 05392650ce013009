package service

import (
	"context"
	"time"

	"backoffice/internal/repository"
	"backoffice/internal/utils"

	"github.com/google/uuid"
)

const (
	DefaultResetTokenTTL = 15 * time.Minute
	resetTokenBytes      = 32
)

type ConsumeResult int

const (
	ResetNotFound ConsumeResult = iota
	ResetExpired
	ResetConsumed
)

func (r ConsumeResult) String() string {
	switch r {
	case ResetConsumed:
		return "consumed"
	case ResetExpired:
		return "expired"
	default:
		return "not_found"
	}
}

type ResetOutcome struct {
	Result ConsumeResult
	UserID uuid.UUID
}

// ResetTokenService owns the password-reset token lifecycle. Only the SHA-256
// digest of a token reaches the store; the raw value goes to the mailer.
type ResetTokenService struct {
	users repository.UserRepository
	clock Clock
	ttl   time.Duration
}

func NewResetTokenService(users repository.UserRepository, clock Clock, ttl time.Duration) *ResetTokenService {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &ResetTokenService{users: users, clock: clock, ttl: ttl}
}

// Issue replaces any pending token of the user with a fresh one.
func (s *ResetTokenService) Issue(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	rawToken, err := utils.GenerateRandomToken(resetTokenBytes)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := s.clock.Now().Add(s.ttl)
	if err := s.users.SetResetToken(ctx, userID, utils.HashToken(rawToken), expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return rawToken, expiresAt, nil
}

// Consume applies newPasswordHash when token is live. An expired token is
// cleared as well, so it cannot be replayed later.
func (s *ResetTokenService) Consume(ctx context.Context, token string, newPasswordHash string) (ResetOutcome, error) {
	if token == "" {
		return ResetOutcome{Result: ResetNotFound}, nil
	}
	digest := utils.HashToken(token)

	lookup, err := s.users.FindByResetToken(ctx, digest)
	if err != nil {
		return ResetOutcome{}, err
	}
	if lookup == nil {
		return ResetOutcome{Result: ResetNotFound}, nil
	}

	consumed, err := s.users.ConsumeResetToken(ctx, digest, newPasswordHash, s.clock.Now())
	if err != nil {
		return ResetOutcome{}, err
	}
	if consumed {
		return ResetOutcome{Result: ResetConsumed, UserID: lookup.ID}, nil
	}

	cleared, err := s.users.ClearResetToken(ctx, digest)
	if err != nil {
		return ResetOutcome{}, err
	}
	if cleared {
		return ResetOutcome{Result: ResetExpired, UserID: lookup.ID}, nil
	}
	// Another caller consumed or cleared it between the lookup and our update.
	return ResetOutcome{Result: ResetNotFound}, nil
}

func (s *ResetTokenService) TTL() time.Duration {
	return s.ttl
}
