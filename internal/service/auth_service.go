package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"
	"time"

	"backoffice/internal/entity"
	"backoffice/internal/reporting"
	"backoffice/internal/repository"
	"backoffice/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type AuthService struct {
	users        repository.UserRepository
	securityLogs repository.SecurityLogRepository
	resetTokens  *ResetTokenService

	mailer        Mailer
	passwordHash  PasswordHasher
	sessionTokens SessionTokenIssuer
	logger        logrus.FieldLogger
	reporter      reporting.Reporter
	config        AuthConfig

	mailWG sync.WaitGroup
}

func NewAuthService(
	users repository.UserRepository,
	securityLogs repository.SecurityLogRepository,
	resetTokens *ResetTokenService,
	mailer Mailer,
	passwordHash PasswordHasher,
	sessionTokens SessionTokenIssuer,
	logger logrus.FieldLogger,
	reporter reporting.Reporter,
	config AuthConfig,
) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if reporter == nil {
		reporter = reporting.Nop{}
	}
	return &AuthService{
		users:         users,
		securityLogs:  securityLogs,
		resetTokens:   resetTokens,
		mailer:        mailer,
		passwordHash:  passwordHash,
		sessionTokens: sessionTokens,
		logger:        logger,
		reporter:      reporter,
		config:        config,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := utils.NormalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	role := entity.UserRoleUser
	if requested := entity.UserRole(strings.TrimSpace(input.Role)); requested != "" && s.config.AllowRegisterRole {
		if !requested.Valid() {
			return nil, ErrInvalidRole
		}
		role = requested
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       entity.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}

	return s.issueSession(user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := utils.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		_ = s.logSecurity(ctx, nil, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(user.PasswordHash, input.Password) {
		_ = s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, ErrAccountInactive
	}

	result, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}
	_ = s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginSuccess, nil)
	return result, nil
}

// Logout only records the event; session tokens are stateless and the client drops them.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, ipAddress *string) error {
	_ = s.logSecurity(ctx, &userID, ipAddress, entity.Logout, nil)
	return nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if input.CurrentPassword == "" || input.NewPassword == "" || input.NewPasswordConfirmation == "" {
		return ErrInvalidInput
	}
	if input.NewPassword != input.NewPasswordConfirmation {
		return ErrPasswordMismatch
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !s.passwordHash.Verify(user.PasswordHash, input.CurrentPassword) {
		return ErrWrongPassword
	}

	hash, err := s.passwordHash.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	_ = s.logSecurity(ctx, &user.ID, input.IPAddress, entity.PasswordChanged, nil)
	return nil
}

// RequestPasswordReset persists a fresh reset token and hands the link to the
// mailer in the background. Delivery failures are logged, never returned.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, ipAddress *string) error {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrEmailNotFound
	}

	token, expiresAt, err := s.resetTokens.Issue(ctx, user.ID)
	if err != nil {
		return err
	}

	_ = s.logSecurity(ctx, &user.ID, ipAddress, entity.PasswordResetRequested, nil)
	s.deliverResetEmail(user.ID, user.Email, token, expiresAt)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	token := strings.TrimSpace(input.Token)
	if token == "" || input.NewPassword == "" || input.NewPasswordConfirmation == "" {
		return ErrInvalidInput
	}
	if input.NewPassword != input.NewPasswordConfirmation {
		return ErrPasswordMismatch
	}

	hash, err := s.passwordHash.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	outcome, err := s.resetTokens.Consume(ctx, token, hash)
	if err != nil {
		return err
	}
	switch outcome.Result {
	case ResetConsumed:
		_ = s.logSecurity(ctx, &outcome.UserID, input.IPAddress, entity.PasswordReset, nil)
		return nil
	case ResetExpired:
		return ErrResetTokenExpired
	default:
		return ErrResetTokenInvalid
	}
}

// Wait blocks until queued reset emails have been handed off.
func (s *AuthService) Wait() {
	s.mailWG.Wait()
}

func (s *AuthService) issueSession(user *entity.User) (*AuthResult, error) {
	token, expiresAt, err := s.sessionTokens.IssueSessionToken(*user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) deliverResetEmail(userID uuid.UUID, email string, token string, expiresAt time.Time) {
	if s.mailer == nil {
		s.logger.WithField("user_id", userID).Warn("no mailer configured, reset email dropped")
		return
	}
	link := s.resetLink(token)
	subject := "Password Reset Request"
	body := fmt.Sprintf(
		"<h1>Password Reset Request</h1>"+
			"<p>You requested a password reset. Click the link below to set a new password:</p>"+
			"<p><a href=\"%s\">Reset Password</a></p>"+
			"<p>This link expires at %s.</p>"+
			"<p>If you did not request this, please ignore this email.</p>",
		html.EscapeString(link), expiresAt.UTC().Format(time.RFC1123),
	)

	s.mailWG.Add(1)
	go func() {
		defer s.mailWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.mailTimeout())
		defer cancel()
		if err := s.mailer.Send(ctx, email, subject, body); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Error("password reset email failed")
			s.reporter.CaptureException(fmt.Errorf("sending password reset email: %w", err))
			return
		}
		s.logger.WithField("user_id", userID).Info("password reset email sent")
	}()
}

func (s *AuthService) resetLink(token string) string {
	base := strings.TrimRight(s.config.AppBaseURL, "/")
	path := s.config.ResetPasswordPath
	if path == "" {
		path = "/reset-password"
	}
	return fmt.Sprintf("%s%s?token=%s", base, path, url.QueryEscape(token))
}

func (s *AuthService) mailTimeout() time.Duration {
	if s.config.MailTimeout > 0 {
		return s.config.MailTimeout
	}
	return 15 * time.Second
}

func (s *AuthService) logSecurity(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) error {
	if s.securityLogs == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.SecurityLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	if err := s.securityLogs.Log(ctx, log); err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("security log write failed")
		return err
	}
	return nil
}
