package service

import (
	"time"

	"backoffice/internal/entity"

	"github.com/google/uuid"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress *string
}

type ChangePasswordInput struct {
	UserID                  uuid.UUID
	CurrentPassword         string
	NewPassword             string
	NewPasswordConfirmation string
	IPAddress               *string
}

type ResetPasswordInput struct {
	Token                   string
	NewPassword             string
	NewPasswordConfirmation string
	IPAddress               *string
}

type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}
