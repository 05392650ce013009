package service

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrPasswordMismatch       = errors.New("passwords do not match")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrWrongPassword          = errors.New("current password is incorrect")
	ErrEmailNotFound          = errors.New("email not found")
	ErrResetTokenInvalid      = errors.New("invalid token")
	ErrResetTokenExpired      = errors.New("token expired")
	ErrUserNotFound           = errors.New("user not found")
	ErrNotFound               = errors.New("not found")
	ErrNoFieldsToUpdate       = errors.New("no fields to update")
	ErrEmptyCart              = errors.New("cart cannot be empty")
	ErrInvalidCartItem        = errors.New("invalid cart item")
)
