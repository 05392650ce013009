package service

import (
	"time"

	"backoffice/internal/entity"
	"backoffice/internal/utils"
)

type JWTSessionIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTSessionIssuer) IssueSessionToken(user entity.User) (string, time.Time, error) {
	if j.Manager == nil {
		return "", time.Time{}, utils.ErrInvalidToken
	}
	return j.Manager.Issue(utils.Claims{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  string(user.Role),
	})
}
