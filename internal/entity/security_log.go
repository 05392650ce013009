package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SecurityAction string

const (
	LoginSuccess           SecurityAction = "login_success"
	LoginFailed            SecurityAction = "login_failed"
	Logout                 SecurityAction = "logout"
	PasswordResetRequested SecurityAction = "password_reset_requested"
	PasswordReset          SecurityAction = "password_reset"
	PasswordChanged        SecurityAction = "password_changed"
)

type SecurityLog struct {
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`

	UserID *uuid.UUID `gorm:"type:char(36);index"`

	IPAddress *string        `gorm:"type:varchar(45)"`
	Action    SecurityAction `gorm:"type:varchar(40);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}

func (l *SecurityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
