package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleUser     UserRole = "user"
	UserRoleSalesman UserRole = "salesman"
	UserRoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleUser, UserRoleSalesman, UserRoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

type User struct {
	ID           uuid.UUID  `gorm:"type:char(36);primaryKey"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `gorm:"type:text;not null" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);default:'user';not null"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active';not null"`

	// ResetToken holds the digest of the pending reset token, never the raw value.
	ResetToken   *string    `gorm:"type:varchar(64);index" json:"-"`
	ResetExpires *time.Time `json:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}
