package entity

import "time"

type Contact struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"type:varchar(255);not null"`
	Email      string  `gorm:"type:varchar(255);not null"`
	Company    *string `gorm:"type:varchar(255)"`
	Phone      *string `gorm:"type:varchar(50)"`
	Subject    string  `gorm:"type:varchar(255);not null"`
	Message    string  `gorm:"type:text;not null"`
	Newsletter bool    `gorm:"default:false"`
	IsRead     bool    `gorm:"default:false;index"`

	CreatedAt time.Time
}
