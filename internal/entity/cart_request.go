package entity

import "time"

type CartRequestStatus string

const (
	CartRequestPending  CartRequestStatus = "pending"
	CartRequestApproved CartRequestStatus = "approved"
	CartRequestRejected CartRequestStatus = "rejected"
)

func (s CartRequestStatus) Valid() bool {
	switch s {
	case CartRequestPending, CartRequestApproved, CartRequestRejected:
		return true
	}
	return false
}

type CartRequest struct {
	ID      uint              `gorm:"primaryKey"`
	Name    string            `gorm:"type:varchar(255);not null"`
	Email   string            `gorm:"type:varchar(255);not null"`
	Phone   string            `gorm:"type:varchar(50);not null"`
	Address string            `gorm:"type:text;not null"`
	TIN     *string           `gorm:"column:tin;type:varchar(50)"`
	Message *string           `gorm:"type:text"`
	Status  CartRequestStatus `gorm:"type:varchar(20);default:'pending';not null"`

	Items []CartRequestItem `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartRequestItem struct {
	ID            uint    `gorm:"primaryKey"`
	CartRequestID uint    `gorm:"index;not null"`
	ProductName   string  `gorm:"type:varchar(255);not null"`
	Quantity      int     `gorm:"not null"`
	Image         *string `gorm:"type:varchar(255)"`
	Slug          *string `gorm:"type:varchar(255)"`
}
