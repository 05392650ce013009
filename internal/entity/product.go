package entity

import "time"

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

type Product struct {
	ID          uint          `gorm:"primaryKey"`
	Category    string        `gorm:"type:varchar(255);not null;index"`
	ProductName string        `gorm:"type:varchar(255);not null"`
	Description string        `gorm:"type:text"`
	Price       float64       `gorm:"type:decimal(12,2)"`
	Model       string        `gorm:"type:varchar(255)"`
	Stock       int           `gorm:"default:0"`
	Status      ProductStatus `gorm:"type:varchar(20);default:'active';not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
