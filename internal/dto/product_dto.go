package dto

import (
	"time"

	"backoffice/internal/entity"
)

type ProductRequest struct {
	Category    string  `json:"category" validate:"required"`
	ProductName string  `json:"product_name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Model       string  `json:"model"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

type ProductResponse struct {
	ID          uint      `json:"id"`
	Category    string    `json:"category"`
	ProductName string    `json:"product_name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Model       string    `json:"model"`
	Stock       int       `json:"stock"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductEnvelope struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

func ProductResponseFromEntity(product *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Category:    product.Category,
		ProductName: product.ProductName,
		Description: product.Description,
		Price:       product.Price,
		Model:       product.Model,
		Stock:       product.Stock,
		Status:      string(product.Status),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func ProductResponsesFromEntities(products []entity.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ProductResponseFromEntity(&products[i]))
	}
	return responses
}
