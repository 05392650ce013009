package dto

import (
	"time"

	"backoffice/internal/entity"
)

type CartUserInfo struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	TIN     string `json:"tin"`
	Message string `json:"message"`
}

type CartItemRequest struct {
	ProductName string `json:"product_name" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Image       string `json:"image"`
	Slug        string `json:"slug"`
}

type CartRequestRequest struct {
	UserInfo *CartUserInfo     `json:"userInfo" validate:"required"`
	Items    []CartItemRequest `json:"items" validate:"dive"`
}

type CartStatusRequest struct {
	Status string `json:"status"`
}

type CartSubmittedResponse struct {
	Message   string `json:"message"`
	RequestID uint   `json:"requestId"`
}

type CartItemResponse struct {
	ID          uint    `json:"id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Image       *string `json:"image"`
	Slug        *string `json:"slug"`
}

type CartRequestResponse struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	Address   string             `json:"address"`
	TIN       *string            `json:"tin"`
	Message   *string            `json:"message"`
	Status    string             `json:"status"`
	Items     []CartItemResponse `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func CartRequestResponseFromEntity(request *entity.CartRequest) CartRequestResponse {
	items := make([]CartItemResponse, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, CartItemResponse{
			ID:          item.ID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Image:       item.Image,
			Slug:        item.Slug,
		})
	}
	return CartRequestResponse{
		ID:        request.ID,
		Name:      request.Name,
		Email:     request.Email,
		Phone:     request.Phone,
		Address:   request.Address,
		TIN:       request.TIN,
		Message:   request.Message,
		Status:    string(request.Status),
		Items:     items,
		CreatedAt: request.CreatedAt,
		UpdatedAt: request.UpdatedAt,
	}
}

func CartRequestResponsesFromEntities(requests []entity.CartRequest) []CartRequestResponse {
	responses := make([]CartRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, CartRequestResponseFromEntity(&requests[i]))
	}
	return responses
}
