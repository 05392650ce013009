package service

import (
	"context"
	"strings"

	"backoffice/internal/entity"
	"backoffice/internal/repository"
)

type CartCustomer struct {
	Name    string
	Email   string
	Phone   string
	Address string
	TIN     string
	Message string
}

type CartItemInput struct {
	ProductName string
	Quantity    int
	Image       string
	Slug        string
}

type CartRequestService struct {
	requests repository.CartRequestRepository
}

func NewCartRequestService(requests repository.CartRequestRepository) *CartRequestService {
	return &CartRequestService{requests: requests}
}

func (s *CartRequestService) Submit(ctx context.Context, customer CartCustomer, items []CartItemInput) (*entity.CartRequest, error) {
	if strings.TrimSpace(customer.Name) == "" || strings.TrimSpace(customer.Email) == "" ||
		strings.TrimSpace(customer.Phone) == "" || strings.TrimSpace(customer.Address) == "" {
		return nil, ErrInvalidInput
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	request := &entity.CartRequest{
		Name:    strings.TrimSpace(customer.Name),
		Email:   strings.TrimSpace(customer.Email),
		Phone:   strings.TrimSpace(customer.Phone),
		Address: strings.TrimSpace(customer.Address),
		TIN:     optional(customer.TIN),
		Message: optional(customer.Message),
		Status:  entity.CartRequestPending,
		Items:   make([]entity.CartRequestItem, 0, len(items)),
	}
	for _, item := range items {
		if strings.TrimSpace(item.ProductName) == "" || item.Quantity <= 0 {
			return nil, ErrInvalidCartItem
		}
		request.Items = append(request.Items, entity.CartRequestItem{
			ProductName: strings.TrimSpace(item.ProductName),
			Quantity:    item.Quantity,
			Image:       optional(item.Image),
			Slug:        optional(item.Slug),
		})
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *CartRequestService) List(ctx context.Context) ([]entity.CartRequest, error) {
	return s.requests.List(ctx)
}

func (s *CartRequestService) UpdateStatus(ctx context.Context, id uint, status string) error {
	next := entity.CartRequestStatus(status)
	if !next.Valid() {
		return ErrInvalidStatus
	}
	updated, err := s.requests.UpdateStatus(ctx, id, next)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

func (s *CartRequestService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.requests.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
