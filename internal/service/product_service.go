package service

import (
	"context"
	"strings"

	"backoffice/internal/entity"
	"backoffice/internal/repository"
)

type ProductInput struct {
	Category    string
	ProductName string
	Description string
	Price       float64
	Model       string
	Stock       int
	Status      string
}

type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// CanSeeInactive reports whether viewer may browse inactive products. Guests pass nil.
func CanSeeInactive(viewer *entity.User) bool {
	return viewer != nil && (viewer.Role == entity.UserRoleAdmin || viewer.Role == entity.UserRoleSalesman)
}

func (s *ProductService) List(ctx context.Context, viewer *entity.User, limit, offset int) ([]entity.Product, error) {
	return s.products.List(ctx, !CanSeeInactive(viewer), limit, offset)
}

func (s *ProductService) Get(ctx context.Context, viewer *entity.User, id uint) (*entity.Product, error) {
	product, err := s.products.FindByID(ctx, id, !CanSeeInactive(viewer))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*entity.Product, error) {
	if strings.TrimSpace(input.Category) == "" || strings.TrimSpace(input.ProductName) == "" {
		return nil, ErrInvalidInput
	}
	status := entity.ProductActive
	if input.Status != "" {
		status = entity.ProductStatus(input.Status)
		if status != entity.ProductActive && status != entity.ProductInactive {
			return nil, ErrInvalidStatus
		}
	}
	product := &entity.Product{
		Category:    strings.TrimSpace(input.Category),
		ProductName: strings.TrimSpace(input.ProductName),
		Description: input.Description,
		Price:       input.Price,
		Model:       input.Model,
		Stock:       input.Stock,
		Status:      status,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
