package repository

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/entity"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id uint, activeOnly bool) (*entity.Product, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]entity.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uint, activeOnly bool) (*entity.Product, error) {
	var product entity.Product
	query := r.db.WithContext(ctx).Where("id = ?", id)
	if activeOnly {
		query = query.Where("status = ?", entity.ProductActive)
	}
	err := query.First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting product: %w", err)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]entity.Product, error) {
	var products []entity.Product
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if activeOnly {
		query = query.Where("status = ?", entity.ProductActive)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
