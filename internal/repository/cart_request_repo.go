package repository

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/entity"

	"gorm.io/gorm"
)

type CartRequestRepository interface {
	Create(ctx context.Context, request *entity.CartRequest) error
	FindByID(ctx context.Context, id uint) (*entity.CartRequest, error)
	List(ctx context.Context) ([]entity.CartRequest, error)
	UpdateStatus(ctx context.Context, id uint, status entity.CartRequestStatus) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type cartRequestRepository struct {
	db *gorm.DB
}

func NewCartRequestRepository(db *gorm.DB) CartRequestRepository {
	return &cartRequestRepository{db: db}
}

// Create stores the request and its items together.
func (r *cartRequestRepository) Create(ctx context.Context, request *entity.CartRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *cartRequestRepository) FindByID(ctx context.Context, id uint) (*entity.CartRequest, error) {
	var request entity.CartRequest
	err := r.db.WithContext(ctx).Preload("Items").First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting cart request: %w", err)
	}
	return &request, nil
}

func (r *cartRequestRepository) List(ctx context.Context) ([]entity.CartRequest, error) {
	var requests []entity.CartRequest
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Order("id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *cartRequestRepository) UpdateStatus(ctx context.Context, id uint, status entity.CartRequestStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.CartRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return false, fmt.Errorf("updating cart request status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *cartRequestRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_request_id = ?", id).Delete(&entity.CartRequestItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.CartRequest{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("deleting cart request: %w", err)
	}
	return deleted, nil
}
