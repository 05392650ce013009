package repository

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/entity"

	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	FindByID(ctx context.Context, id uint) (*entity.Contact, error)
	List(ctx context.Context, limit, offset int) ([]entity.Contact, error)
	Delete(ctx context.Context, id uint) (bool, error)
	MarkRead(ctx context.Context, ids []uint) (int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) FindByID(ctx context.Context, id uint) (*entity.Contact, error) {
	var contact entity.Contact
	err := r.db.WithContext(ctx).First(&contact, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting contact: %w", err)
	}
	return &contact, nil
}

func (r *contactRepository) List(ctx context.Context, limit, offset int) ([]entity.Contact, error) {
	var contacts []entity.Contact
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&entity.Contact{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("deleting contact: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// MarkRead flags the given messages as read; an empty id list marks every unread message.
func (r *contactRepository) MarkRead(ctx context.Context, ids []uint) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Contact{}).Where("is_read = ?", false)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	result := query.Update("is_read", true)
	return result.RowsAffected, result.Error
}
