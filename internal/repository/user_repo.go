package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserChanges lists the columns an admin edit may touch; nil fields are left alone.
type UserChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *entity.UserRole
	Status       *entity.UserStatus
}

func (c UserChanges) columns() map[string]any {
	cols := map[string]any{}
	if c.Name != nil {
		cols["name"] = *c.Name
	}
	if c.Email != nil {
		cols["email"] = *c.Email
	}
	if c.PasswordHash != nil {
		cols["password_hash"] = *c.PasswordHash
	}
	if c.Role != nil {
		cols["role"] = *c.Role
	}
	if c.Status != nil {
		cols["status"] = *c.Status
	}
	return cols
}

// ResetLookup is the slice of a user row needed to judge a reset token.
type ResetLookup struct {
	ID           uuid.UUID
	ResetExpires *time.Time
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByResetToken(ctx context.Context, tokenHash string) (*ResetLookup, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expires time.Time) error
	ConsumeResetToken(ctx context.Context, tokenHash string, passwordHash string, now time.Time) (bool, error)
	ClearResetToken(ctx context.Context, tokenHash string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, changes UserChanges) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByResetToken(ctx context.Context, tokenHash string) (*ResetLookup, error) {
	var lookup ResetLookup
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Select("id", "reset_expires").
		Where("reset_token = ?", tokenHash).
		Take(&lookup).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting user by reset token: %w", err)
	}
	return &lookup, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).
		Error
}

func (r *userRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expires time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_token":   tokenHash,
			"reset_expires": expires.UTC(),
		}).
		Error
}

// ConsumeResetToken swaps the password and clears the token in one statement,
// so only one of several concurrent callers can match the row.
func (r *userRepository) ConsumeResetToken(ctx context.Context, tokenHash string, passwordHash string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("reset_token = ? AND reset_expires >= ?", tokenHash, now.UTC()).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"reset_token":   gorm.Expr("NULL"),
			"reset_expires": gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return false, fmt.Errorf("consuming reset token: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *userRepository) ClearResetToken(ctx context.Context, tokenHash string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("reset_token = ?", tokenHash).
		Updates(map[string]any{
			"reset_token":   gorm.Expr("NULL"),
			"reset_expires": gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return false, fmt.Errorf("clearing reset token: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Update writes only the columns set in changes. It reports false when no row
// has the id.
func (r *userRepository) Update(ctx context.Context, id uuid.UUID, changes UserChanges) (bool, error) {
	cols := changes.columns()
	if len(cols) > 0 {
		result := r.db.WithContext(ctx).
			Model(&entity.User{}).
			Where("id = ?", id).
			Updates(cols)
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, ErrDuplicateEmail
		}
		if result.Error != nil {
			return false, fmt.Errorf("updating user: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			return true, nil
		}
	}
	// MySQL reports zero affected rows when the values did not change.
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("counting user: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.User{})
	if result.Error != nil {
		return false, fmt.Errorf("deleting user: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// List returns non-admin accounts, newest first.
func (r *userRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	var users []entity.User
	query := r.db.WithContext(ctx).Where("role <> ?", entity.UserRoleAdmin).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}
