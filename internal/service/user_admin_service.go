package service

import (
	"context"
	"errors"
	"strings"

	"backoffice/internal/entity"
	"backoffice/internal/repository"
	"backoffice/internal/utils"

	"github.com/google/uuid"
)

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Status   string
}

// UpdateUserInput carries optional fields; nil leaves the column untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
	Status   *string
}

// UserAdminService is the only place where role and status change.
type UserAdminService struct {
	users        repository.UserRepository
	passwordHash PasswordHasher
}

func NewUserAdminService(users repository.UserRepository, passwordHash PasswordHasher) *UserAdminService {
	return &UserAdminService{users: users, passwordHash: passwordHash}
}

func (s *UserAdminService) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *UserAdminService) Get(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserAdminService) Create(ctx context.Context, input CreateUserInput) (*entity.User, error) {
	name := strings.TrimSpace(input.Name)
	email := utils.NormalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" || input.Role == "" {
		return nil, ErrInvalidInput
	}
	role := entity.UserRole(input.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	status := entity.UserStatusActive
	if input.Status != "" {
		status = entity.UserStatus(input.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	return user, nil
}

func (s *UserAdminService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*entity.User, error) {
	if input.Name == nil && input.Email == nil && input.Password == nil && input.Role == nil && input.Status == nil {
		return nil, ErrNoFieldsToUpdate
	}

	var changes repository.UserChanges
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			changes.Name = &name
		}
	}
	if input.Email != nil {
		if email := utils.NormalizeEmail(*input.Email); email != "" {
			changes.Email = &email
		}
	}
	if input.Role != nil {
		role := entity.UserRole(*input.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		changes.Role = &role
	}
	if input.Status != nil {
		status := entity.UserStatus(*input.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		changes.Status = &status
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := s.passwordHash.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}

	found, err := s.users.Update(ctx, id, changes)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return s.Get(ctx, id)
}

func (s *UserAdminService) Delete(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrUserNotFound
	}
	return user, nil
}
