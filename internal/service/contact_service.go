package service

import (
	"context"
	"strings"

	"backoffice/internal/entity"
	"backoffice/internal/repository"
)

type ContactInput struct {
	Name       string
	Email      string
	Company    string
	Phone      string
	Subject    string
	Message    string
	Newsletter bool
}

type ContactService struct {
	contacts repository.ContactRepository
}

func NewContactService(contacts repository.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

func (s *ContactService) Create(ctx context.Context, input ContactInput) (*entity.Contact, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, ErrInvalidInput
	}
	contact := &entity.Contact{
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Company:    optional(input.Company),
		Phone:      optional(input.Phone),
		Subject:    strings.TrimSpace(input.Subject),
		Message:    input.Message,
		Newsletter: input.Newsletter,
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]entity.Contact, error) {
	return s.contacts.List(ctx, limit, offset)
}

func (s *ContactService) Get(ctx context.Context, id uint) (*entity.Contact, error) {
	contact, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrNotFound
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.contacts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *ContactService) MarkRead(ctx context.Context, ids []uint) (int64, error) {
	return s.contacts.MarkRead(ctx, ids)
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
