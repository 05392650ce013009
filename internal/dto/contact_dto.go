package dto

import (
	"time"

	"backoffice/internal/entity"
)

type ContactRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Company    string `json:"company"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject" validate:"required"`
	Message    string `json:"message" validate:"required"`
	Newsletter bool   `json:"newsletter"`
}

type MarkReadRequest struct {
	IDs []uint `json:"ids"`
}

type ContactResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Company    *string   `json:"company"`
	Phone      *string   `json:"phone"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Newsletter bool      `json:"newsletter"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"date_created"`
}

type ContactEnvelope struct {
	Message string          `json:"message"`
	Contact ContactResponse `json:"contact"`
}

func ContactResponseFromEntity(contact *entity.Contact) ContactResponse {
	return ContactResponse{
		ID:         contact.ID,
		Name:       contact.Name,
		Email:      contact.Email,
		Company:    contact.Company,
		Phone:      contact.Phone,
		Subject:    contact.Subject,
		Message:    contact.Message,
		Newsletter: contact.Newsletter,
		IsRead:     contact.IsRead,
		CreatedAt:  contact.CreatedAt,
	}
}

func ContactResponsesFromEntities(contacts []entity.Contact) []ContactResponse {
	responses := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		responses = append(responses, ContactResponseFromEntity(&contacts[i]))
	}
	return responses
}

type MarkReadResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}
