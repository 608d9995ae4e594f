package address

import (
	"github.com/google/uuid"
)

type Address struct {
	ID     uuid.UUID `json:"id"`
	UserID uint      `json:"userId"`

	FullName string `json:"fullName"`
	Phone    string `json:"phone"`

	Line1 string  `json:"line1"`
	Line2 *string `json:"line2,omitempty"`

	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`

	IsDefault bool `json:"isDefault"`
	IsActive  bool `json:"-"`
}

type CreateInput struct {
	FullName     string  `json:"fullName" validate:"required,max=120"`
	Phone        string  `json:"phone" validate:"required,max=32"`
	Line1        string  `json:"line1" validate:"required,max=200"`
	Line2        *string `json:"line2" validate:"omitempty,max=200"`
	City         string  `json:"city" validate:"required,max=100"`
	Region       string  `json:"region" validate:"required,max=100"`
	PostalCode   string  `json:"postalCode" validate:"max=20"`
	Country      string  `json:"country" validate:"required,len=2"`
	SetAsDefault bool    `json:"setAsDefault"`
}

type UpdateInput struct {
	AddressID    string  `json:"-" validate:"required,uuid4"`
	FullName     string  `json:"fullName" validate:"required,max=120"`
	Phone        string  `json:"phone" validate:"required,max=32"`
	Line1        string  `json:"line1" validate:"required,max=200"`
	Line2        *string `json:"line2" validate:"omitempty,max=200"`
	City         string  `json:"city" validate:"required,max=100"`
	Region       string  `json:"region" validate:"required,max=100"`
	PostalCode   string  `json:"postalCode" validate:"max=20"`
	Country      string  `json:"country" validate:"required,len=2"`
	SetAsDefault bool    `json:"setAsDefault"`
}
