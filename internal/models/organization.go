package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrganizationActive    = "active"
	OrganizationSuspended = "suspended"
)

type Organization struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Address   string    `json:"address" db:"address"`
	Phone     string    `json:"phone" db:"phone"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateOrganizationRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Slug    string `json:"slug" validate:"required,max=64,slug"`
	Address string `json:"address" validate:"max=500"`
	Phone   string `json:"phone" validate:"max=32"`
	// Optional first admin of the organization
	AdminEmail    string `json:"admin_email" validate:"omitempty,email"`
	AdminPassword string `json:"admin_password" validate:"required_with=AdminEmail,omitempty,min=8,max=72"`
	AdminName     string `json:"admin_name" validate:"max=200"`
}

type UpdateOrganizationRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=200"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
