package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
	RoleViewer     = "viewer"

	UserActive   = "active"
	UserDisabled = "disabled"
)

type User struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID *uuid.UUID `json:"organization_id" db:"organization_id"`
	Email          string     `json:"email" db:"email"`
	PasswordHash   string     `json:"-" db:"password_hash"` // Never serialize in JSON
	FullName       string     `json:"full_name" db:"full_name"`
	Role           string     `json:"role" db:"role"`
	Status         string     `json:"status" db:"status"`
	LastLoginAt    *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Role     string `json:"role" validate:"required,user_role"`
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=200"`
	Role     *string `json:"role" validate:"omitempty,user_role"`
	Status   *string `json:"status" validate:"omitempty,oneof=active disabled"`
}

type UserFilters struct {
	Role   string
	Status string
	Pagination
}
