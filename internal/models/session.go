package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSession is a server side login session. The raw token never touches the database.
type UserSession struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash string     `json:"-" db:"token_hash"`
	UserAgent string     `json:"user_agent" db:"user_agent"`
	IPAddress string     `json:"ip_address" db:"ip_address"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// SessionPrincipal is the authenticated identity resolved from a session
type SessionPrincipal struct {
	SessionID      uuid.UUID  `json:"session_id"`
	UserID         uuid.UUID  `json:"user_id"`
	OrganizationID *uuid.UUID `json:"organization_id"`
	Role           string     `json:"role"`
	ExpiresAt      time.Time  `json:"expires_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *User         `json:"user"`
	Org       *Organization `json:"organization,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72,nefield=OldPassword"`
}

type MeResponse struct {
	User *User         `json:"user"`
	Org  *Organization `json:"organization,omitempty"`
}
