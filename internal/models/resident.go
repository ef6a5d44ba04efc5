package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ResidentActive   = "active"
	ResidentMovedOut = "moved_out"
)

type Resident struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	RoomID         *uuid.UUID      `json:"room_id" db:"room_id"`
	FullName       string          `json:"full_name" db:"full_name"`
	Phone          string          `json:"phone" db:"phone"`
	Email          string          `json:"email" db:"email"`
	NationalID     string          `json:"national_id" db:"national_id"`
	ChatUserID     *string         `json:"chat_user_id" db:"chat_user_id"`
	LinkCode       *string         `json:"link_code,omitempty" db:"link_code"`
	MoveInDate     *time.Time      `json:"move_in_date" db:"move_in_date"`
	MoveOutDate    *time.Time      `json:"move_out_date" db:"move_out_date"`
	Deposit        decimal.Decimal `json:"deposit" db:"deposit"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// ChatLinked reports whether the resident can receive chat messages
func (r *Resident) ChatLinked() bool {
	return r.ChatUserID != nil && *r.ChatUserID != ""
}

type CreateResidentRequest struct {
	FullName   string          `json:"full_name" validate:"required,max=200"`
	Phone      string          `json:"phone" validate:"max=32"`
	Email      string          `json:"email" validate:"omitempty,email"`
	NationalID string          `json:"national_id" validate:"max=32"`
	RoomID     *uuid.UUID      `json:"room_id"`
	MoveInDate string          `json:"move_in_date" validate:"omitempty,datetime=2006-01-02"`
	Deposit    decimal.Decimal `json:"deposit" validate:"gte=0"`
}

type UpdateResidentRequest struct {
	FullName   *string          `json:"full_name" validate:"omitempty,max=200"`
	Phone      *string          `json:"phone" validate:"omitempty,max=32"`
	Email      *string          `json:"email" validate:"omitempty,email"`
	NationalID *string          `json:"national_id" validate:"omitempty,max=32"`
	MoveInDate *string          `json:"move_in_date" validate:"omitempty,datetime=2006-01-02"`
	Deposit    *decimal.Decimal `json:"deposit" validate:"omitempty,gte=0"`
}

type AssignRoomRequest struct {
	RoomID uuid.UUID `json:"room_id" validate:"required"`
}

type MoveOutRequest struct {
	MoveOutDate string `json:"move_out_date" validate:"omitempty,datetime=2006-01-02"`
}

type LinkCodeResponse struct {
	ResidentID uuid.UUID `json:"resident_id"`
	LinkCode   string    `json:"link_code"`
}

type ResidentFilters struct {
	Status string
	RoomID *uuid.UUID
	Search string
	// ChatLinkedOnly restricts results to residents with a bound chat account
	ChatLinkedOnly bool
	RoomIDs        []uuid.UUID
	Pagination
}
