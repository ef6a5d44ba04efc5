package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RoomAvailable   = "available"
	RoomOccupied    = "occupied"
	RoomMaintenance = "maintenance"
)

type Room struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	Number         string          `json:"number" db:"number"`
	Floor          int             `json:"floor" db:"floor"`
	RoomType       string          `json:"room_type" db:"room_type"`
	MonthlyRent    decimal.Decimal `json:"monthly_rent" db:"monthly_rent"`
	Status         string          `json:"status" db:"status"`
	Note           string          `json:"note" db:"note"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateRoomRequest struct {
	Number      string          `json:"number" validate:"required,max=32"`
	Floor       int             `json:"floor" validate:"min=0,max=200"`
	RoomType    string          `json:"room_type" validate:"max=64"`
	MonthlyRent decimal.Decimal `json:"monthly_rent" validate:"gte=0"`
	Note        string          `json:"note" validate:"max=1000"`
}

type UpdateRoomRequest struct {
	Number      *string          `json:"number" validate:"omitempty,max=32"`
	Floor       *int             `json:"floor" validate:"omitempty,min=0,max=200"`
	RoomType    *string          `json:"room_type" validate:"omitempty,max=64"`
	MonthlyRent *decimal.Decimal `json:"monthly_rent" validate:"omitempty,gte=0"`
	Note        *string          `json:"note" validate:"omitempty,max=1000"`
}

type RoomStatusRequest struct {
	Status string `json:"status" validate:"required,room_status"`
}

type RoomFilters struct {
	Status string
	Floor  *int
	Pagination
}
