package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BillingPending  = "pending"
	BillingReview   = "review"
	BillingPaid     = "paid"
	BillingRejected = "rejected"
)

type Billing struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	ResidentID     uuid.UUID       `json:"resident_id" db:"resident_id"`
	RoomID         *uuid.UUID      `json:"room_id" db:"room_id"`
	BillingMonth   string          `json:"billing_month" db:"billing_month"`
	RentAmount     decimal.Decimal `json:"rent_amount" db:"rent_amount"`
	WaterUnits     decimal.Decimal `json:"water_units" db:"water_units"`
	WaterAmount    decimal.Decimal `json:"water_amount" db:"water_amount"`
	ElectricUnits  decimal.Decimal `json:"electric_units" db:"electric_units"`
	ElectricAmount decimal.Decimal `json:"electric_amount" db:"electric_amount"`
	OtherAmount    decimal.Decimal `json:"other_amount" db:"other_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	DueDate        time.Time       `json:"due_date" db:"due_date"`
	Status         string          `json:"status" db:"status"`
	SlipDocumentID *uuid.UUID      `json:"slip_document_id" db:"slip_document_id"`
	SubmittedAt    *time.Time      `json:"submitted_at" db:"submitted_at"`
	ReviewedBy     *uuid.UUID      `json:"reviewed_by" db:"reviewed_by"`
	ReviewedAt     *time.Time      `json:"reviewed_at" db:"reviewed_at"`
	PaidAt         *time.Time      `json:"paid_at" db:"paid_at"`
	RejectReason   string          `json:"reject_reason" db:"reject_reason"`
	Note           string          `json:"note" db:"note"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// Recalculate sets TotalAmount from the component amounts
func (b *Billing) Recalculate() {
	b.TotalAmount = b.RentAmount.Add(b.WaterAmount).Add(b.ElectricAmount).Add(b.OtherAmount)
}

// Editable reports whether amounts may still be changed
func (b *Billing) Editable() bool {
	return b.Status == BillingPending || b.Status == BillingRejected
}

// AcceptsSlip reports whether a payment slip may be submitted, replacing one under review
func (b *Billing) AcceptsSlip() bool {
	return b.Status == BillingPending || b.Status == BillingRejected || b.Status == BillingReview
}

// Unpaid reports whether the bill still awaits a confirmed payment
func (b *Billing) Unpaid() bool {
	return b.Status != BillingPaid
}

// MeterReading is the usage of one room for one billing month
type MeterReading struct {
	RoomID        uuid.UUID       `json:"room_id" validate:"required"`
	WaterUnits    decimal.Decimal `json:"water_units" validate:"gte=0"`
	ElectricUnits decimal.Decimal `json:"electric_units" validate:"gte=0"`
}

type GenerateBillingsRequest struct {
	BillingMonth string         `json:"billing_month" validate:"required,billing_month"`
	Readings     []MeterReading `json:"readings" validate:"dive"`
}

type GenerateBillingsResult struct {
	Created  int        `json:"created"`
	Skipped  int        `json:"skipped"`
	Billings []*Billing `json:"billings"`
}

type UpdateBillingRequest struct {
	RentAmount     *decimal.Decimal `json:"rent_amount" validate:"omitempty,gte=0"`
	WaterUnits     *decimal.Decimal `json:"water_units" validate:"omitempty,gte=0"`
	WaterAmount    *decimal.Decimal `json:"water_amount" validate:"omitempty,gte=0"`
	ElectricUnits  *decimal.Decimal `json:"electric_units" validate:"omitempty,gte=0"`
	ElectricAmount *decimal.Decimal `json:"electric_amount" validate:"omitempty,gte=0"`
	OtherAmount    *decimal.Decimal `json:"other_amount" validate:"omitempty,gte=0"`
	DueDate        *string          `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Note           *string          `json:"note" validate:"omitempty,max=1000"`
}

type SubmitPaymentRequest struct {
	SlipDocumentID uuid.UUID `json:"slip_document_id" validate:"required"`
}

type RejectPaymentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type BillingFilters struct {
	BillingMonth string
	Status       string
	RoomID       *uuid.UUID
	ResidentID   *uuid.UUID
	Pagination
}

// BillingStatusTotal aggregates bills of one status
type BillingStatusTotal struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}
