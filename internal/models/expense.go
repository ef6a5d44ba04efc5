package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ExpenseCategories = []string{"utilities", "maintenance", "salary", "supplies", "tax", "other"}

type Expense struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	OrganizationID     uuid.UUID       `json:"organization_id" db:"organization_id"`
	Category           string          `json:"category" db:"category"`
	Description        string          `json:"description" db:"description"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	ExpenseDate        time.Time       `json:"expense_date" db:"expense_date"`
	ReceiptDocumentID  *uuid.UUID      `json:"receipt_document_id" db:"receipt_document_id"`
	RecurringExpenseID *uuid.UUID      `json:"recurring_expense_id" db:"recurring_expense_id"`
	CreatedBy          *uuid.UUID      `json:"created_by" db:"created_by"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateExpenseRequest struct {
	Category          string          `json:"category" validate:"required,expense_category"`
	Description       string          `json:"description" validate:"required,max=500"`
	Amount            decimal.Decimal `json:"amount" validate:"gte=0"`
	ExpenseDate       string          `json:"expense_date" validate:"required,datetime=2006-01-02"`
	ReceiptDocumentID *uuid.UUID      `json:"receipt_document_id"`
}

type UpdateExpenseRequest struct {
	Category          *string          `json:"category" validate:"omitempty,expense_category"`
	Description       *string          `json:"description" validate:"omitempty,max=500"`
	Amount            *decimal.Decimal `json:"amount" validate:"omitempty,gte=0"`
	ExpenseDate       *string          `json:"expense_date" validate:"omitempty,datetime=2006-01-02"`
	ReceiptDocumentID *uuid.UUID       `json:"receipt_document_id"`
}

type ExpenseFilters struct {
	Month    string
	Category string
	Pagination
}

// ExpenseCategoryTotal is the sum of expenses of one category
type ExpenseCategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type RecurringExpense struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	OrganizationID     uuid.UUID       `json:"organization_id" db:"organization_id"`
	Category           string          `json:"category" db:"category"`
	Description        string          `json:"description" db:"description"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	DayOfMonth         int             `json:"day_of_month" db:"day_of_month"`
	Active             bool            `json:"active" db:"active"`
	LastGeneratedMonth *string         `json:"last_generated_month" db:"last_generated_month"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// DueIn reports whether an expense should be generated for month on day today
func (r *RecurringExpense) DueIn(month string, today int) bool {
	if !r.Active || today < r.DayOfMonth {
		return false
	}
	return r.LastGeneratedMonth == nil || *r.LastGeneratedMonth < month
}

type CreateRecurringExpenseRequest struct {
	Category    string          `json:"category" validate:"required,expense_category"`
	Description string          `json:"description" validate:"required,max=500"`
	Amount      decimal.Decimal `json:"amount" validate:"gte=0"`
	DayOfMonth  int             `json:"day_of_month" validate:"required,min=1,max=28"`
	Active      *bool           `json:"active"`
}

type UpdateRecurringExpenseRequest struct {
	Category    *string          `json:"category" validate:"omitempty,expense_category"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitempty,gte=0"`
	DayOfMonth  *int             `json:"day_of_month" validate:"omitempty,min=1,max=28"`
	Active      *bool            `json:"active"`
}

type GenerateDueResult struct {
	Month     string     `json:"month"`
	Generated int        `json:"generated"`
	Expenses  []*Expense `json:"expenses"`
}
