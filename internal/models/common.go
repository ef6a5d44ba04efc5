package models

// JSONB represents PostgreSQL JSONB type
type JSONB map[string]interface{}

// Pagination is the normalized limit/offset pair applied to list queries
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListResult wraps a page of items with the total row count
type ListResult[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

const (
	BillingMonthLayout = "2006-01"
	DateLayout         = "2006-01-02"
)
