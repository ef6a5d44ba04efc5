package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents an audit log entry for tracking data changes
type AuditLog struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID *uuid.UUID `json:"organization_id" db:"organization_id"`
	TableName      string     `json:"table_name" db:"table_name"`
	RecordID       string     `json:"record_id" db:"record_id"`
	Action         string     `json:"action" db:"action"`
	OldValues      JSONB      `json:"old_values" db:"old_values"`
	NewValues      JSONB      `json:"new_values" db:"new_values"`
	ChangedBy      *uuid.UUID `json:"changed_by" db:"changed_by"`
	IPAddress      string     `json:"ip_address" db:"ip_address"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Action constants for audit logs
const (
	ActionInsert       = "INSERT"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionStatusChange = "STATUS_CHANGE"
	ActionLogin        = "LOGIN"
	ActionLogout       = "LOGOUT"
)

// AuditLogFilters represents filters for querying audit logs
type AuditLogFilters struct {
	TableName *string    `json:"table_name"`
	RecordID  *string    `json:"record_id"`
	Action    *string    `json:"action"`
	ChangedBy *uuid.UUID `json:"changed_by"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Pagination
}

// AuditLogSummary represents summary statistics for audit logs
type AuditLogSummary struct {
	OrganizationID  uuid.UUID      `json:"organization_id"`
	TotalLogs       int            `json:"total_logs"`
	TableBreakdown  map[string]int `json:"table_breakdown"`
	ActionBreakdown map[string]int `json:"action_breakdown"`
	PeriodStart     time.Time      `json:"period_start"`
	PeriodEnd       time.Time      `json:"period_end"`
}
