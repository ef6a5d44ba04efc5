package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/logger"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditLogsService interface {
	// Create audit log entry
	LogActivity(ctx context.Context, orgID *uuid.UUID, tableName, recordID, action string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error

	// Record writes an entry for the current actor. Failures are logged and swallowed.
	Record(ctx context.Context, orgID *uuid.UUID, tableName, recordID, action string, oldValues, newValues any)

	// Query audit logs
	ListAuditLogs(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, int, error)
	GetEntityHistory(ctx context.Context, orgID uuid.UUID, tableName, recordID string, page models.Pagination) ([]*models.AuditLog, int, error)
	GetAuditSummary(ctx context.Context, orgID uuid.UUID, startDate, endDate time.Time) (*models.AuditLogSummary, error)
}

type auditLogsService struct {
	auditLogsRepo repositories.AuditLogsRepository
}

func NewAuditLogsService(auditLogsRepo repositories.AuditLogsRepository) AuditLogsService {
	return &auditLogsService{
		auditLogsRepo: auditLogsRepo,
	}
}

// LogActivity creates a new audit log entry with validation
func (s *auditLogsService) LogActivity(ctx context.Context, orgID *uuid.UUID, tableName, recordID, action string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error {
	if tableName == "" {
		return errors.New("table_name is required")
	}
	if action == "" {
		return errors.New("action is required")
	}

	auditLog := &models.AuditLog{
		ID:             uuid.New(),
		OrganizationID: orgID,
		TableName:      tableName,
		RecordID:       recordID,
		Action:         action,
		OldValues:      oldValues,
		NewValues:      newValues,
		ChangedBy:      changedBy,
		IPAddress:      common.GetClientIPFromContext(ctx),
	}
	return s.auditLogsRepo.Create(ctx, auditLog)
}

func (s *auditLogsService) Record(ctx context.Context, orgID *uuid.UUID, tableName, recordID, action string, oldValues, newValues any) {
	err := s.LogActivity(ctx, orgID, tableName, recordID, action, common.ActorPtr(ctx), EntityValues(oldValues), EntityValues(newValues))
	if err != nil {
		logger.FromContext(ctx).Warn("failed to write audit log",
			zap.String("table", tableName),
			zap.String("record_id", recordID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// ListAuditLogs retrieves audit log entries with filtering
func (s *auditLogsService) ListAuditLogs(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, int, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}
	filters.Limit, filters.Offset = common.ValidatePaginationParams(filters.Limit, filters.Offset)
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, 0, fmt.Errorf("%w: start_date cannot be after end_date", common.ErrInvalidInput)
	}
	return s.auditLogsRepo.List(ctx, orgID, filters)
}

// GetEntityHistory retrieves audit history for a specific entity
func (s *auditLogsService) GetEntityHistory(ctx context.Context, orgID uuid.UUID, tableName, recordID string, page models.Pagination) ([]*models.AuditLog, int, error) {
	page.Limit, page.Offset = common.ValidatePaginationParams(page.Limit, page.Offset)
	return s.auditLogsRepo.GetByTableAndRecord(ctx, orgID, tableName, recordID, page)
}

// GetAuditSummary provides aggregated audit statistics
func (s *auditLogsService) GetAuditSummary(ctx context.Context, orgID uuid.UUID, startDate, endDate time.Time) (*models.AuditLogSummary, error) {
	if startDate.After(endDate) {
		return nil, fmt.Errorf("%w: start_date cannot be after end_date", common.ErrInvalidInput)
	}
	if endDate.Sub(startDate) > 366*24*time.Hour {
		return nil, fmt.Errorf("%w: date range cannot exceed 1 year for summary queries", common.ErrInvalidInput)
	}
	return s.auditLogsRepo.GetSummary(ctx, orgID, startDate, endDate)
}

// EntityValues converts an entity to its JSON field map. Fields hidden from JSON
// (password hashes, object keys) never reach the audit log.
func EntityValues(entity any) models.JSONB {
	switch v := entity.(type) {
	case nil:
		return nil
	case models.JSONB:
		return v
	case map[string]any:
		return v
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return nil
	}
	var values models.JSONB
	if err := json.Unmarshal(data, &values); err != nil {
		return models.JSONB{"value": string(data)}
	}
	return values
}
