package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AuditLogsRepository interface {
	// Create a new audit log entry
	Create(ctx context.Context, auditLog *models.AuditLog) error

	// List audit logs of an organization with filtering options
	List(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, int, error)

	// Get audit logs for a specific table and record
	GetByTableAndRecord(ctx context.Context, orgID uuid.UUID, tableName, recordID string, page models.Pagination) ([]*models.AuditLog, int, error)

	// Get audit summary for statistics
	GetSummary(ctx context.Context, orgID uuid.UUID, startDate, endDate time.Time) (*models.AuditLogSummary, error)
}

type auditLogsRepo struct {
	db DBTX
}

func NewAuditLogsRepo(db DBTX) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func marshalJSONB(v models.JSONB, field string) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", field, err)
	}
	return b, nil
}

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}
	auditLog.CreatedAt = time.Now()

	newValues, err := marshalJSONB(auditLog.NewValues, "new_values")
	if err != nil {
		return err
	}
	oldValues, err := marshalJSONB(auditLog.OldValues, "old_values")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO audit_logs (id, organization_id, table_name, record_id, action, old_values, new_values, changed_by, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.Exec(ctx, query,
		auditLog.ID,
		auditLog.OrganizationID,
		auditLog.TableName,
		auditLog.RecordID,
		auditLog.Action,
		oldValues,
		newValues,
		auditLog.ChangedBy,
		auditLog.IPAddress,
		auditLog.CreatedAt,
	)
	return err
}

func scanAuditLog(row pgx.Row, total *int) (*models.AuditLog, error) {
	auditLog := &models.AuditLog{}
	var newValuesBytes, oldValuesBytes []byte

	err := row.Scan(
		&auditLog.ID,
		&auditLog.OrganizationID,
		&auditLog.TableName,
		&auditLog.RecordID,
		&auditLog.Action,
		&oldValuesBytes,
		&newValuesBytes,
		&auditLog.ChangedBy,
		&auditLog.IPAddress,
		&auditLog.CreatedAt,
		total,
	)
	if err != nil {
		return nil, err
	}

	if len(newValuesBytes) > 0 {
		if err := json.Unmarshal(newValuesBytes, &auditLog.NewValues); err != nil {
			return nil, fmt.Errorf("failed to unmarshal new_values: %w", err)
		}
	}
	if len(oldValuesBytes) > 0 {
		if err := json.Unmarshal(oldValuesBytes, &auditLog.OldValues); err != nil {
			return nil, fmt.Errorf("failed to unmarshal old_values: %w", err)
		}
	}
	return auditLog, nil
}

func (r *auditLogsRepo) List(ctx context.Context, orgID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, int, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}

	args := []any{orgID}
	query := `
		SELECT id, organization_id, table_name, record_id, action, old_values, new_values, changed_by, ip_address, created_at, COUNT(*) OVER()
		FROM audit_logs
		WHERE organization_id = $1
	`
	if filters.TableName != nil {
		query += ` AND table_name = ` + placeholder(&args, *filters.TableName)
	}
	if filters.RecordID != nil {
		query += ` AND record_id = ` + placeholder(&args, *filters.RecordID)
	}
	if filters.Action != nil {
		query += ` AND action = ` + placeholder(&args, *filters.Action)
	}
	if filters.ChangedBy != nil {
		query += ` AND changed_by = ` + placeholder(&args, *filters.ChangedBy)
	}
	if filters.StartDate != nil {
		query += ` AND created_at >= ` + placeholder(&args, *filters.StartDate)
	}
	if filters.EndDate != nil {
		query += ` AND created_at <= ` + placeholder(&args, *filters.EndDate)
	}
	query += ` ORDER BY created_at DESC`
	if filters.Limit > 0 {
		query += ` LIMIT ` + placeholder(&args, filters.Limit) + ` OFFSET ` + placeholder(&args, filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	auditLogs := []*models.AuditLog{}
	total := 0
	for rows.Next() {
		auditLog, err := scanAuditLog(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		auditLogs = append(auditLogs, auditLog)
	}
	return auditLogs, total, rows.Err()
}

func (r *auditLogsRepo) GetByTableAndRecord(ctx context.Context, orgID uuid.UUID, tableName, recordID string, page models.Pagination) ([]*models.AuditLog, int, error) {
	filters := &models.AuditLogFilters{
		TableName:  &tableName,
		RecordID:   &recordID,
		Pagination: page,
	}
	return r.List(ctx, orgID, filters)
}

func (r *auditLogsRepo) GetSummary(ctx context.Context, orgID uuid.UUID, startDate, endDate time.Time) (*models.AuditLogSummary, error) {
	summary := &models.AuditLogSummary{
		OrganizationID:  orgID,
		TableBreakdown:  make(map[string]int),
		ActionBreakdown: make(map[string]int),
		PeriodStart:     startDate,
		PeriodEnd:       endDate,
	}

	rows, err := r.db.Query(ctx, `
		SELECT table_name, action, COUNT(*)
		FROM audit_logs
		WHERE organization_id = $1 AND created_at BETWEEN $2 AND $3
		GROUP BY table_name, action
	`, orgID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tableName, action string
		var count int
		if err := rows.Scan(&tableName, &action, &count); err != nil {
			return nil, err
		}
		summary.TableBreakdown[tableName] += count
		summary.ActionBreakdown[action] += count
		summary.TotalLogs += count
	}
	return summary, rows.Err()
}
