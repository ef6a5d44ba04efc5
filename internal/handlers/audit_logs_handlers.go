package handlers

import (
	"net/http"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/middleware"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// AuditLogsHandlers handles audit logs related HTTP requests
type AuditLogsHandlers struct {
	auditLogsService services.AuditLogsService
	rbacMiddleware   *middleware.RBACMiddleware
}

// NewAuditLogsHandlers creates a new audit logs handlers instance
func NewAuditLogsHandlers(auditLogsService services.AuditLogsService, rbacMiddleware *middleware.RBACMiddleware) *AuditLogsHandlers {
	return &AuditLogsHandlers{
		auditLogsService: auditLogsService,
		rbacMiddleware:   rbacMiddleware,
	}
}

func (h *AuditLogsHandlers) RegisterRoutes(g *echo.Group) {
	read := h.rbacMiddleware.RequirePermission(services.PermAuditRead)

	g.GET("/audit-logs", h.ListAuditLogs, read)
	g.GET("/audit-logs/summary", h.GetAuditSummary, read)
	g.GET("/audit-logs/:table/:record_id", h.GetEntityHistory, read)
}

// ListAuditLogs retrieves audit logs with filtering and pagination
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}

	filters := &models.AuditLogFilters{Pagination: common.PaginationFromQuery(c)}
	if table := c.QueryParam("table"); table != "" {
		filters.TableName = &table
	}
	if recordID := c.QueryParam("record_id"); recordID != "" {
		filters.RecordID = &recordID
	}
	if action := c.QueryParam("action"); action != "" {
		filters.Action = &action
	}
	if filters.ChangedBy, err = common.ParseOptionalUUID(c.QueryParam("user_id"), "user_id"); err != nil {
		return err
	}
	if filters.StartDate, err = optionalDate(c.QueryParam("start_date"), "start_date", false); err != nil {
		return err
	}
	if filters.EndDate, err = optionalDate(c.QueryParam("end_date"), "end_date", true); err != nil {
		return err
	}

	logs, total, err := h.auditLogsService.ListAuditLogs(c.Request().Context(), orgID, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResult(logs, total, filters.Pagination))
}

// GetEntityHistory lists the entries of one record, newest first
func (h *AuditLogsHandlers) GetEntityHistory(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	page := common.PaginationFromQuery(c)
	logs, total, err := h.auditLogsService.GetEntityHistory(c.Request().Context(), orgID, c.Param("table"), c.Param("record_id"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResult(logs, total, page))
}

// GetAuditSummary counts entries by table and action, over the last 30 days by default
func (h *AuditLogsHandlers) GetAuditSummary(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)
	if d, err := optionalDate(c.QueryParam("start_date"), "start_date", false); err != nil {
		return err
	} else if d != nil {
		start = *d
	}
	if d, err := optionalDate(c.QueryParam("end_date"), "end_date", true); err != nil {
		return err
	} else if d != nil {
		end = *d
	}

	summary, err := h.auditLogsService.GetAuditSummary(c.Request().Context(), orgID, start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// optionalDate parses a YYYY-MM-DD query value. An end date covers the whole day.
func optionalDate(raw, field string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := common.ParseDate(raw, field)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &d, nil
}
