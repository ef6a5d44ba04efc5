package middleware

import (
	"net/http"
	"strings"

	"dormdesk/internal/common"
	"dormdesk/internal/logger"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const redacted = "[REDACTED]"

var sensitiveHeaders = []string{
	"authorization",
	"cookie",
	"x-api-key",
	"x-auth-token",
	"proxy-authorization",
	"x-line-signature",
}

// headers copied into the audit entry
var auditedHeaders = []string{"Content-Type", "Authorization", "Cookie", OrganizationHeader, "X-Request-Id"}

// AuditMiddleware records every mutating request after the handler ran
type AuditMiddleware struct {
	auditService services.AuditLogsService
}

// NewAuditMiddleware creates a new audit middleware instance
func NewAuditMiddleware(auditService services.AuditLogsService) *AuditMiddleware {
	return &AuditMiddleware{
		auditService: auditService,
	}
}

func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			if !isMutating(c.Request().Method) {
				return err
			}
			m.record(c, err)
			return err
		}
	}
}

func (m *AuditMiddleware) record(c echo.Context, reqErr error) {
	req := c.Request()
	ctx := req.Context()

	status := c.Response().Status
	if reqErr != nil {
		status, _ = common.StatusFromError(reqErr)
	}

	data := models.JSONB{
		"method":     req.Method,
		"path":       req.URL.Path,
		"route":      c.Path(),
		"status":     status,
		"ip":         c.RealIP(),
		"user_agent": req.UserAgent(),
		"headers":    sanitizeHeaders(req.Header),
	}
	if reqErr != nil {
		data["error"] = reqErr.Error()
	}

	var orgID *uuid.UUID
	if id, ok := common.GetOrganizationIDFromContext(ctx); ok {
		orgID = &id
	}
	action := req.Method + " " + c.Path()
	if err := m.auditService.LogActivity(ctx, orgID, "http_requests", req.URL.Path, action, common.ActorPtr(ctx), nil, data); err != nil {
		logger.FromContext(ctx).Warn("failed to audit request", zap.String("action", action), zap.Error(err))
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// sanitizeHeaders keeps the audited headers and redacts credentials
func sanitizeHeaders(headers http.Header) map[string]any {
	sanitized := make(map[string]any)
	for _, key := range auditedHeaders {
		value := headers.Get(key)
		if value == "" {
			continue
		}
		if isSensitiveHeader(key) {
			sanitized[key] = redacted
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func isSensitiveHeader(header string) bool {
	for _, sensitive := range sensitiveHeaders {
		if strings.EqualFold(header, sensitive) {
			return true
		}
	}
	return false
}
