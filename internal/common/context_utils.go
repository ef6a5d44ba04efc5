package common

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey         contextKey = "user_id"
	OrganizationIDKey contextKey = "organization_id"
	RoleKey           contextKey = "role"
	SessionIDKey      contextKey = "session_id"
	ClientIPKey       contextKey = "client_ip"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, fieldName)
	}
	if len(idStr) != 36 {
		return uuid.Nil, fmt.Errorf("%w: %s must be exactly 36 characters (including hyphens)", ErrInvalidInput, fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s contains invalid characters: %v", ErrInvalidInput, fieldName, err)
	}
	return id, nil
}

// ParseOptionalUUID parses a query parameter that may be empty
func ParseOptionalUUID(idStr, fieldName string) (*uuid.UUID, error) {
	if strings.TrimSpace(idStr) == "" {
		return nil, nil
	}
	id, err := ValidateUUID(idStr, fieldName)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ValidateBillingMonth checks a YYYY-MM month string
func ValidateBillingMonth(month string) error {
	if _, err := time.Parse(models.BillingMonthLayout, month); err != nil || len(month) != 7 {
		return fmt.Errorf("%w: month must be in YYYY-MM format", ErrInvalidInput)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(dateStr, fieldName string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be in YYYY-MM-DD format", ErrInvalidInput, fieldName)
	}
	return d, nil
}

// CurrentMonth formats t as a billing month
func CurrentMonth(t time.Time) string {
	return t.Format(models.BillingMonthLayout)
}

// MonthRange returns the first day of month and the first day of the following month
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse(models.BillingMonthLayout, month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month must be in YYYY-MM format", ErrInvalidInput)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// SanitizeSearchQuery strips LIKE wildcards from a free text search
func SanitizeSearchQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	query = strings.ReplaceAll(query, "%", "")
	query = strings.ReplaceAll(query, "_", "")
	if len(query) > 100 {
		query = query[:100]
	}
	return strings.TrimSpace(query)
}

// ValidatePaginationParams clamps limit and offset
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// PaginationFromQuery reads limit/offset (or page) query parameters
func PaginationFromQuery(c echo.Context) models.Pagination {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 0 && c.QueryParam("offset") == "" {
		l, _ := ValidatePaginationParams(limit, 0)
		offset = (page - 1) * l
	}
	limit, offset = ValidatePaginationParams(limit, offset)
	return models.Pagination{Limit: limit, Offset: offset}
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetOrganizationIDFromContext extracts the acting organization from the request context
func GetOrganizationIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	orgID, ok := ctx.Value(OrganizationIDKey).(uuid.UUID)
	return orgID, ok
}

// GetRoleFromContext extracts the role of the authenticated user
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// GetSessionIDFromContext extracts the session id of the current request
func GetSessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(SessionIDKey).(uuid.UUID)
	return id, ok
}

// GetClientIPFromContext returns the caller address recorded by the session middleware
func GetClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ClientIPKey).(string)
	return ip
}

// WithPrincipal stores the authenticated identity in ctx
func WithPrincipal(ctx context.Context, sessionID, userID uuid.UUID, orgID *uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, SessionIDKey, sessionID)
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, RoleKey, role)
	if orgID != nil {
		ctx = context.WithValue(ctx, OrganizationIDKey, *orgID)
	}
	return ctx
}

// WithOrganization sets the acting organization
func WithOrganization(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, OrganizationIDKey, orgID)
}

// RequireOrganization returns the acting organization or ErrForbidden when none was selected
func RequireOrganization(ctx context.Context) (uuid.UUID, error) {
	orgID, ok := GetOrganizationIDFromContext(ctx)
	if !ok || orgID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: organization not selected", ErrForbidden)
	}
	return orgID, nil
}

// ActorPtr returns the current user id as a pointer for audit and created_by columns
func ActorPtr(ctx context.Context) *uuid.UUID {
	if id, ok := GetUserIDFromContext(ctx); ok {
		return &id
	}
	return nil
}

// WithClientIP records the caller address for audit entries
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}
