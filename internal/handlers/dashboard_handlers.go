package handlers

import (
	"context"
	"net/http"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/middleware"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DashboardService interface {
	Summary(ctx context.Context, orgID uuid.UUID, month string) (*models.DashboardSummary, error)
}

type DashboardHandlers struct {
	dashboard      DashboardService
	rbacMiddleware *middleware.RBACMiddleware
	now            func() time.Time
}

func NewDashboardHandlers(dashboard DashboardService, rbacMiddleware *middleware.RBACMiddleware) *DashboardHandlers {
	return &DashboardHandlers{
		dashboard:      dashboard,
		rbacMiddleware: rbacMiddleware,
		now:            time.Now,
	}
}

func (h *DashboardHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.GetSummary, h.rbacMiddleware.RequirePermission(services.PermDashboardRead))
}

// GetSummary handles GET /dashboard?month=YYYY-MM, defaulting to the current month
func (h *DashboardHandlers) GetSummary(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	month := c.QueryParam("month")
	if month == "" {
		month = common.CurrentMonth(h.now())
	} else if err := common.ValidateBillingMonth(month); err != nil {
		return err
	}

	summary, err := h.dashboard.Summary(c.Request().Context(), orgID, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
