package handlers

import (
	"fmt"
	"net/http"

	"dormdesk/internal/common"
	"dormdesk/internal/middleware"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type SettingsHandlers struct {
	settingsService services.SettingsService
	rbacMiddleware  *middleware.RBACMiddleware
}

func NewSettingsHandlers(settingsService services.SettingsService, rbacMiddleware *middleware.RBACMiddleware) *SettingsHandlers {
	return &SettingsHandlers{
		settingsService: settingsService,
		rbacMiddleware:  rbacMiddleware,
	}
}

func (h *SettingsHandlers) RegisterRoutes(g *echo.Group) {
	manage := h.rbacMiddleware.RequirePermission(services.PermSettingsManage)
	g.GET("/settings", h.GetSettings, manage)
	g.PUT("/settings", h.UpdateSettings, manage)
}

func (h *SettingsHandlers) GetSettings(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	settings, err := h.settingsService.GetAll(c.Request().Context(), orgID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings takes a flat key/value object of the settings to change
func (h *SettingsHandlers) UpdateSettings(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	var values map[string]string
	if err := c.Bind(&values); err != nil {
		return fmt.Errorf("%w: settings must be an object of string values", common.ErrInvalidInput)
	}
	settings, err := h.settingsService.Update(c.Request().Context(), orgID, values)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}
