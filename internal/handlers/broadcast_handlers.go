package handlers

import (
	"net/http"

	"dormdesk/internal/middleware"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type BroadcastHandlers struct {
	broadcastService services.BroadcastService
	rbacMiddleware   *middleware.RBACMiddleware
}

func NewBroadcastHandlers(broadcastService services.BroadcastService, rbacMiddleware *middleware.RBACMiddleware) *BroadcastHandlers {
	return &BroadcastHandlers{
		broadcastService: broadcastService,
		rbacMiddleware:   rbacMiddleware,
	}
}

func (h *BroadcastHandlers) RegisterRoutes(g *echo.Group) {
	g.POST("/broadcasts", h.Broadcast, h.rbacMiddleware.RequirePermission(services.PermBroadcastSend))
}

// Broadcast pushes a message to every linked resident, optionally limited to rooms
func (h *BroadcastHandlers) Broadcast(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	var req models.BroadcastRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.broadcastService.Broadcast(c.Request().Context(), orgID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
