package handlers

import (
	"fmt"
	"net/http"

	"dormdesk/internal/common"
	"dormdesk/internal/middleware"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// OrganizationHandlers manages dormitory organizations
type OrganizationHandlers struct {
	orgService     services.OrganizationService
	rbacMiddleware *middleware.RBACMiddleware
}

func NewOrganizationHandlers(orgService services.OrganizationService, rbacMiddleware *middleware.RBACMiddleware) *OrganizationHandlers {
	return &OrganizationHandlers{
		orgService:     orgService,
		rbacMiddleware: rbacMiddleware,
	}
}

func (h *OrganizationHandlers) RegisterRoutes(g *echo.Group) {
	manage := h.rbacMiddleware.RequirePermission(services.PermOrganizationsManage)

	g.GET("/organizations", h.ListOrganizations, manage)
	g.POST("/organizations", h.CreateOrganization, manage)
	g.GET("/organizations/:id", h.GetOrganization, h.rbacMiddleware.RequirePermission(services.PermOrganizationsRead))
	g.PUT("/organizations/:id", h.UpdateOrganization, manage)
	g.PUT("/organizations/:id/status", h.SetOrganizationStatus, manage)
}

func (h *OrganizationHandlers) ListOrganizations(c echo.Context) error {
	page := common.PaginationFromQuery(c)
	orgs, total, err := h.orgService.List(c.Request().Context(), c.QueryParam("status"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResult(orgs, total, page))
}

func (h *OrganizationHandlers) CreateOrganization(c echo.Context) error {
	var req models.CreateOrganizationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	org, err := h.orgService.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, org)
}

// GetOrganization lets every member read their own organization. Others look missing.
func (h *OrganizationHandlers) GetOrganization(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if role, _ := common.GetRoleFromContext(ctx); role != models.RoleSuperAdmin {
		if own, ok := common.GetOrganizationIDFromContext(ctx); !ok || own != id {
			return fmt.Errorf("organization: %w", common.ErrNotFound)
		}
	}

	org, err := h.orgService.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandlers) UpdateOrganization(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req models.UpdateOrganizationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	org, err := h.orgService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, org)
}

// SetOrganizationStatus suspends or reactivates an organization
func (h *OrganizationHandlers) SetOrganizationStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req models.UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	org, err := h.orgService.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, org)
}
