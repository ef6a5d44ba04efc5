package handlers

import (
	"net/http"

	"dormdesk/internal/common"
	"dormdesk/internal/middleware"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers manages the staff accounts of an organization
type UserHandlers struct {
	userService    services.UserService
	rbacMiddleware *middleware.RBACMiddleware
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(userService services.UserService, rbacMiddleware *middleware.RBACMiddleware) *UserHandlers {
	return &UserHandlers{
		userService:    userService,
		rbacMiddleware: rbacMiddleware,
	}
}

func (h *UserHandlers) RegisterRoutes(g *echo.Group) {
	read := h.rbacMiddleware.RequirePermission(services.PermUsersRead)
	manage := h.rbacMiddleware.RequirePermission(services.PermUsersManage)

	g.GET("/users", h.ListUsers, read)
	g.POST("/users", h.CreateUser, manage)
	g.GET("/users/:id", h.GetUser, read)
	g.PUT("/users/:id", h.UpdateUser, manage)
	g.DELETE("/users/:id", h.DeleteUser, manage)
}

func (h *UserHandlers) ListUsers(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	filters := models.UserFilters{
		Role:       c.QueryParam("role"),
		Status:     c.QueryParam("status"),
		Pagination: common.PaginationFromQuery(c),
	}
	users, total, err := h.userService.List(c.Request().Context(), orgID, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResult(users, total, filters.Pagination))
}

func (h *UserHandlers) CreateUser(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	var req models.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Create(c.Request().Context(), orgID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) UpdateUser(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Update(c.Request().Context(), orgID, id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) DeleteUser(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	if err := h.userService.Delete(c.Request().Context(), orgID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
