package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"dormdesk/internal/common"
	"dormdesk/internal/middleware"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// RoomHandlers handles room-related HTTP requests
type RoomHandlers struct {
	roomService    services.RoomService
	rbacMiddleware *middleware.RBACMiddleware
}

func NewRoomHandlers(roomService services.RoomService, rbacMiddleware *middleware.RBACMiddleware) *RoomHandlers {
	return &RoomHandlers{
		roomService:    roomService,
		rbacMiddleware: rbacMiddleware,
	}
}

func (h *RoomHandlers) RegisterRoutes(g *echo.Group) {
	read := h.rbacMiddleware.RequirePermission(services.PermRoomsRead)
	write := h.rbacMiddleware.RequirePermission(services.PermRoomsWrite)

	g.GET("/rooms", h.ListRooms, read)
	g.POST("/rooms", h.CreateRoom, write)
	g.GET("/rooms/:id", h.GetRoom, read)
	g.PUT("/rooms/:id", h.UpdateRoom, write)
	g.DELETE("/rooms/:id", h.DeleteRoom, write)
	g.PUT("/rooms/:id/status", h.SetRoomStatus, write)
}

// ListRooms handles GET /rooms?status=&floor=
func (h *RoomHandlers) ListRooms(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	filters := models.RoomFilters{
		Status:     c.QueryParam("status"),
		Pagination: common.PaginationFromQuery(c),
	}
	if raw := c.QueryParam("floor"); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: floor must be a number", common.ErrInvalidInput)
		}
		filters.Floor = &floor
	}

	rooms, total, err := h.roomService.List(c.Request().Context(), orgID, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResult(rooms, total, filters.Pagination))
}

func (h *RoomHandlers) CreateRoom(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	var req models.CreateRoomRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	room, err := h.roomService.Create(c.Request().Context(), orgID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, room)
}

func (h *RoomHandlers) GetRoom(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	room, err := h.roomService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandlers) UpdateRoom(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	var req models.UpdateRoomRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	room, err := h.roomService.Update(c.Request().Context(), orgID, id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandlers) DeleteRoom(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	if err := h.roomService.Delete(c.Request().Context(), orgID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetRoomStatus puts a room under maintenance or releases it
func (h *RoomHandlers) SetRoomStatus(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	var req models.RoomStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	room, err := h.roomService.SetStatus(c.Request().Context(), orgID, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}
