package handlers

import (
	"net/http"
	"strconv"

	"dormdesk/internal/common"
	"dormdesk/internal/middleware"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type ResidentHandlers struct {
	residentService services.ResidentService
	rbacMiddleware  *middleware.RBACMiddleware
}

func NewResidentHandlers(residentService services.ResidentService, rbacMiddleware *middleware.RBACMiddleware) *ResidentHandlers {
	return &ResidentHandlers{
		residentService: residentService,
		rbacMiddleware:  rbacMiddleware,
	}
}

func (h *ResidentHandlers) RegisterRoutes(g *echo.Group) {
	read := h.rbacMiddleware.RequirePermission(services.PermResidentsRead)
	write := h.rbacMiddleware.RequirePermission(services.PermResidentsWrite)

	g.GET("/residents", h.ListResidents, read)
	g.POST("/residents", h.CreateResident, write)
	g.GET("/residents/:id", h.GetResident, read)
	g.PUT("/residents/:id", h.UpdateResident, write)
	g.DELETE("/residents/:id", h.DeleteResident, write)
	g.POST("/residents/:id/assign-room", h.AssignRoom, write)
	g.POST("/residents/:id/move-out", h.MoveOut, write)
	g.POST("/residents/:id/link-code", h.IssueLinkCode, write)
	g.DELETE("/residents/:id/chat-link", h.UnlinkChat, write)
}

// ListResidents handles GET /residents?status=&room_id=&search=&chat_linked=
func (h *ResidentHandlers) ListResidents(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	roomID, err := common.ParseOptionalUUID(c.QueryParam("room_id"), "room_id")
	if err != nil {
		return err
	}
	linked, _ := strconv.ParseBool(c.QueryParam("chat_linked"))

	filters := models.ResidentFilters{
		Status:         c.QueryParam("status"),
		RoomID:         roomID,
		Search:         common.SanitizeSearchQuery(c.QueryParam("search")),
		ChatLinkedOnly: linked,
		Pagination:     common.PaginationFromQuery(c),
	}
	residents, total, err := h.residentService.List(c.Request().Context(), orgID, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResult(residents, total, filters.Pagination))
}

func (h *ResidentHandlers) CreateResident(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	var req models.CreateResidentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	resident, err := h.residentService.Create(c.Request().Context(), orgID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resident)
}

func (h *ResidentHandlers) GetResident(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	resident, err := h.residentService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resident)
}

func (h *ResidentHandlers) UpdateResident(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	var req models.UpdateResidentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	resident, err := h.residentService.Update(c.Request().Context(), orgID, id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resident)
}

func (h *ResidentHandlers) DeleteResident(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	if err := h.residentService.Delete(c.Request().Context(), orgID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ResidentHandlers) AssignRoom(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	var req models.AssignRoomRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	resident, err := h.residentService.AssignRoom(c.Request().Context(), orgID, id, req.RoomID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resident)
}

// MoveOut handles POST /residents/:id/move-out. An empty body moves out today.
func (h *ResidentHandlers) MoveOut(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	var req models.MoveOutRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}
	resident, err := h.residentService.MoveOut(c.Request().Context(), orgID, id, req.MoveOutDate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resident)
}

func (h *ResidentHandlers) IssueLinkCode(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	resp, err := h.residentService.IssueLinkCode(c.Request().Context(), orgID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ResidentHandlers) UnlinkChat(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	if err := h.residentService.UnlinkChat(c.Request().Context(), orgID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
