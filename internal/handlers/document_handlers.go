package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"dormdesk/internal/common"
	"dormdesk/internal/middleware"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type DocumentHandlers struct {
	documentService services.DocumentService
	rbacMiddleware  *middleware.RBACMiddleware
}

func NewDocumentHandlers(documentService services.DocumentService, rbacMiddleware *middleware.RBACMiddleware) *DocumentHandlers {
	return &DocumentHandlers{
		documentService: documentService,
		rbacMiddleware:  rbacMiddleware,
	}
}

func (h *DocumentHandlers) RegisterRoutes(g *echo.Group) {
	read := h.rbacMiddleware.RequirePermission(services.PermDocumentsRead)
	write := h.rbacMiddleware.RequirePermission(services.PermDocumentsWrite)

	g.POST("/documents", h.UploadDocument, write)
	g.GET("/documents", h.ListDocuments, read)
	g.GET("/documents/:id", h.GetDocument, read)
	g.DELETE("/documents/:id", h.DeleteDocument, write)
}

// UploadDocument handles a multipart upload with owner_type, owner_id and file fields
func (h *DocumentHandlers) UploadDocument(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	if !isMultipart(c) {
		return fmt.Errorf("%w: expected multipart/form-data", common.ErrInvalidInput)
	}
	ownerID, err := common.ValidateUUID(c.FormValue("owner_id"), "owner_id")
	if err != nil {
		return err
	}
	doc, err := uploadFormFile(c, h.documentService, orgID, "file", strings.TrimSpace(c.FormValue("owner_type")), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

// ListDocuments handles GET /documents?owner_type=&owner_id=
func (h *DocumentHandlers) ListDocuments(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	ownerID, err := common.ParseOptionalUUID(c.QueryParam("owner_id"), "owner_id")
	if err != nil {
		return err
	}
	page := common.PaginationFromQuery(c)
	docs, total, err := h.documentService.List(c.Request().Context(), orgID, c.QueryParam("owner_type"), ownerID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResult(docs, total, page))
}

// GetDocument returns the metadata with a short-lived download URL
func (h *DocumentHandlers) GetDocument(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	doc, err := h.documentService.Get(c.Request().Context(), orgID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandlers) DeleteDocument(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	if err := h.documentService.Delete(c.Request().Context(), orgID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
