package handlers

import (
	"fmt"
	"net/http"

	"dormdesk/internal/common"
	"dormdesk/internal/logger"
	"dormdesk/internal/middleware"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BillingHandlers handles monthly bills and their payment review
type BillingHandlers struct {
	billingService  services.BillingService
	documentService services.DocumentService
	rbacMiddleware  *middleware.RBACMiddleware
}

func NewBillingHandlers(billingService services.BillingService, documentService services.DocumentService, rbacMiddleware *middleware.RBACMiddleware) *BillingHandlers {
	return &BillingHandlers{
		billingService:  billingService,
		documentService: documentService,
		rbacMiddleware:  rbacMiddleware,
	}
}

func (h *BillingHandlers) RegisterRoutes(g *echo.Group) {
	read := h.rbacMiddleware.RequirePermission(services.PermBillingsRead)
	write := h.rbacMiddleware.RequirePermission(services.PermBillingsWrite)
	review := h.rbacMiddleware.RequirePermission(services.PermBillingsReview)

	g.GET("/billings", h.ListBillings, read)
	g.POST("/billings/generate", h.GenerateBillings, write)
	g.GET("/billings/:id", h.GetBilling, read)
	g.PUT("/billings/:id", h.UpdateBilling, write)
	g.DELETE("/billings/:id", h.DeleteBilling, write)
	g.POST("/billings/:id/payment", h.SubmitPayment, write)
	g.POST("/billings/:id/confirm", h.ConfirmPayment, review)
	g.POST("/billings/:id/reject", h.RejectPayment, review)
	g.POST("/billings/:id/remind", h.SendReminder, write)
	g.GET("/billings/:id/receipt", h.DownloadReceipt, read)
}

// ListBillings handles GET /billings?month=&status=&room_id=&resident_id=
func (h *BillingHandlers) ListBillings(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	filters := models.BillingFilters{
		BillingMonth: c.QueryParam("month"),
		Status:       c.QueryParam("status"),
		Pagination:   common.PaginationFromQuery(c),
	}
	if filters.BillingMonth != "" {
		if err := common.ValidateBillingMonth(filters.BillingMonth); err != nil {
			return err
		}
	}
	if filters.RoomID, err = common.ParseOptionalUUID(c.QueryParam("room_id"), "room_id"); err != nil {
		return err
	}
	if filters.ResidentID, err = common.ParseOptionalUUID(c.QueryParam("resident_id"), "resident_id"); err != nil {
		return err
	}

	billings, total, err := h.billingService.List(c.Request().Context(), orgID, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResult(billings, total, filters.Pagination))
}

// GenerateBillings issues the month's bills for every active resident
func (h *BillingHandlers) GenerateBillings(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	var req models.GenerateBillingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.billingService.GenerateMonthly(c.Request().Context(), orgID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *BillingHandlers) GetBilling(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	billing, err := h.billingService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, billing)
}

func (h *BillingHandlers) UpdateBilling(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	var req models.UpdateBillingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	billing, err := h.billingService.Update(c.Request().Context(), orgID, id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, billing)
}

func (h *BillingHandlers) DeleteBilling(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	if err := h.billingService.Delete(c.Request().Context(), orgID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitPayment accepts either a multipart "slip" file or a JSON body naming an
// already uploaded document
func (h *BillingHandlers) SubmitPayment(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var req models.SubmitPaymentRequest
	var uploaded *models.Document
	if isMultipart(c) {
		// nothing is stored for a missing or settled bill
		current, err := h.billingService.GetByID(ctx, orgID, id)
		if err != nil {
			return err
		}
		if !current.AcceptsSlip() {
			return fmt.Errorf("%w: bill is %s", common.ErrInvalidTransition, current.Status)
		}
		uploaded, err = uploadFormFile(c, h.documentService, orgID, "slip", "billing", id)
		if err != nil {
			return err
		}
		req.SlipDocumentID = uploaded.ID
	} else if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	billing, err := h.billingService.SubmitPayment(ctx, orgID, id, req.SlipDocumentID)
	if err != nil {
		if uploaded != nil {
			if delErr := h.documentService.Delete(ctx, orgID, uploaded.ID); delErr != nil {
				logger.FromContext(ctx).Warn("failed to remove unused payment slip",
					zap.String("document_id", uploaded.ID.String()), zap.Error(delErr))
			}
		}
		return err
	}
	return c.JSON(http.StatusOK, billing)
}

func (h *BillingHandlers) ConfirmPayment(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	billing, err := h.billingService.ConfirmPayment(c.Request().Context(), orgID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, billing)
}

func (h *BillingHandlers) RejectPayment(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	var req models.RejectPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	billing, err := h.billingService.RejectPayment(c.Request().Context(), orgID, id, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, billing)
}

func (h *BillingHandlers) SendReminder(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	result, err := h.billingService.SendReminder(c.Request().Context(), orgID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// DownloadReceipt streams the PDF receipt of a paid bill
func (h *BillingHandlers) DownloadReceipt(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	pdf, fileName, err := h.billingService.Receipt(c.Request().Context(), orgID, id)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
