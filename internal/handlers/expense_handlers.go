package handlers

import (
	"net/http"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/middleware"
	"dormdesk/internal/models"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// ExpenseHandlers handles one-off and recurring expenses
type ExpenseHandlers struct {
	expenseService   services.ExpenseService
	recurringService services.RecurringExpenseService
	rbacMiddleware   *middleware.RBACMiddleware
	now              func() time.Time
}

func NewExpenseHandlers(expenseService services.ExpenseService, recurringService services.RecurringExpenseService, rbacMiddleware *middleware.RBACMiddleware) *ExpenseHandlers {
	return &ExpenseHandlers{
		expenseService:   expenseService,
		recurringService: recurringService,
		rbacMiddleware:   rbacMiddleware,
		now:              time.Now,
	}
}

func (h *ExpenseHandlers) RegisterRoutes(g *echo.Group) {
	read := h.rbacMiddleware.RequirePermission(services.PermExpensesRead)
	write := h.rbacMiddleware.RequirePermission(services.PermExpensesWrite)

	g.GET("/expenses", h.ListExpenses, read)
	g.POST("/expenses", h.CreateExpense, write)
	g.GET("/expenses/:id", h.GetExpense, read)
	g.PUT("/expenses/:id", h.UpdateExpense, write)
	g.DELETE("/expenses/:id", h.DeleteExpense, write)

	g.GET("/recurring-expenses", h.ListRecurringExpenses, read)
	g.POST("/recurring-expenses", h.CreateRecurringExpense, write)
	g.POST("/recurring-expenses/run", h.RunRecurringExpenses, write)
	g.GET("/recurring-expenses/:id", h.GetRecurringExpense, read)
	g.PUT("/recurring-expenses/:id", h.UpdateRecurringExpense, write)
	g.DELETE("/recurring-expenses/:id", h.DeleteRecurringExpense, write)
}

// ListExpenses handles GET /expenses?month=&category=
func (h *ExpenseHandlers) ListExpenses(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	filters := models.ExpenseFilters{
		Month:      c.QueryParam("month"),
		Category:   c.QueryParam("category"),
		Pagination: common.PaginationFromQuery(c),
	}
	if filters.Month != "" {
		if err := common.ValidateBillingMonth(filters.Month); err != nil {
			return err
		}
	}
	expenses, total, err := h.expenseService.List(c.Request().Context(), orgID, filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResult(expenses, total, filters.Pagination))
}

func (h *ExpenseHandlers) CreateExpense(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	var req models.CreateExpenseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	expense, err := h.expenseService.Create(c.Request().Context(), orgID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandlers) GetExpense(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	expense, err := h.expenseService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandlers) UpdateExpense(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	var req models.UpdateExpenseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	expense, err := h.expenseService.Update(c.Request().Context(), orgID, id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandlers) DeleteExpense(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	if err := h.expenseService.Delete(c.Request().Context(), orgID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ExpenseHandlers) ListRecurringExpenses(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	items, err := h.recurringService.List(c.Request().Context(), orgID)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*models.RecurringExpense{}
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (h *ExpenseHandlers) CreateRecurringExpense(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	var req models.CreateRecurringExpenseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.recurringService.Create(c.Request().Context(), orgID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *ExpenseHandlers) GetRecurringExpense(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	item, err := h.recurringService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ExpenseHandlers) UpdateRecurringExpense(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	var req models.UpdateRecurringExpenseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.recurringService.Update(c.Request().Context(), orgID, id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ExpenseHandlers) DeleteRecurringExpense(c echo.Context) error {
	orgID, id, err := scope(c)
	if err != nil {
		return err
	}
	if err := h.recurringService.Delete(c.Request().Context(), orgID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RunRecurringExpenses generates the templates due today without waiting for the scheduler
func (h *ExpenseHandlers) RunRecurringExpenses(c echo.Context) error {
	orgID, err := organization(c)
	if err != nil {
		return err
	}
	result, err := h.recurringService.GenerateDue(c.Request().Context(), orgID, h.now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
