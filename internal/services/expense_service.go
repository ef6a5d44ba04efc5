package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"dormdesk/internal/common"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
)

type ExpenseService interface {
	Create(ctx context.Context, orgID uuid.UUID, req *models.CreateExpenseRequest) (*models.Expense, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Expense, error)
	List(ctx context.Context, orgID uuid.UUID, filters models.ExpenseFilters) ([]*models.Expense, int, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateExpenseRequest) (*models.Expense, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type expenseService struct {
	expenseRepo  repositories.ExpenseRepository
	documentRepo repositories.DocumentRepository
	cache        DashboardInvalidator
	audit        AuditLogsService
}

func NewExpenseService(expenseRepo repositories.ExpenseRepository, documentRepo repositories.DocumentRepository,
	cache DashboardInvalidator, audit AuditLogsService) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo, documentRepo: documentRepo, cache: cache, audit: audit}
}

func validateExpenseCategory(category string) error {
	if !slices.Contains(models.ExpenseCategories, category) {
		return fmt.Errorf("%w: category must be one of %s", common.ErrInvalidInput, strings.Join(models.ExpenseCategories, ", "))
	}
	return nil
}

func (s *expenseService) checkReceipt(ctx context.Context, orgID uuid.UUID, docID *uuid.UUID) error {
	if docID == nil {
		return nil
	}
	if _, err := s.documentRepo.GetByID(ctx, orgID, *docID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: receipt document does not exist", common.ErrInvalidInput)
		}
		return err
	}
	return nil
}

func (s *expenseService) Create(ctx context.Context, orgID uuid.UUID, req *models.CreateExpenseRequest) (*models.Expense, error) {
	if err := validateExpenseCategory(req.Category); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount cannot be negative", common.ErrInvalidInput)
	}
	date, err := common.ParseDate(req.ExpenseDate, "expense_date")
	if err != nil {
		return nil, err
	}
	if err := s.checkReceipt(ctx, orgID, req.ReceiptDocumentID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		OrganizationID:    orgID,
		Category:          req.Category,
		Description:       strings.TrimSpace(req.Description),
		Amount:            req.Amount.Round(2),
		ExpenseDate:       date,
		ReceiptDocumentID: req.ReceiptDocumentID,
		CreatedBy:         common.ActorPtr(ctx),
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "expenses", expense.ID.String(), models.ActionInsert, nil, expense)
	return expense, nil
}

func (s *expenseService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Expense, error) {
	return s.expenseRepo.GetByID(ctx, orgID, id)
}

func (s *expenseService) List(ctx context.Context, orgID uuid.UUID, filters models.ExpenseFilters) ([]*models.Expense, int, error) {
	if filters.Month != "" {
		if err := common.ValidateBillingMonth(filters.Month); err != nil {
			return nil, 0, err
		}
	}
	if filters.Category != "" {
		if err := validateExpenseCategory(filters.Category); err != nil {
			return nil, 0, err
		}
	}
	filters.Limit, filters.Offset = common.ValidatePaginationParams(filters.Limit, filters.Offset)
	return s.expenseRepo.List(ctx, orgID, filters)
}

func (s *expenseService) Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateExpenseRequest) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	before := *expense

	if req.Category != nil {
		if err := validateExpenseCategory(*req.Category); err != nil {
			return nil, err
		}
		expense.Category = *req.Category
	}
	if req.Description != nil {
		expense.Description = strings.TrimSpace(*req.Description)
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: amount cannot be negative", common.ErrInvalidInput)
		}
		expense.Amount = req.Amount.Round(2)
	}
	if req.ExpenseDate != nil {
		if expense.ExpenseDate, err = common.ParseDate(*req.ExpenseDate, "expense_date"); err != nil {
			return nil, err
		}
	}
	if req.ReceiptDocumentID != nil {
		if err := s.checkReceipt(ctx, orgID, req.ReceiptDocumentID); err != nil {
			return nil, err
		}
		expense.ReceiptDocumentID = req.ReceiptDocumentID
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "expenses", id.String(), models.ActionUpdate, before, expense)
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	invalidateDashboard(ctx, s.cache, orgID)
	s.audit.Record(ctx, &orgID, "expenses", id.String(), models.ActionDelete, expense, nil)
	return nil
}
