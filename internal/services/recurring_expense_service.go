package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/logger"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RecurringExpenseService interface {
	Create(ctx context.Context, orgID uuid.UUID, req *models.CreateRecurringExpenseRequest) (*models.RecurringExpense, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.RecurringExpense, error)
	List(ctx context.Context, orgID uuid.UUID) ([]*models.RecurringExpense, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateRecurringExpenseRequest) (*models.RecurringExpense, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	// GenerateDue creates this month's expense for every template that is due on now
	GenerateDue(ctx context.Context, orgID uuid.UUID, now time.Time) (*models.GenerateDueResult, error)
	// GenerateDueAll runs GenerateDue for every active organization and returns the number of expenses created
	GenerateDueAll(ctx context.Context, now time.Time) (int, error)
}

type recurringExpenseService struct {
	recurringRepo repositories.RecurringExpenseRepository
	orgRepo       repositories.OrganizationRepository
	cache         DashboardInvalidator
	audit         AuditLogsService
}

func NewRecurringExpenseService(recurringRepo repositories.RecurringExpenseRepository, orgRepo repositories.OrganizationRepository,
	cache DashboardInvalidator, audit AuditLogsService) RecurringExpenseService {
	return &recurringExpenseService{recurringRepo: recurringRepo, orgRepo: orgRepo, cache: cache, audit: audit}
}

func validateDayOfMonth(day int) error {
	if day < 1 || day > 28 {
		return fmt.Errorf("%w: day_of_month must be between 1 and 28", common.ErrInvalidInput)
	}
	return nil
}

func (s *recurringExpenseService) Create(ctx context.Context, orgID uuid.UUID, req *models.CreateRecurringExpenseRequest) (*models.RecurringExpense, error) {
	if err := validateExpenseCategory(req.Category); err != nil {
		return nil, err
	}
	if err := validateDayOfMonth(req.DayOfMonth); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount cannot be negative", common.ErrInvalidInput)
	}

	re := &models.RecurringExpense{
		OrganizationID: orgID,
		Category:       req.Category,
		Description:    strings.TrimSpace(req.Description),
		Amount:         req.Amount.Round(2),
		DayOfMonth:     req.DayOfMonth,
		Active:         true,
	}
	if req.Active != nil {
		re.Active = *req.Active
	}
	if err := s.recurringRepo.Create(ctx, re); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &orgID, "recurring_expenses", re.ID.String(), models.ActionInsert, nil, re)
	return re, nil
}

func (s *recurringExpenseService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.RecurringExpense, error) {
	return s.recurringRepo.GetByID(ctx, orgID, id)
}

func (s *recurringExpenseService) List(ctx context.Context, orgID uuid.UUID) ([]*models.RecurringExpense, error) {
	return s.recurringRepo.List(ctx, orgID, false)
}

func (s *recurringExpenseService) Update(ctx context.Context, orgID, id uuid.UUID, req *models.UpdateRecurringExpenseRequest) (*models.RecurringExpense, error) {
	re, err := s.recurringRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	before := *re

	if req.Category != nil {
		if err := validateExpenseCategory(*req.Category); err != nil {
			return nil, err
		}
		re.Category = *req.Category
	}
	if req.Description != nil {
		re.Description = strings.TrimSpace(*req.Description)
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: amount cannot be negative", common.ErrInvalidInput)
		}
		re.Amount = req.Amount.Round(2)
	}
	if req.DayOfMonth != nil {
		if err := validateDayOfMonth(*req.DayOfMonth); err != nil {
			return nil, err
		}
		re.DayOfMonth = *req.DayOfMonth
	}
	if req.Active != nil {
		re.Active = *req.Active
	}

	if err := s.recurringRepo.Update(ctx, re); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &orgID, "recurring_expenses", id.String(), models.ActionUpdate, before, re)
	return re, nil
}

func (s *recurringExpenseService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	re, err := s.recurringRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.recurringRepo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &orgID, "recurring_expenses", id.String(), models.ActionDelete, re, nil)
	return nil
}

func (s *recurringExpenseService) GenerateDue(ctx context.Context, orgID uuid.UUID, now time.Time) (*models.GenerateDueResult, error) {
	month := common.CurrentMonth(now)
	result := &models.GenerateDueResult{Month: month, Expenses: []*models.Expense{}}

	templates, err := s.recurringRepo.List(ctx, orgID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring expenses: %w", err)
	}

	for _, re := range templates {
		if !re.DueIn(month, now.Day()) {
			continue
		}
		expenseDate := time.Date(now.Year(), now.Month(), re.DayOfMonth, 0, 0, 0, 0, time.UTC)
		expense, err := s.recurringRepo.GenerateForMonth(ctx, re, month, expenseDate)
		if err != nil {
			return result, fmt.Errorf("failed to generate expense for %s: %w", re.ID, err)
		}
		if expense == nil {
			// claimed concurrently
			continue
		}
		result.Expenses = append(result.Expenses, expense)
		s.audit.Record(ctx, &orgID, "expenses", expense.ID.String(), models.ActionInsert, nil, expense)
	}
	result.Generated = len(result.Expenses)

	if result.Generated > 0 {
		invalidateDashboard(ctx, s.cache, orgID)
	}
	return result, nil
}

func (s *recurringExpenseService) GenerateDueAll(ctx context.Context, now time.Time) (int, error) {
	orgIDs, err := s.orgRepo.ListActiveIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list organizations: %w", err)
	}

	log := logger.FromContext(ctx)
	generated, failed := 0, 0
	for _, orgID := range orgIDs {
		result, err := s.GenerateDue(ctx, orgID, now)
		if result != nil {
			generated += result.Generated
		}
		if err != nil {
			failed++
			log.Error("recurring expense generation failed", zap.String("organization_id", orgID.String()), zap.Error(err))
		}
	}
	if failed > 0 {
		return generated, fmt.Errorf("recurring expense generation failed for %d of %d organizations", failed, len(orgIDs))
	}
	return generated, nil
}
