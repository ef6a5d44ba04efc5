package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func recurringTemplate(orgID uuid.UUID, day int, last *string) *models.RecurringExpense {
	return &models.RecurringExpense{
		ID:                 uuid.New(),
		OrganizationID:     orgID,
		Category:           "utilities",
		Description:        "Internet",
		Amount:             decimal.NewFromInt(1200),
		DayOfMonth:         day,
		Active:             true,
		LastGeneratedMonth: last,
	}
}

func TestGenerateDue_OnlyDueTemplates(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2024, 5, 10, 1, 0, 0, 0, time.UTC)
	april, may := "2024-04", "2024-05"

	due := recurringTemplate(orgID, 5, &april)
	notYet := recurringTemplate(orgID, 20, nil)
	done := recurringTemplate(orgID, 1, &may)
	raced := recurringTemplate(orgID, 10, nil)

	repo := &MockRecurringExpenseRepository{}
	repo.On("List", mock.Anything, orgID, true).Return([]*models.RecurringExpense{due, notYet, done, raced}, nil)
	expense := &models.Expense{ID: uuid.New(), OrganizationID: orgID, Amount: due.Amount}
	repo.On("GenerateForMonth", mock.Anything, due, "2024-05", time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)).Return(expense, nil)
	repo.On("GenerateForMonth", mock.Anything, raced, "2024-05", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)).Return(nil, nil)

	cache := &MockCacheService{}
	cache.On("InvalidateDashboard", mock.Anything, orgID).Return(nil).Once()

	svc := NewRecurringExpenseService(repo, &MockOrganizationRepository{}, cache, newMockAudit())
	result, err := svc.GenerateDue(context.Background(), orgID, now)

	require.NoError(t, err)
	assert.Equal(t, "2024-05", result.Month)
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, []*models.Expense{expense}, result.Expenses)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestGenerateDueAll_ContinuesAfterFailure(t *testing.T) {
	okOrg, badOrg := uuid.New(), uuid.New()
	now := time.Date(2024, 5, 28, 1, 0, 0, 0, time.UTC)

	orgRepo := &MockOrganizationRepository{}
	orgRepo.On("ListActiveIDs", mock.Anything).Return([]uuid.UUID{badOrg, okOrg}, nil)

	tmpl := recurringTemplate(okOrg, 28, nil)
	repo := &MockRecurringExpenseRepository{}
	repo.On("List", mock.Anything, badOrg, true).Return([]*models.RecurringExpense(nil), errors.New("timeout"))
	repo.On("List", mock.Anything, okOrg, true).Return([]*models.RecurringExpense{tmpl}, nil)
	repo.On("GenerateForMonth", mock.Anything, tmpl, "2024-05", mock.Anything).Return(&models.Expense{ID: uuid.New()}, nil)

	cache := &MockCacheService{}
	cache.On("InvalidateDashboard", mock.Anything, okOrg).Return(nil)

	svc := NewRecurringExpenseService(repo, orgRepo, cache, newMockAudit())
	generated, err := svc.GenerateDueAll(context.Background(), now)

	assert.Equal(t, 1, generated)
	assert.EqualError(t, err, "recurring expense generation failed for 1 of 2 organizations")
}

func TestRecurringExpenseCreate_Validation(t *testing.T) {
	svc := NewRecurringExpenseService(&MockRecurringExpenseRepository{}, &MockOrganizationRepository{}, &MockCacheService{}, newMockAudit())

	_, err := svc.Create(context.Background(), uuid.New(), &models.CreateRecurringExpenseRequest{Category: "fun", Description: "x", DayOfMonth: 1})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Create(context.Background(), uuid.New(), &models.CreateRecurringExpenseRequest{Category: "tax", Description: "x", DayOfMonth: 31})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
