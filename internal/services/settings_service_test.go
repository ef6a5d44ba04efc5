package services

import (
	"context"
	"testing"

	"dormdesk/internal/common"
	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_GetAllMergesDefaults(t *testing.T) {
	repo := &MockSystemConfigRepository{}
	svc := NewSettingsService(repo, newMockAudit())
	orgID := uuid.New()

	repo.On("GetAll", mock.Anything, orgID).Return(map[string]string{
		models.ConfigWaterRate: "20.00",
		"legacy_key":           "ignored",
	}, nil)

	all, err := svc.GetAll(context.Background(), orgID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", all[models.ConfigWaterRate])
	assert.Equal(t, "8.00", all[models.ConfigElectricRate])
	assert.NotContains(t, all, "legacy_key")
	assert.Len(t, all, len(models.DefaultSystemConfig))
}

func TestSettingsService_UpdateNormalizes(t *testing.T) {
	repo := &MockSystemConfigRepository{}
	svc := NewSettingsService(repo, newMockAudit())
	orgID := uuid.New()

	repo.On("GetAll", mock.Anything, orgID).Return(map[string]string{}, nil)
	repo.On("Upsert", mock.Anything, orgID, map[string]string{
		models.ConfigWaterRate:     "21.50",
		models.ConfigBillingDueDay: "10",
	}, (*uuid.UUID)(nil)).Return(nil)

	after, err := svc.Update(context.Background(), orgID, map[string]string{
		models.ConfigWaterRate:     " 21.5 ",
		models.ConfigBillingDueDay: "10",
	})
	require.NoError(t, err)
	assert.Equal(t, "21.50", after[models.ConfigWaterRate])
	assert.Equal(t, "10", after[models.ConfigBillingDueDay])
	repo.AssertExpectations(t)
}

func TestSettingsService_UpdateRejectsBadValues(t *testing.T) {
	svc := NewSettingsService(&MockSystemConfigRepository{}, newMockAudit())
	orgID := uuid.New()

	tests := []struct {
		name   string
		values map[string]string
	}{
		{"empty", map[string]string{}},
		{"negative rate", map[string]string{models.ConfigElectricRate: "-1"}},
		{"not a number", map[string]string{models.ConfigCommonFee: "abc"}},
		{"due day too late", map[string]string{models.ConfigBillingDueDay: "31"}},
		{"unknown key", map[string]string{"currency": "THB"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), orgID, tt.values)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
}

func TestSettingsService_BillingSettingsFallsBackOnGarbage(t *testing.T) {
	repo := &MockSystemConfigRepository{}
	svc := NewSettingsService(repo, newMockAudit())
	orgID := uuid.New()

	repo.On("GetAll", mock.Anything, orgID).Return(map[string]string{
		models.ConfigElectricRate:  "7.25",
		models.ConfigWaterRate:     "n/a",
		models.ConfigBillingDueDay: "0",
		models.ConfigBankAccount:   "SCB 111-2-33333-4",
	}, nil)

	bs, err := svc.BillingSettings(context.Background(), orgID)
	require.NoError(t, err)
	assert.True(t, bs.ElectricRate.Equal(decimal.RequireFromString("7.25")))
	assert.True(t, bs.WaterRate.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, 5, bs.DueDay)
	assert.Equal(t, "SCB 111-2-33333-4", bs.BankAccount)
}
