package services

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"dormdesk/internal/common"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingSettings is the typed view of the configuration used to issue bills
type BillingSettings struct {
	WaterRate       decimal.Decimal
	ElectricRate    decimal.Decimal
	CommonFee       decimal.Decimal
	DueDay          int
	BankAccount     string
	ChatAdminTarget string
}

type SettingsService interface {
	// GetAll returns every known key, stored values overriding defaults
	GetAll(ctx context.Context, orgID uuid.UUID) (map[string]string, error)
	Update(ctx context.Context, orgID uuid.UUID, values map[string]string) (map[string]string, error)
	BillingSettings(ctx context.Context, orgID uuid.UUID) (*BillingSettings, error)
}

type settingsService struct {
	configRepo repositories.SystemConfigRepository
	audit      AuditLogsService
}

func NewSettingsService(configRepo repositories.SystemConfigRepository, audit AuditLogsService) SettingsService {
	return &settingsService{configRepo: configRepo, audit: audit}
}

func (s *settingsService) GetAll(ctx context.Context, orgID uuid.UUID) (map[string]string, error) {
	stored, err := s.configRepo.GetAll(ctx, orgID)
	if err != nil {
		return nil, err
	}
	merged := maps.Clone(models.DefaultSystemConfig)
	for k, v := range stored {
		if _, known := merged[k]; known {
			merged[k] = v
		}
	}
	return merged, nil
}

func (s *settingsService) Update(ctx context.Context, orgID uuid.UUID, values map[string]string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no settings given", common.ErrInvalidInput)
	}
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		v, err := normalizeSetting(key, value)
		if err != nil {
			return nil, err
		}
		normalized[key] = v
	}

	before, err := s.GetAll(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.configRepo.Upsert(ctx, orgID, normalized, common.ActorPtr(ctx)); err != nil {
		return nil, err
	}

	after := maps.Clone(before)
	maps.Copy(after, normalized)
	s.audit.Record(ctx, &orgID, "system_configs", orgID.String(), models.ActionUpdate, before, after)
	return after, nil
}

// normalizeSetting validates a value for key and returns its canonical form
func normalizeSetting(key, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch key {
	case models.ConfigWaterRate, models.ConfigElectricRate, models.ConfigCommonFee:
		d, err := decimal.NewFromString(value)
		if err != nil || d.IsNegative() {
			return "", fmt.Errorf("%w: %s must be a non-negative decimal", common.ErrInvalidInput, key)
		}
		return d.StringFixed(2), nil
	case models.ConfigBillingDueDay:
		day, err := strconv.Atoi(value)
		if err != nil || day < 1 || day > 28 {
			return "", fmt.Errorf("%w: %s must be between 1 and 28", common.ErrInvalidInput, key)
		}
		return strconv.Itoa(day), nil
	case models.ConfigBankAccount, models.ConfigChatAdminTarget:
		if len(value) > 500 {
			return "", fmt.Errorf("%w: %s is too long", common.ErrInvalidInput, key)
		}
		return value, nil
	default:
		return "", fmt.Errorf("%w: unknown setting %q", common.ErrInvalidInput, key)
	}
}

func (s *settingsService) BillingSettings(ctx context.Context, orgID uuid.UUID) (*BillingSettings, error) {
	all, err := s.GetAll(ctx, orgID)
	if err != nil {
		return nil, err
	}
	out := &BillingSettings{
		BankAccount:     all[models.ConfigBankAccount],
		ChatAdminTarget: all[models.ConfigChatAdminTarget],
	}
	// stored values were validated on write, defaults cover anything unreadable
	out.WaterRate = decimalOrDefault(all[models.ConfigWaterRate], models.DefaultSystemConfig[models.ConfigWaterRate])
	out.ElectricRate = decimalOrDefault(all[models.ConfigElectricRate], models.DefaultSystemConfig[models.ConfigElectricRate])
	out.CommonFee = decimalOrDefault(all[models.ConfigCommonFee], models.DefaultSystemConfig[models.ConfigCommonFee])
	out.DueDay, err = strconv.Atoi(all[models.ConfigBillingDueDay])
	if err != nil || out.DueDay < 1 || out.DueDay > 28 {
		out.DueDay, _ = strconv.Atoi(models.DefaultSystemConfig[models.ConfigBillingDueDay])
	}
	return out, nil
}

func decimalOrDefault(value, fallback string) decimal.Decimal {
	if d, err := decimal.NewFromString(value); err == nil {
		return d
	}
	return decimal.RequireFromString(fallback)
}
