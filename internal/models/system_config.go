package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ConfigWaterRate       = "water_rate"
	ConfigElectricRate    = "electric_rate"
	ConfigCommonFee       = "common_fee"
	ConfigBillingDueDay   = "billing_due_day"
	ConfigBankAccount     = "bank_account"
	ConfigChatAdminTarget = "chat_admin_target"
)

// DefaultSystemConfig holds the value of every known key before an organization overrides it
var DefaultSystemConfig = map[string]string{
	ConfigWaterRate:       "18.00",
	ConfigElectricRate:    "8.00",
	ConfigCommonFee:       "0.00",
	ConfigBillingDueDay:   "5",
	ConfigBankAccount:     "",
	ConfigChatAdminTarget: "",
}

type SystemConfig struct {
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	Key            string     `json:"key" db:"key"`
	Value          string     `json:"value" db:"value"`
	UpdatedBy      *uuid.UUID `json:"updated_by" db:"updated_by"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
