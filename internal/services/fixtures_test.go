package services

import (
	"time"

	"dormdesk/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func fakeRoom(orgID uuid.UUID, number string, rent int64) *models.Room {
	return &models.Room{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Number:         number,
		Floor:          gofakeit.IntRange(1, 8),
		RoomType:       "standard",
		MonthlyRent:    decimal.NewFromInt(rent),
		Status:         models.RoomOccupied,
	}
}

func fakeResident(orgID uuid.UUID, room *models.Room, linked bool) *models.Resident {
	r := &models.Resident{
		ID:             uuid.New(),
		OrganizationID: orgID,
		FullName:       gofakeit.Name(),
		Phone:          gofakeit.Phone(),
		Email:          gofakeit.Email(),
		Status:         models.ResidentActive,
	}
	if room != nil {
		r.RoomID = &room.ID
	}
	if linked {
		chatID := gofakeit.Numerify("U################")
		r.ChatUserID = &chatID
	}
	return r
}

func fakeBilling(orgID, residentID uuid.UUID, status string) *models.Billing {
	b := &models.Billing{
		ID:             uuid.New(),
		OrganizationID: orgID,
		ResidentID:     residentID,
		BillingMonth:   "2024-05",
		RentAmount:     decimal.NewFromInt(3500),
		WaterUnits:     decimal.NewFromInt(10),
		WaterAmount:    decimal.NewFromInt(180),
		ElectricUnits:  decimal.NewFromInt(100),
		ElectricAmount: decimal.NewFromInt(800),
		OtherAmount:    decimal.NewFromInt(100),
		DueDate:        time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		Status:         status,
	}
	b.Recalculate()
	if status == models.BillingPaid {
		paidAt := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
		b.PaidAt = &paidAt
	}
	return b
}

func defaultBillingSettings() *BillingSettings {
	return &BillingSettings{
		WaterRate:       decimal.NewFromInt(18),
		ElectricRate:    decimal.NewFromInt(8),
		CommonFee:       decimal.NewFromInt(100),
		DueDay:          5,
		BankAccount:     "KBank 123-4-56789-0",
		ChatAdminTarget: "Cadmin",
	}
}
