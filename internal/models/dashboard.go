package models

import "github.com/shopspring/decimal"

type OccupancySummary struct {
	TotalRooms      int            `json:"total_rooms"`
	RoomsByStatus   map[string]int `json:"rooms_by_status"`
	ActiveResidents int            `json:"active_residents"`
	OccupancyRate   float64        `json:"occupancy_rate"`
}

type DashboardSummary struct {
	Month            string                 `json:"month"`
	Occupancy        OccupancySummary       `json:"occupancy"`
	Billings         []BillingStatusTotal   `json:"billings"`
	Income           decimal.Decimal        `json:"income"`
	Expenses         []ExpenseCategoryTotal `json:"expenses"`
	ExpensesTotal    decimal.Decimal        `json:"expenses_total"`
	Net              decimal.Decimal        `json:"net"`
	OutstandingCount int                    `json:"outstanding_count"`
}

type BroadcastRequest struct {
	Message string   `json:"message" validate:"required,max=2000"`
	RoomIDs []string `json:"room_ids" validate:"omitempty,dive,uuid"`
}

type BroadcastResult struct {
	Recipients int `json:"recipients"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}
