package analytics

import (
	"context"
	"math"

	"dormdesk/internal/caching"
	"dormdesk/internal/common"
	"dormdesk/internal/logger"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalyticsService builds the monthly dashboard summary of an organization and caches it
type AnalyticsService struct {
	roomRepo     repositories.RoomRepository
	residentRepo repositories.ResidentRepository
	billingRepo  repositories.BillingRepository
	expenseRepo  repositories.ExpenseRepository
	cacheService caching.CacheService
}

func NewAnalyticsService(roomRepo repositories.RoomRepository, residentRepo repositories.ResidentRepository,
	billingRepo repositories.BillingRepository, expenseRepo repositories.ExpenseRepository, cacheService caching.CacheService) *AnalyticsService {
	return &AnalyticsService{
		roomRepo:     roomRepo,
		residentRepo: residentRepo,
		billingRepo:  billingRepo,
		expenseRepo:  expenseRepo,
		cacheService: cacheService,
	}
}

// Summary returns the dashboard for month, from cache when possible
func (a *AnalyticsService) Summary(ctx context.Context, orgID uuid.UUID, month string) (*models.DashboardSummary, error) {
	if err := common.ValidateBillingMonth(month); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	cached, err := a.cacheService.GetDashboard(ctx, orgID, month)
	if err != nil {
		log.Warn("dashboard cache read failed", zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	summary, err := a.CalculateSummary(ctx, orgID, month)
	if err != nil {
		return nil, err
	}
	if err := a.cacheService.SetDashboard(ctx, orgID, summary, caching.DashboardTTL); err != nil {
		log.Warn("dashboard cache write failed", zap.Error(err))
	}
	return summary, nil
}

// CalculateSummary aggregates the month straight from the database
func (a *AnalyticsService) CalculateSummary(ctx context.Context, orgID uuid.UUID, month string) (*models.DashboardSummary, error) {
	from, to, err := common.MonthRange(month)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{Month: month}

	byStatus, err := a.roomRepo.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}
	summary.Occupancy.RoomsByStatus = byStatus
	for _, n := range byStatus {
		summary.Occupancy.TotalRooms += n
	}
	if summary.Occupancy.TotalRooms > 0 {
		rate := float64(byStatus[models.RoomOccupied]) / float64(summary.Occupancy.TotalRooms)
		summary.Occupancy.OccupancyRate = math.Round(rate*10000) / 10000
	}

	if summary.Occupancy.ActiveResidents, err = a.residentRepo.CountActive(ctx, orgID); err != nil {
		return nil, err
	}

	if summary.Billings, err = a.billingRepo.TotalsByStatus(ctx, orgID, month); err != nil {
		return nil, err
	}
	for _, t := range summary.Billings {
		if t.Status != models.BillingPaid {
			summary.OutstandingCount += t.Count
		}
	}

	if summary.Income, err = a.billingRepo.PaidIncome(ctx, orgID, from, to); err != nil {
		return nil, err
	}
	if summary.Expenses, summary.ExpensesTotal, err = a.expenseRepo.TotalsByCategory(ctx, orgID, from, to); err != nil {
		return nil, err
	}
	summary.Net = summary.Income.Sub(summary.ExpensesTotal)

	return summary, nil
}
