package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"dormdesk/internal/caching"
	"dormdesk/internal/common"
	"dormdesk/internal/models"
	"dormdesk/internal/repositories"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AnalyticsServiceTestSuite struct {
	suite.Suite
	db      pgxmock.PgxPoolIface
	redis   redismock.ClientMock
	service *AnalyticsService
	orgID   uuid.UUID
	ctx     context.Context
}

func (s *AnalyticsServiceTestSuite) SetupTest() {
	db, err := pgxmock.NewPool()
	s.Require().NoError(err)
	client, redisMock := redismock.NewClientMock()

	s.db = db
	s.redis = redisMock
	s.service = NewAnalyticsService(
		repositories.NewRoomRepo(db),
		repositories.NewResidentRepo(db),
		repositories.NewBillingRepo(db),
		repositories.NewExpenseRepo(db),
		caching.NewRedisCacheService(client),
	)
	s.orgID = uuid.New()
	s.ctx = context.Background()
}

func (s *AnalyticsServiceTestSuite) TearDownTest() {
	s.NoError(s.db.ExpectationsWereMet())
	s.NoError(s.redis.ExpectationsWereMet())
	s.db.Close()
}

func TestAnalyticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}

func (s *AnalyticsServiceTestSuite) dashboardKey(month string) string {
	return fmt.Sprintf("dormdesk:dashboard:%s:%s", s.orgID, month)
}

func (s *AnalyticsServiceTestSuite) expectMonth(month string) {
	from, to, err := common.MonthRange(month)
	s.Require().NoError(err)

	s.db.ExpectQuery("SELECT status, COUNT\\(\\*\\) FROM rooms").
		WithArgs(s.orgID).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow(models.RoomAvailable, 2).
			AddRow(models.RoomOccupied, 4))
	s.db.ExpectQuery("FROM residents WHERE organization_id = \\$1 AND status = 'active'").
		WithArgs(s.orgID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))
	s.db.ExpectQuery("SELECT status, COUNT").
		WithArgs(s.orgID, month).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count", "sum"}).
			AddRow(models.BillingPaid, 3, decimal.NewFromInt(10500)).
			AddRow(models.BillingPending, 1, decimal.NewFromInt(3500)).
			AddRow(models.BillingReview, 1, decimal.NewFromInt(3600)))
	s.db.ExpectQuery("status = 'paid' AND paid_at >= \\$2").
		WithArgs(s.orgID, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.NewFromInt(10500)))
	s.db.ExpectQuery("SELECT category, COALESCE").
		WithArgs(s.orgID, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"category", "sum"}).
			AddRow("maintenance", decimal.RequireFromString("1200.50")).
			AddRow("utilities", decimal.NewFromInt(800)))
}

func (s *AnalyticsServiceTestSuite) TestCalculateSummary() {
	s.expectMonth("2024-05")

	summary, err := s.service.CalculateSummary(s.ctx, s.orgID, "2024-05")
	s.Require().NoError(err)

	s.Equal(6, summary.Occupancy.TotalRooms)
	s.Equal(0, summary.Occupancy.RoomsByStatus[models.RoomMaintenance])
	s.Equal(5, summary.Occupancy.ActiveResidents)
	s.Equal(0.6667, summary.Occupancy.OccupancyRate)
	s.Equal(2, summary.OutstandingCount)
	s.True(summary.Income.Equal(decimal.NewFromInt(10500)))
	s.True(summary.ExpensesTotal.Equal(decimal.RequireFromString("2000.50")))
	s.True(summary.Net.Equal(decimal.RequireFromString("8499.50")))
	s.Len(summary.Expenses, 2)
}

func (s *AnalyticsServiceTestSuite) TestSummary_CacheHitSkipsDatabase() {
	cached := models.DashboardSummary{Month: "2024-05", Income: decimal.NewFromInt(42)}
	data, err := json.Marshal(cached)
	s.Require().NoError(err)
	s.redis.ExpectGet(s.dashboardKey("2024-05")).SetVal(string(data))

	got, err := s.service.Summary(s.ctx, s.orgID, "2024-05")
	s.Require().NoError(err)
	s.True(got.Income.Equal(decimal.NewFromInt(42)))
}

func (s *AnalyticsServiceTestSuite) TestSummary_MissCalculatesAndCaches() {
	s.redis.ExpectGet(s.dashboardKey("2024-05")).RedisNil()
	s.expectMonth("2024-05")
	s.redis.CustomMatch(func(expected, actual []interface{}) error {
		data, ok := actual[2].([]byte)
		if !ok {
			return errors.New("dashboard value is not JSON bytes")
		}
		var stored models.DashboardSummary
		if err := json.Unmarshal(data, &stored); err != nil {
			return err
		}
		if actual[1] != expected[1] || stored.Month != "2024-05" || !stored.Net.Equal(decimal.RequireFromString("8499.50")) {
			return fmt.Errorf("unexpected dashboard write %v", actual[:2])
		}
		return nil
	}).ExpectSet(s.dashboardKey("2024-05"), "", caching.DashboardTTL).SetVal("OK")

	got, err := s.service.Summary(s.ctx, s.orgID, "2024-05")
	s.Require().NoError(err)
	s.Equal(6, got.Occupancy.TotalRooms)
}

func (s *AnalyticsServiceTestSuite) TestSummary_CacheDownStillAnswers() {
	s.redis.ExpectGet(s.dashboardKey("2024-05")).SetErr(errors.New("connection refused"))
	s.expectMonth("2024-05")
	s.redis.Regexp().ExpectSet(s.dashboardKey("2024-05"), ".*", caching.DashboardTTL).SetErr(errors.New("connection refused"))

	got, err := s.service.Summary(s.ctx, s.orgID, "2024-05")
	s.Require().NoError(err)
	s.Equal(2, got.OutstandingCount)
}

func (s *AnalyticsServiceTestSuite) TestSummary_EmptyOrganization() {
	from, to, err := common.MonthRange("2024-06")
	s.Require().NoError(err)
	s.redis.ExpectGet(s.dashboardKey("2024-06")).RedisNil()
	s.db.ExpectQuery("FROM rooms").WithArgs(s.orgID).WillReturnRows(pgxmock.NewRows([]string{"status", "count"}))
	s.db.ExpectQuery("FROM residents").WithArgs(s.orgID).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	s.db.ExpectQuery("SELECT status, COUNT").WithArgs(s.orgID, "2024-06").
		WillReturnRows(pgxmock.NewRows([]string{"status", "count", "sum"}))
	s.db.ExpectQuery("status = 'paid'").WithArgs(s.orgID, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.Zero))
	s.db.ExpectQuery("FROM expenses").WithArgs(s.orgID, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"category", "sum"}))
	s.redis.Regexp().ExpectSet(s.dashboardKey("2024-06"), ".*", caching.DashboardTTL).SetVal("OK")

	got, err := s.service.Summary(s.ctx, s.orgID, "2024-06")
	s.Require().NoError(err)
	s.Zero(got.Occupancy.TotalRooms)
	s.Zero(got.Occupancy.OccupancyRate)
	s.True(got.Net.IsZero())
}

func (s *AnalyticsServiceTestSuite) TestSummary_BadMonth() {
	_, err := s.service.Summary(s.ctx, s.orgID, "2024-13")
	s.ErrorIs(err, common.ErrInvalidInput)
}

func (s *AnalyticsServiceTestSuite) TestCalculateSummary_DatabaseError() {
	s.db.ExpectQuery("FROM rooms").WithArgs(s.orgID).WillReturnError(errors.New("db down"))

	_, err := s.service.CalculateSummary(s.ctx, s.orgID, "2024-05")
	s.EqualError(err, "db down")
}
