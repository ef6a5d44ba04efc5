package repositories

import (
	"context"
	"testing"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RoomRepoTestSuite struct {
	suite.Suite
	mock  pgxmock.PgxPoolIface
	repo  RoomRepository
	orgID uuid.UUID
}

func (suite *RoomRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewRoomRepo(mock)
	suite.orgID = uuid.New()
}

func (suite *RoomRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestRoomRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RoomRepoTestSuite))
}

func (suite *RoomRepoTestSuite) TestCreate() {
	room := &models.Room{OrganizationID: suite.orgID, Number: "101", Floor: 1, MonthlyRent: decimal.NewFromInt(3500)}
	now := time.Now()

	suite.mock.ExpectQuery("INSERT INTO rooms").
		WithArgs(pgxmock.AnyArg(), suite.orgID, "101", 1, "", room.MonthlyRent, models.RoomAvailable, "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := suite.repo.Create(context.Background(), room)
	suite.Require().NoError(err)
	suite.NotEqual(uuid.Nil, room.ID)
	suite.Equal(models.RoomAvailable, room.Status)
}

func (suite *RoomRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery("SELECT (.+) FROM rooms").
		WithArgs(suite.orgID, id).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	room, err := suite.repo.GetByID(context.Background(), suite.orgID, id)
	suite.Nil(room)
	suite.ErrorIs(err, common.ErrNotFound)
}

func (suite *RoomRepoTestSuite) TestList() {
	id := uuid.New()
	now := time.Now()
	suite.mock.ExpectQuery("SELECT (.+) FROM rooms WHERE organization_id = \\$1 AND status = \\$2").
		WithArgs(suite.orgID, models.RoomOccupied, 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "organization_id", "number", "floor", "room_type", "monthly_rent", "status", "note", "created_at", "updated_at", "count"}).
			AddRow(id, suite.orgID, "201", 2, "fan", decimal.NewFromInt(2800), models.RoomOccupied, "", now, now, 7))

	rooms, total, err := suite.repo.List(context.Background(), suite.orgID, models.RoomFilters{
		Status:     models.RoomOccupied,
		Pagination: models.Pagination{Limit: 20},
	})
	suite.Require().NoError(err)
	suite.Len(rooms, 1)
	suite.Equal(7, total)
	suite.Equal("201", rooms[0].Number)
}

func (suite *RoomRepoTestSuite) TestDelete_WithActiveResidents() {
	id := uuid.New()
	suite.mock.ExpectExec("DELETE FROM rooms").
		WithArgs(suite.orgID, id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	suite.mock.ExpectQuery("SELECT EXISTS").
		WithArgs(suite.orgID, id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := suite.repo.Delete(context.Background(), suite.orgID, id)
	suite.ErrorIs(err, common.ErrConflict)
}

func (suite *RoomRepoTestSuite) TestDelete_Missing() {
	id := uuid.New()
	suite.mock.ExpectExec("DELETE FROM rooms").
		WithArgs(suite.orgID, id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	suite.mock.ExpectQuery("SELECT EXISTS").
		WithArgs(suite.orgID, id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := suite.repo.Delete(context.Background(), suite.orgID, id)
	suite.ErrorIs(err, common.ErrNotFound)
}

func (suite *RoomRepoTestSuite) TestSetStatus() {
	id := uuid.New()
	suite.mock.ExpectExec("UPDATE rooms SET status").
		WithArgs(suite.orgID, id, models.RoomMaintenance).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	suite.NoError(suite.repo.SetStatus(context.Background(), suite.orgID, id, models.RoomMaintenance))
}

func (suite *RoomRepoTestSuite) TestCountByStatus_FillsMissingStatuses() {
	suite.mock.ExpectQuery("SELECT status, COUNT").
		WithArgs(suite.orgID).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).AddRow(models.RoomOccupied, 4))

	counts, err := suite.repo.CountByStatus(context.Background(), suite.orgID)
	suite.Require().NoError(err)
	suite.Equal(map[string]int{models.RoomAvailable: 0, models.RoomOccupied: 4, models.RoomMaintenance: 0}, counts)
}
