package repositories

import (
	"context"
	"testing"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SessionRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo SessionRepository
}

func (suite *SessionRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewSessionRepo(mock)
}

func (suite *SessionRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestSessionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(SessionRepoTestSuite))
}

func (suite *SessionRepoTestSuite) TestGetPrincipal() {
	sessionID, userID, orgID := uuid.New(), uuid.New(), uuid.New()
	expires := time.Now().Add(time.Hour)

	suite.mock.ExpectQuery("FROM user_sessions s").
		WithArgs(sessionID, "hash").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "organization_id", "role", "expires_at"}).
			AddRow(sessionID, userID, &orgID, models.RoleAdmin, expires))

	p, err := suite.repo.GetPrincipal(context.Background(), sessionID, "hash")
	suite.Require().NoError(err)
	suite.Equal(userID, p.UserID)
	suite.Equal(orgID, *p.OrganizationID)
	suite.Equal(models.RoleAdmin, p.Role)
}

func (suite *SessionRepoTestSuite) TestGetPrincipal_RevokedOrExpired() {
	sessionID := uuid.New()
	suite.mock.ExpectQuery("FROM user_sessions s").
		WithArgs(sessionID, "hash").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "organization_id", "role", "expires_at"}))

	_, err := suite.repo.GetPrincipal(context.Background(), sessionID, "hash")
	suite.ErrorIs(err, common.ErrNotFound)
}

func (suite *SessionRepoTestSuite) TestRevokeAllForUser_KeepsCurrent() {
	userID, keep, other := uuid.New(), uuid.New(), uuid.New()
	suite.mock.ExpectQuery("UPDATE user_sessions SET revoked_at").
		WithArgs(userID, keep).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(other))

	ids, err := suite.repo.RevokeAllForUser(context.Background(), userID, &keep)
	suite.Require().NoError(err)
	suite.Equal([]uuid.UUID{other}, ids)
}

func (suite *SessionRepoTestSuite) TestDeleteStale() {
	cutoff := time.Now().Add(-24 * time.Hour)
	suite.mock.ExpectExec("DELETE FROM user_sessions").
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := suite.repo.DeleteStale(context.Background(), cutoff)
	suite.NoError(err)
	suite.Equal(int64(3), n)
}

func (suite *SessionRepoTestSuite) TestOpenIDsForUser() {
	userID, a, b := uuid.New(), uuid.New(), uuid.New()
	suite.mock.ExpectQuery("SELECT id FROM user_sessions").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(a).AddRow(b))

	ids, err := suite.repo.OpenIDsForUser(context.Background(), userID)
	suite.Require().NoError(err)
	suite.Equal([]uuid.UUID{a, b}, ids)
}

func (suite *SessionRepoTestSuite) TestOpenIDsForOrganization() {
	orgID, a := uuid.New(), uuid.New()
	suite.mock.ExpectQuery("JOIN users u ON u.id = s.user_id").
		WithArgs(orgID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(a))

	ids, err := suite.repo.OpenIDsForOrganization(context.Background(), orgID)
	suite.Require().NoError(err)
	suite.Equal([]uuid.UUID{a}, ids)
}
