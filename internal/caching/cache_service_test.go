package caching

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"dormdesk/internal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPrincipal_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheService(db)
	id := uuid.New()

	mock.ExpectGet(sessionKey(id)).RedisNil()

	p, err := cache.GetPrincipal(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPrincipal_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheService(db)
	orgID := uuid.New()
	want := models.SessionPrincipal{SessionID: uuid.New(), UserID: uuid.New(), OrganizationID: &orgID, Role: models.RoleStaff}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet(sessionKey(want.SessionID)).SetVal(string(data))

	got, err := cache.GetPrincipal(context.Background(), want.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, orgID, *got.OrganizationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPrincipal_SkipsExpiredSessions(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheService(db)

	err := cache.SetPrincipal(context.Background(), &models.SessionPrincipal{
		SessionID: uuid.New(),
		ExpiresAt: time.Now().Add(-time.Minute),
	}, time.Minute)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSession(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheService(db)
	a, b := uuid.New(), uuid.New()

	mock.ExpectDel(sessionKey(a), sessionKey(b)).SetVal(2)

	assert.NoError(t, cache.DeleteSession(context.Background(), a, b))
	assert.NoError(t, cache.DeleteSession(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRoundTrip(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheService(db)
	orgID := uuid.New()
	summary := &models.DashboardSummary{Month: "2025-03", Income: decimal.NewFromInt(9000)}
	data, err := json.Marshal(summary)
	require.NoError(t, err)

	mock.ExpectSet(dashboardKey(orgID, "2025-03"), data, DashboardTTL).SetVal("OK")
	mock.ExpectGet(dashboardKey(orgID, "2025-03")).SetVal(string(data))

	require.NoError(t, cache.SetDashboard(context.Background(), orgID, summary, DashboardTTL))
	got, err := cache.GetDashboard(context.Background(), orgID, "2025-03")
	require.NoError(t, err)
	assert.True(t, got.Income.Equal(summary.Income))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateDashboard(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheService(db)
	orgID := uuid.New()
	pattern := "dormdesk:dashboard:" + orgID.String() + ":*"
	keys := []string{dashboardKey(orgID, "2025-02"), dashboardKey(orgID, "2025-03")}

	mock.ExpectScan(0, pattern, 100).SetVal(keys, 0)
	mock.ExpectDel(keys...).SetVal(2)

	assert.NoError(t, cache.InvalidateDashboard(context.Background(), orgID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheService(db)
	key := rateLimitKey("login:a@b.co")

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, 15*time.Minute).SetVal(true)
	mock.ExpectGet(key).SetVal("5")
	mock.ExpectGet(key).RedisNil()

	require.NoError(t, cache.IncrementRateLimit(context.Background(), "login:a@b.co", 15*time.Minute))

	limited, err := cache.IsRateLimited(context.Background(), "login:a@b.co", 5)
	require.NoError(t, err)
	assert.True(t, limited)

	limited, err = cache.IsRateLimited(context.Background(), "login:a@b.co", 5)
	require.NoError(t, err)
	assert.False(t, limited)
	assert.NoError(t, mock.ExpectationsWereMet())
}
