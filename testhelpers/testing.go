package testhelpers

import (
	"context"
	"os"
	"testing"

	"dormdesk/pkg/database"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL and applies the migrations. The test is
// skipped when the variable is not set.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	migrator, err := database.NewMigrator(connString, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create migrator: %v", err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	_ = migrator.Close()

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	db := &TestDB{Pool: pool, Cleanup: pool.Close}
	t.Cleanup(db.Cleanup)
	return db
}

// SetupTestOrganization creates an active organization. Deleting it cascades to
// everything the test created inside it.
func SetupTestOrganization(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	orgID := uuid.New()
	query := `INSERT INTO organizations (id, name, slug, status) VALUES ($1, $2, $3, 'active')`
	_, err := db.Pool.Exec(context.Background(), query, orgID, gofakeit.Company(), "test-"+orgID.String()[:8])
	if err != nil {
		t.Fatalf("Failed to create test organization: %v", err)
	}

	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), `DELETE FROM organizations WHERE id = $1`, orgID)
	})
	return orgID
}

// SetupTestRoom creates an available room with the given number and rent
func SetupTestRoom(t *testing.T, db *TestDB, orgID uuid.UUID, number string, rent int) uuid.UUID {
	t.Helper()

	roomID := uuid.New()
	query := `
		INSERT INTO rooms (id, organization_id, number, floor, room_type, monthly_rent, status)
		VALUES ($1, $2, $3, 1, 'standard', $4, 'available')
	`
	if _, err := db.Pool.Exec(context.Background(), query, roomID, orgID, number, rent); err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}
	return roomID
}

// RoomStatus reads the current status of a room
func RoomStatus(t *testing.T, db *TestDB, roomID uuid.UUID) string {
	t.Helper()

	var status string
	if err := db.Pool.QueryRow(context.Background(), `SELECT status FROM rooms WHERE id = $1`, roomID).Scan(&status); err != nil {
		t.Fatalf("Failed to read room status: %v", err)
	}
	return status
}
