package repositories

import (
	"context"
	"fmt"

	"dormdesk/internal/common"
	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Room, error)
	List(ctx context.Context, orgID uuid.UUID, filters models.RoomFilters) ([]*models.Room, int, error)
	Update(ctx context.Context, room *models.Room) error
	// Delete removes the room unless it still has active residents (ErrConflict)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	// SetStatus puts the room under maintenance or releases it. Maintenance is refused while
	// residents live in the room (ErrConflict).
	SetStatus(ctx context.Context, orgID, id uuid.UUID, status string) error
	CountActiveResidents(ctx context.Context, orgID, id uuid.UUID) (int, error)
	CountByStatus(ctx context.Context, orgID uuid.UUID) (map[string]int, error)
}

type roomRepo struct {
	db DBTX
}

func NewRoomRepo(db DBTX) RoomRepository {
	return &roomRepo{db: db}
}

const roomColumns = `id, organization_id, number, floor, room_type, monthly_rent, status, note, created_at, updated_at`

func scanRoom(row pgx.Row, extra ...any) (*models.Room, error) {
	rm := &models.Room{}
	dest := append([]any{&rm.ID, &rm.OrganizationID, &rm.Number, &rm.Floor, &rm.RoomType, &rm.MonthlyRent, &rm.Status, &rm.Note, &rm.CreatedAt, &rm.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	query := `
		INSERT INTO rooms (id, organization_id, number, floor, room_type, monthly_rent, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, room.ID, room.OrganizationID, room.Number, room.Floor, room.RoomType, room.MonthlyRent, room.Status, room.Note).
		Scan(&room.CreatedAt, &room.UpdatedAt)
	return translateErr(err, "room number")
}

func (r *roomRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE organization_id = $1 AND id = $2`
	room, err := scanRoom(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, translateErr(err, "room")
	}
	return room, nil
}

func (r *roomRepo) List(ctx context.Context, orgID uuid.UUID, filters models.RoomFilters) ([]*models.Room, int, error) {
	args := []any{orgID}
	query := `SELECT ` + roomColumns + `, COUNT(*) OVER() FROM rooms WHERE organization_id = $1`
	if filters.Status != "" {
		query += ` AND status = ` + placeholder(&args, filters.Status)
	}
	if filters.Floor != nil {
		query += ` AND floor = ` + placeholder(&args, *filters.Floor)
	}
	query += ` ORDER BY floor, number LIMIT ` + placeholder(&args, filters.Limit) + ` OFFSET ` + placeholder(&args, filters.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rooms := []*models.Room{}
	total := 0
	for rows.Next() {
		room, err := scanRoom(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, room)
	}
	return rooms, total, rows.Err()
}

func (r *roomRepo) Update(ctx context.Context, room *models.Room) error {
	query := `
		UPDATE rooms
		SET number = $1, floor = $2, room_type = $3, monthly_rent = $4, note = $5, updated_at = NOW()
		WHERE organization_id = $6 AND id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, room.Number, room.Floor, room.RoomType, room.MonthlyRent, room.Note, room.OrganizationID, room.ID).
		Scan(&room.UpdatedAt)
	return translateErr(err, "room")
}

func (r *roomRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `
		DELETE FROM rooms
		WHERE organization_id = $1 AND id = $2
		  AND NOT EXISTS (SELECT 1 FROM residents WHERE room_id = $2 AND status = 'active')
	`
	tag, err := r.db.Exec(ctx, query, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.explainNoop(ctx, orgID, id, "room has active residents")
}

func (r *roomRepo) SetStatus(ctx context.Context, orgID, id uuid.UUID, status string) error {
	// only maintenance is set by hand, otherwise occupancy follows the active residents
	query := `
		UPDATE rooms SET status = CASE
				WHEN $3 = 'maintenance' THEN 'maintenance'
				WHEN EXISTS (SELECT 1 FROM residents WHERE room_id = $2 AND status = 'active') THEN 'occupied'
				ELSE 'available'
			END,
			updated_at = NOW()
		WHERE organization_id = $1 AND id = $2
		  AND NOT ($3 = 'maintenance' AND EXISTS (SELECT 1 FROM residents WHERE room_id = $2 AND status = 'active'))
	`
	tag, err := r.db.Exec(ctx, query, orgID, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.explainNoop(ctx, orgID, id, "room is occupied")
}

// explainNoop distinguishes a missing room from a guarded one after a conditional write matched nothing
func (r *roomRepo) explainNoop(ctx context.Context, orgID, id uuid.UUID, reason string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE organization_id = $1 AND id = $2)`, orgID, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("room: %w", common.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", reason, common.ErrConflict)
}

func (r *roomRepo) CountActiveResidents(ctx context.Context, orgID, id uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM residents WHERE organization_id = $1 AND room_id = $2 AND status = 'active'
	`, orgID, id).Scan(&n)
	return n, err
}

func (r *roomRepo) CountByStatus(ctx context.Context, orgID uuid.UUID) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM rooms WHERE organization_id = $1 GROUP BY status`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{models.RoomAvailable: 0, models.RoomOccupied: 0, models.RoomMaintenance: 0}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// refreshRoomStatus flips a room between available and occupied to match its active residents.
// Rooms under maintenance keep their status.
func refreshRoomStatus(ctx context.Context, db DBTX, roomID uuid.UUID) error {
	_, err := db.Exec(ctx, `
		UPDATE rooms SET status = CASE
				WHEN EXISTS (SELECT 1 FROM residents WHERE room_id = $1 AND status = 'active') THEN 'occupied'
				ELSE 'available'
			END,
			updated_at = NOW()
		WHERE id = $1 AND status <> 'maintenance'
	`, roomID)
	return err
}
