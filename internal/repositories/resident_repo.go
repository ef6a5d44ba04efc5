package repositories

import (
	"context"
	"fmt"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ResidentRepository interface {
	// Create inserts the resident and marks its room occupied when one is given
	Create(ctx context.Context, resident *models.Resident) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Resident, error)
	List(ctx context.Context, orgID uuid.UUID, filters models.ResidentFilters) ([]*models.Resident, int, error)
	Update(ctx context.Context, resident *models.Resident) error
	// Delete removes the resident unless unpaid billings exist (ErrConflict)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	AssignRoom(ctx context.Context, orgID, id, roomID uuid.UUID) (*models.Resident, error)
	MoveOut(ctx context.Context, orgID, id uuid.UUID, date time.Time) (*models.Resident, error)
	SetLinkCode(ctx context.Context, orgID, id uuid.UUID, code string) error
	// BindChatByLinkCode consumes a link code and stores the chat user id on its resident
	BindChatByLinkCode(ctx context.Context, code, chatUserID string) (*models.Resident, error)
	UnlinkChat(ctx context.Context, orgID, id uuid.UUID) error
	// ListChatRecipients returns active residents with a chat link, optionally limited to rooms
	ListChatRecipients(ctx context.Context, orgID uuid.UUID, roomIDs []uuid.UUID) ([]*models.Resident, error)
	// ListBillable returns active residents with a room together with that room
	ListBillable(ctx context.Context, orgID uuid.UUID) ([]BillableResident, error)
	CountActive(ctx context.Context, orgID uuid.UUID) (int, error)
}

// BillableResident pairs a resident with the room the bill is issued for
type BillableResident struct {
	Resident *models.Resident
	Room     *models.Room
}

type residentRepo struct {
	db DBTX
}

func NewResidentRepo(db DBTX) ResidentRepository {
	return &residentRepo{db: db}
}

const residentColumns = `id, organization_id, room_id, full_name, phone, email, national_id, chat_user_id, link_code,
	move_in_date, move_out_date, deposit, status, created_at, updated_at`

func scanResident(row pgx.Row, extra ...any) (*models.Resident, error) {
	rs := &models.Resident{}
	dest := append([]any{&rs.ID, &rs.OrganizationID, &rs.RoomID, &rs.FullName, &rs.Phone, &rs.Email, &rs.NationalID,
		&rs.ChatUserID, &rs.LinkCode, &rs.MoveInDate, &rs.MoveOutDate, &rs.Deposit, &rs.Status, &rs.CreatedAt, &rs.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return rs, nil
}

// lockAssignableRoom checks the room belongs to the organization and is not under maintenance
func lockAssignableRoom(ctx context.Context, tx pgx.Tx, orgID, roomID uuid.UUID) error {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM rooms WHERE organization_id = $1 AND id = $2 FOR UPDATE`, orgID, roomID).Scan(&status)
	if err != nil {
		return translateErr(err, "room")
	}
	if status == models.RoomMaintenance {
		return fmt.Errorf("room is under maintenance: %w", common.ErrConflict)
	}
	return nil
}

func (r *residentRepo) Create(ctx context.Context, rs *models.Resident) error {
	if rs.ID == uuid.Nil {
		rs.ID = uuid.New()
	}
	if rs.Status == "" {
		rs.Status = models.ResidentActive
	}

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if rs.RoomID != nil {
			if err := lockAssignableRoom(ctx, tx, rs.OrganizationID, *rs.RoomID); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO residents (id, organization_id, room_id, full_name, phone, email, national_id, move_in_date, deposit, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			RETURNING created_at, updated_at
		`
		err := tx.QueryRow(ctx, query, rs.ID, rs.OrganizationID, rs.RoomID, rs.FullName, rs.Phone, rs.Email, rs.NationalID,
			rs.MoveInDate, rs.Deposit, rs.Status).Scan(&rs.CreatedAt, &rs.UpdatedAt)
		if err != nil {
			return translateErr(err, "resident")
		}

		if rs.RoomID != nil {
			return refreshRoomStatus(ctx, tx, *rs.RoomID)
		}
		return nil
	})
}

func (r *residentRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Resident, error) {
	query := `SELECT ` + residentColumns + ` FROM residents WHERE organization_id = $1 AND id = $2`
	rs, err := scanResident(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, translateErr(err, "resident")
	}
	return rs, nil
}

func (r *residentRepo) List(ctx context.Context, orgID uuid.UUID, filters models.ResidentFilters) ([]*models.Resident, int, error) {
	args := []any{orgID}
	query := `SELECT ` + residentColumns + `, COUNT(*) OVER() FROM residents WHERE organization_id = $1`
	if filters.Status != "" {
		query += ` AND status = ` + placeholder(&args, filters.Status)
	}
	if filters.RoomID != nil {
		query += ` AND room_id = ` + placeholder(&args, *filters.RoomID)
	}
	if filters.Search != "" {
		p := placeholder(&args, "%"+filters.Search+"%")
		query += ` AND (full_name ILIKE ` + p + ` OR phone ILIKE ` + p + `)`
	}
	if filters.ChatLinkedOnly {
		query += ` AND chat_user_id IS NOT NULL`
	}
	query += ` ORDER BY full_name LIMIT ` + placeholder(&args, filters.Limit) + ` OFFSET ` + placeholder(&args, filters.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	residents := []*models.Resident{}
	total := 0
	for rows.Next() {
		rs, err := scanResident(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		residents = append(residents, rs)
	}
	return residents, total, rows.Err()
}

func (r *residentRepo) Update(ctx context.Context, rs *models.Resident) error {
	query := `
		UPDATE residents
		SET full_name = $1, phone = $2, email = $3, national_id = $4, move_in_date = $5, deposit = $6, updated_at = NOW()
		WHERE organization_id = $7 AND id = $8
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, rs.FullName, rs.Phone, rs.Email, rs.NationalID, rs.MoveInDate, rs.Deposit, rs.OrganizationID, rs.ID).
		Scan(&rs.UpdatedAt)
	return translateErr(err, "resident")
}

func (r *residentRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		var roomID *uuid.UUID
		err := tx.QueryRow(ctx, `SELECT room_id FROM residents WHERE organization_id = $1 AND id = $2 FOR UPDATE`, orgID, id).Scan(&roomID)
		if err != nil {
			return translateErr(err, "resident")
		}

		var unpaid int
		err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM billings WHERE resident_id = $1 AND status <> 'paid'`, id).Scan(&unpaid)
		if err != nil {
			return err
		}
		if unpaid > 0 {
			return fmt.Errorf("resident has %d unpaid billings: %w", unpaid, common.ErrConflict)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM residents WHERE organization_id = $1 AND id = $2`, orgID, id); err != nil {
			return err
		}
		if roomID != nil {
			return refreshRoomStatus(ctx, tx, *roomID)
		}
		return nil
	})
}

// lockResident returns the current room and status of a resident row locked for update
func lockResident(ctx context.Context, tx pgx.Tx, orgID, id uuid.UUID) (*uuid.UUID, string, error) {
	var roomID *uuid.UUID
	var status string
	err := tx.QueryRow(ctx, `SELECT room_id, status FROM residents WHERE organization_id = $1 AND id = $2 FOR UPDATE`, orgID, id).
		Scan(&roomID, &status)
	if err != nil {
		return nil, "", translateErr(err, "resident")
	}
	return roomID, status, nil
}

func (r *residentRepo) AssignRoom(ctx context.Context, orgID, id, roomID uuid.UUID) (*models.Resident, error) {
	var updated *models.Resident
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		oldRoom, status, err := lockResident(ctx, tx, orgID, id)
		if err != nil {
			return err
		}
		if status != models.ResidentActive {
			return fmt.Errorf("resident has moved out: %w", common.ErrConflict)
		}
		if err := lockAssignableRoom(ctx, tx, orgID, roomID); err != nil {
			return err
		}

		query := `UPDATE residents SET room_id = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + residentColumns
		updated, err = scanResident(tx.QueryRow(ctx, query, roomID, id))
		if err != nil {
			return err
		}

		if oldRoom != nil && *oldRoom != roomID {
			if err := refreshRoomStatus(ctx, tx, *oldRoom); err != nil {
				return err
			}
		}
		return refreshRoomStatus(ctx, tx, roomID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *residentRepo) MoveOut(ctx context.Context, orgID, id uuid.UUID, date time.Time) (*models.Resident, error) {
	var updated *models.Resident
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		oldRoom, status, err := lockResident(ctx, tx, orgID, id)
		if err != nil {
			return err
		}
		if status == models.ResidentMovedOut {
			return fmt.Errorf("resident already moved out: %w", common.ErrConflict)
		}

		query := `
			UPDATE residents
			SET status = 'moved_out', room_id = NULL, move_out_date = $1, link_code = NULL, updated_at = NOW()
			WHERE id = $2
			RETURNING ` + residentColumns
		updated, err = scanResident(tx.QueryRow(ctx, query, date, id))
		if err != nil {
			return err
		}

		if oldRoom != nil {
			return refreshRoomStatus(ctx, tx, *oldRoom)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *residentRepo) SetLinkCode(ctx context.Context, orgID, id uuid.UUID, code string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE residents SET link_code = $1, updated_at = NOW()
		WHERE organization_id = $2 AND id = $3 AND status = 'active'
	`, code, orgID, id)
	return expectOne(tag, err, "link code")
}

func (r *residentRepo) BindChatByLinkCode(ctx context.Context, code, chatUserID string) (*models.Resident, error) {
	query := `
		UPDATE residents SET chat_user_id = $1, link_code = NULL, updated_at = NOW()
		WHERE link_code = $2 AND status = 'active'
		RETURNING ` + residentColumns
	rs, err := scanResident(r.db.QueryRow(ctx, query, chatUserID, code))
	if err != nil {
		return nil, translateErr(err, "link code")
	}
	return rs, nil
}

func (r *residentRepo) UnlinkChat(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE residents SET chat_user_id = NULL, updated_at = NOW()
		WHERE organization_id = $1 AND id = $2
	`, orgID, id)
	return expectOne(tag, err, "resident")
}

func (r *residentRepo) ListChatRecipients(ctx context.Context, orgID uuid.UUID, roomIDs []uuid.UUID) ([]*models.Resident, error) {
	args := []any{orgID}
	query := `SELECT ` + residentColumns + ` FROM residents
		WHERE organization_id = $1 AND status = 'active' AND chat_user_id IS NOT NULL AND chat_user_id <> ''`
	if len(roomIDs) > 0 {
		query += ` AND room_id = ANY(` + placeholder(&args, roomIDs) + `)`
	}
	query += ` ORDER BY full_name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residents []*models.Resident
	for rows.Next() {
		rs, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		residents = append(residents, rs)
	}
	return residents, rows.Err()
}

func (r *residentRepo) ListBillable(ctx context.Context, orgID uuid.UUID) ([]BillableResident, error) {
	query := `
		SELECT r.id, r.organization_id, r.room_id, r.full_name, r.phone, r.email, r.national_id, r.chat_user_id, r.link_code,
			r.move_in_date, r.move_out_date, r.deposit, r.status, r.created_at, r.updated_at,
			rm.id, rm.organization_id, rm.number, rm.floor, rm.room_type, rm.monthly_rent, rm.status, rm.note, rm.created_at, rm.updated_at
		FROM residents r
		JOIN rooms rm ON rm.id = r.room_id
		WHERE r.organization_id = $1 AND r.status = 'active'
		ORDER BY rm.number, r.full_name
	`
	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BillableResident
	for rows.Next() {
		rs := &models.Resident{}
		rm := &models.Room{}
		err := rows.Scan(&rs.ID, &rs.OrganizationID, &rs.RoomID, &rs.FullName, &rs.Phone, &rs.Email, &rs.NationalID,
			&rs.ChatUserID, &rs.LinkCode, &rs.MoveInDate, &rs.MoveOutDate, &rs.Deposit, &rs.Status, &rs.CreatedAt, &rs.UpdatedAt,
			&rm.ID, &rm.OrganizationID, &rm.Number, &rm.Floor, &rm.RoomType, &rm.MonthlyRent, &rm.Status, &rm.Note, &rm.CreatedAt, &rm.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, BillableResident{Resident: rs, Room: rm})
	}
	return out, rows.Err()
}

func (r *residentRepo) CountActive(ctx context.Context, orgID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM residents WHERE organization_id = $1 AND status = 'active'`, orgID).Scan(&n)
	return n, err
}
