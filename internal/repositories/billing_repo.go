package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"dormdesk/internal/common"
	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BillingTransition describes a guarded status change and the columns it stamps
type BillingTransition struct {
	From           []string
	To             string
	SlipDocumentID *uuid.UUID
	ReviewedBy     *uuid.UUID
	RejectReason   *string
	Submitted      bool
	Paid           bool
}

type BillingRepository interface {
	// CreateMany inserts billings in one transaction. Rows whose (resident, month) already exist are skipped.
	CreateMany(ctx context.Context, billings []*models.Billing) ([]*models.Billing, int, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Billing, error)
	List(ctx context.Context, orgID uuid.UUID, filters models.BillingFilters) ([]*models.Billing, int, error)
	// Update writes amounts while the billing is pending or rejected (ErrInvalidTransition otherwise)
	Update(ctx context.Context, billing *models.Billing) error
	// Delete removes a pending billing (ErrInvalidTransition otherwise)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	// Transition applies t when the current status is in t.From. It returns the row after the
	// change and the status before it. When the guard fails the current row is returned with ErrInvalidTransition.
	Transition(ctx context.Context, orgID, id uuid.UUID, t BillingTransition) (*models.Billing, string, error)
	TotalsByStatus(ctx context.Context, orgID uuid.UUID, month string) ([]models.BillingStatusTotal, error)
	PaidIncome(ctx context.Context, orgID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

type billingRepo struct {
	db DBTX
}

func NewBillingRepo(db DBTX) BillingRepository {
	return &billingRepo{db: db}
}

const billingColumns = `id, organization_id, resident_id, room_id, billing_month, rent_amount, water_units, water_amount,
	electric_units, electric_amount, other_amount, total_amount, due_date, status, slip_document_id, submitted_at,
	reviewed_by, reviewed_at, paid_at, reject_reason, note, created_at, updated_at`

func scanBilling(row pgx.Row, extra ...any) (*models.Billing, error) {
	b := &models.Billing{}
	dest := append([]any{&b.ID, &b.OrganizationID, &b.ResidentID, &b.RoomID, &b.BillingMonth, &b.RentAmount, &b.WaterUnits, &b.WaterAmount,
		&b.ElectricUnits, &b.ElectricAmount, &b.OtherAmount, &b.TotalAmount, &b.DueDate, &b.Status, &b.SlipDocumentID, &b.SubmittedAt,
		&b.ReviewedBy, &b.ReviewedAt, &b.PaidAt, &b.RejectReason, &b.Note, &b.CreatedAt, &b.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *billingRepo) CreateMany(ctx context.Context, billings []*models.Billing) ([]*models.Billing, int, error) {
	created := make([]*models.Billing, 0, len(billings))
	skipped := 0

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO billings (id, organization_id, resident_id, room_id, billing_month, rent_amount, water_units, water_amount,
				electric_units, electric_amount, other_amount, total_amount, due_date, status, note, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
			ON CONFLICT (resident_id, billing_month) DO NOTHING
			RETURNING created_at, updated_at
		`
		for _, b := range billings {
			if b.ID == uuid.Nil {
				b.ID = uuid.New()
			}
			if b.Status == "" {
				b.Status = models.BillingPending
			}
			err := tx.QueryRow(ctx, query, b.ID, b.OrganizationID, b.ResidentID, b.RoomID, b.BillingMonth, b.RentAmount, b.WaterUnits,
				b.WaterAmount, b.ElectricUnits, b.ElectricAmount, b.OtherAmount, b.TotalAmount, b.DueDate, b.Status, b.Note).
				Scan(&b.CreatedAt, &b.UpdatedAt)
			if errors.Is(err, pgx.ErrNoRows) {
				skipped++
				continue
			}
			if err != nil {
				return err
			}
			created = append(created, b)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return created, skipped, nil
}

func (r *billingRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Billing, error) {
	query := `SELECT ` + billingColumns + ` FROM billings WHERE organization_id = $1 AND id = $2`
	b, err := scanBilling(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, translateErr(err, "billing")
	}
	return b, nil
}

func (r *billingRepo) List(ctx context.Context, orgID uuid.UUID, filters models.BillingFilters) ([]*models.Billing, int, error) {
	args := []any{orgID}
	query := `SELECT ` + billingColumns + `, COUNT(*) OVER() FROM billings WHERE organization_id = $1`
	if filters.BillingMonth != "" {
		query += ` AND billing_month = ` + placeholder(&args, filters.BillingMonth)
	}
	if filters.Status != "" {
		query += ` AND status = ` + placeholder(&args, filters.Status)
	}
	if filters.RoomID != nil {
		query += ` AND room_id = ` + placeholder(&args, *filters.RoomID)
	}
	if filters.ResidentID != nil {
		query += ` AND resident_id = ` + placeholder(&args, *filters.ResidentID)
	}
	query += ` ORDER BY billing_month DESC, created_at DESC LIMIT ` + placeholder(&args, filters.Limit) + ` OFFSET ` + placeholder(&args, filters.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	billings := []*models.Billing{}
	total := 0
	for rows.Next() {
		b, err := scanBilling(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		billings = append(billings, b)
	}
	return billings, total, rows.Err()
}

func (r *billingRepo) Update(ctx context.Context, b *models.Billing) error {
	query := `
		UPDATE billings
		SET rent_amount = $1, water_units = $2, water_amount = $3, electric_units = $4, electric_amount = $5,
			other_amount = $6, total_amount = $7, due_date = $8, note = $9, updated_at = NOW()
		WHERE organization_id = $10 AND id = $11 AND status IN ('pending', 'rejected')
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, b.RentAmount, b.WaterUnits, b.WaterAmount, b.ElectricUnits, b.ElectricAmount,
		b.OtherAmount, b.TotalAmount, b.DueDate, b.Note, b.OrganizationID, b.ID).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.explainNoop(ctx, b.OrganizationID, b.ID, "only pending or rejected billings can be edited")
	}
	return err
}

func (r *billingRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM billings WHERE organization_id = $1 AND id = $2 AND status = 'pending'`, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.explainNoop(ctx, orgID, id, "only pending billings can be deleted")
}

func (r *billingRepo) explainNoop(ctx context.Context, orgID, id uuid.UUID, reason string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM billings WHERE organization_id = $1 AND id = $2)`, orgID, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("billing: %w", common.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", reason, common.ErrInvalidTransition)
}

func (r *billingRepo) Transition(ctx context.Context, orgID, id uuid.UUID, t BillingTransition) (*models.Billing, string, error) {
	var result *models.Billing
	var previous string

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := scanBilling(tx.QueryRow(ctx,
			`SELECT `+billingColumns+` FROM billings WHERE organization_id = $1 AND id = $2 FOR UPDATE`, orgID, id))
		if err != nil {
			return translateErr(err, "billing")
		}
		previous = current.Status
		if !slices.Contains(t.From, current.Status) {
			result = current
			return fmt.Errorf("billing is %s: %w", current.Status, common.ErrInvalidTransition)
		}

		args := []any{orgID, id}
		set := `status = ` + placeholder(&args, t.To) + `, updated_at = NOW()`
		if t.SlipDocumentID != nil {
			set += `, slip_document_id = ` + placeholder(&args, *t.SlipDocumentID)
		}
		if t.Submitted {
			set += `, submitted_at = NOW(), reject_reason = ''`
		}
		if t.ReviewedBy != nil {
			set += `, reviewed_by = ` + placeholder(&args, *t.ReviewedBy) + `, reviewed_at = NOW()`
		}
		if t.RejectReason != nil {
			set += `, reject_reason = ` + placeholder(&args, *t.RejectReason)
		}
		if t.Paid {
			set += `, paid_at = NOW()`
		}
		query := `UPDATE billings SET ` + set + `
			WHERE organization_id = $1 AND id = $2 AND status = ANY(` + placeholder(&args, t.From) + `)
			RETURNING ` + billingColumns

		result, err = scanBilling(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidTransition) {
			return result, previous, err
		}
		return nil, previous, err
	}
	return result, previous, nil
}

func (r *billingRepo) TotalsByStatus(ctx context.Context, orgID uuid.UUID, month string) ([]models.BillingStatusTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM billings
		WHERE organization_id = $1 AND billing_month = $2
		GROUP BY status
		ORDER BY status
	`, orgID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []models.BillingStatusTotal{}
	for rows.Next() {
		var t models.BillingStatusTotal
		if err := rows.Scan(&t.Status, &t.Count, &t.Amount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *billingRepo) PaidIncome(ctx context.Context, orgID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var income decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM billings
		WHERE organization_id = $1 AND status = 'paid' AND paid_at >= $2 AND paid_at < $3
	`, orgID, from, to).Scan(&income)
	return income, err
}
