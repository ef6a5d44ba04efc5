package repositories

import (
	"context"
	"errors"
	"time"

	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RecurringExpenseRepository interface {
	Create(ctx context.Context, re *models.RecurringExpense) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.RecurringExpense, error)
	List(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]*models.RecurringExpense, error)
	Update(ctx context.Context, re *models.RecurringExpense) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	// GenerateForMonth claims month on the template and inserts its expense in one transaction.
	// It returns nil when the month was already generated.
	GenerateForMonth(ctx context.Context, re *models.RecurringExpense, month string, expenseDate time.Time) (*models.Expense, error)
}

type recurringExpenseRepo struct {
	db DBTX
}

func NewRecurringExpenseRepo(db DBTX) RecurringExpenseRepository {
	return &recurringExpenseRepo{db: db}
}

const recurringExpenseColumns = `id, organization_id, category, description, amount, day_of_month, active, last_generated_month, created_at, updated_at`

func scanRecurringExpense(row pgx.Row) (*models.RecurringExpense, error) {
	re := &models.RecurringExpense{}
	err := row.Scan(&re.ID, &re.OrganizationID, &re.Category, &re.Description, &re.Amount, &re.DayOfMonth, &re.Active,
		&re.LastGeneratedMonth, &re.CreatedAt, &re.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return re, nil
}

func (r *recurringExpenseRepo) Create(ctx context.Context, re *models.RecurringExpense) error {
	if re.ID == uuid.Nil {
		re.ID = uuid.New()
	}
	query := `
		INSERT INTO recurring_expenses (id, organization_id, category, description, amount, day_of_month, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, re.ID, re.OrganizationID, re.Category, re.Description, re.Amount, re.DayOfMonth, re.Active).
		Scan(&re.CreatedAt, &re.UpdatedAt)
	return translateErr(err, "recurring expense")
}

func (r *recurringExpenseRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.RecurringExpense, error) {
	query := `SELECT ` + recurringExpenseColumns + ` FROM recurring_expenses WHERE organization_id = $1 AND id = $2`
	re, err := scanRecurringExpense(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, translateErr(err, "recurring expense")
	}
	return re, nil
}

func (r *recurringExpenseRepo) List(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]*models.RecurringExpense, error) {
	query := `SELECT ` + recurringExpenseColumns + ` FROM recurring_expenses WHERE organization_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY day_of_month, description`

	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.RecurringExpense{}
	for rows.Next() {
		re, err := scanRecurringExpense(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, re)
	}
	return items, rows.Err()
}

func (r *recurringExpenseRepo) Update(ctx context.Context, re *models.RecurringExpense) error {
	query := `
		UPDATE recurring_expenses
		SET category = $1, description = $2, amount = $3, day_of_month = $4, active = $5, updated_at = NOW()
		WHERE organization_id = $6 AND id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, re.Category, re.Description, re.Amount, re.DayOfMonth, re.Active, re.OrganizationID, re.ID).
		Scan(&re.UpdatedAt)
	return translateErr(err, "recurring expense")
}

func (r *recurringExpenseRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM recurring_expenses WHERE organization_id = $1 AND id = $2`, orgID, id)
	return expectOne(tag, err, "recurring expense")
}

func (r *recurringExpenseRepo) GenerateForMonth(ctx context.Context, re *models.RecurringExpense, month string, expenseDate time.Time) (*models.Expense, error) {
	var expense *models.Expense
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var claimed uuid.UUID
		err := tx.QueryRow(ctx, `
			UPDATE recurring_expenses SET last_generated_month = $1, updated_at = NOW()
			WHERE organization_id = $2 AND id = $3 AND active
			  AND (last_generated_month IS NULL OR last_generated_month < $1)
			RETURNING id
		`, month, re.OrganizationID, re.ID).Scan(&claimed)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		expense = &models.Expense{
			OrganizationID:     re.OrganizationID,
			Category:           re.Category,
			Description:        re.Description,
			Amount:             re.Amount,
			ExpenseDate:        expenseDate,
			RecurringExpenseID: &re.ID,
		}
		return insertExpense(ctx, tx, expense)
	})
	if err != nil {
		return nil, err
	}
	if expense != nil {
		re.LastGeneratedMonth = &month
	}
	return expense, nil
}
