package repositories

import (
	"context"
	"time"

	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Expense, error)
	List(ctx context.Context, orgID uuid.UUID, filters models.ExpenseFilters) ([]*models.Expense, int, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	TotalsByCategory(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]models.ExpenseCategoryTotal, decimal.Decimal, error)
}

type expenseRepo struct {
	db DBTX
}

func NewExpenseRepo(db DBTX) ExpenseRepository {
	return &expenseRepo{db: db}
}

const expenseColumns = `id, organization_id, category, description, amount, expense_date, receipt_document_id,
	recurring_expense_id, created_by, created_at, updated_at`

func scanExpense(row pgx.Row, extra ...any) (*models.Expense, error) {
	e := &models.Expense{}
	dest := append([]any{&e.ID, &e.OrganizationID, &e.Category, &e.Description, &e.Amount, &e.ExpenseDate, &e.ReceiptDocumentID,
		&e.RecurringExpenseID, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return e, nil
}

func insertExpense(ctx context.Context, db DBTX, e *models.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	query := `
		INSERT INTO expenses (id, organization_id, category, description, amount, expense_date, receipt_document_id,
			recurring_expense_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return db.QueryRow(ctx, query, e.ID, e.OrganizationID, e.Category, e.Description, e.Amount, e.ExpenseDate,
		e.ReceiptDocumentID, e.RecurringExpenseID, e.CreatedBy).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *expenseRepo) Create(ctx context.Context, e *models.Expense) error {
	return translateErr(insertExpense(ctx, r.db, e), "expense")
}

func (r *expenseRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE organization_id = $1 AND id = $2`
	e, err := scanExpense(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, translateErr(err, "expense")
	}
	return e, nil
}

func (r *expenseRepo) List(ctx context.Context, orgID uuid.UUID, filters models.ExpenseFilters) ([]*models.Expense, int, error) {
	args := []any{orgID}
	query := `SELECT ` + expenseColumns + `, COUNT(*) OVER() FROM expenses WHERE organization_id = $1`
	if filters.Month != "" {
		query += ` AND to_char(expense_date, 'YYYY-MM') = ` + placeholder(&args, filters.Month)
	}
	if filters.Category != "" {
		query += ` AND category = ` + placeholder(&args, filters.Category)
	}
	query += ` ORDER BY expense_date DESC, created_at DESC LIMIT ` + placeholder(&args, filters.Limit) + ` OFFSET ` + placeholder(&args, filters.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	total := 0
	for rows.Next() {
		e, err := scanExpense(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		expenses = append(expenses, e)
	}
	return expenses, total, rows.Err()
}

func (r *expenseRepo) Update(ctx context.Context, e *models.Expense) error {
	query := `
		UPDATE expenses
		SET category = $1, description = $2, amount = $3, expense_date = $4, receipt_document_id = $5, updated_at = NOW()
		WHERE organization_id = $6 AND id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, e.Category, e.Description, e.Amount, e.ExpenseDate, e.ReceiptDocumentID, e.OrganizationID, e.ID).
		Scan(&e.UpdatedAt)
	return translateErr(err, "expense")
}

func (r *expenseRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE organization_id = $1 AND id = $2`, orgID, id)
	return expectOne(tag, err, "expense")
}

func (r *expenseRepo) TotalsByCategory(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]models.ExpenseCategoryTotal, decimal.Decimal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT category, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE organization_id = $1 AND expense_date >= $2 AND expense_date < $3
		GROUP BY category
		ORDER BY category
	`, orgID, from, to)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer rows.Close()

	totals := []models.ExpenseCategoryTotal{}
	sum := decimal.Zero
	for rows.Next() {
		var t models.ExpenseCategoryTotal
		if err := rows.Scan(&t.Category, &t.Amount); err != nil {
			return nil, decimal.Zero, err
		}
		sum = sum.Add(t.Amount)
		totals = append(totals, t)
	}
	return totals, sum, rows.Err()
}
