package repositories

import (
	"context"
	"errors"
	"fmt"

	"dormdesk/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool used by repositories. pgx.Tx and pgxmock pools satisfy it too.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const uniqueViolation = "23505"

// translateErr maps driver errors onto the common sentinel errors
func translateErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s already exists: %w", what, common.ErrConflict)
	}
	return err
}

// expectOne turns an UPDATE/DELETE that touched no rows into ErrNotFound
func expectOne(tag pgconn.CommandTag, err error, what string) error {
	if err != nil {
		return translateErr(err, what)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	return nil
}

// placeholder appends arg and returns its positional parameter
func placeholder(args *[]any, arg any) string {
	*args = append(*args, arg)
	return fmt.Sprintf("$%d", len(*args))
}

// withTx runs fn inside a transaction, committing on success and rolling back on error
func withTx(ctx context.Context, db DBTX, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
