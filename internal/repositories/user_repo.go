package repositories

import (
	"context"
	"strings"

	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetByID looks a user up inside an organization. A nil orgID matches any organization.
	GetByID(ctx context.Context, orgID *uuid.UUID, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, filters models.UserFilters) ([]*models.User, int, error)
}

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, organization_id, email, password_hash, full_name, role, status, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row, extra ...any) (*models.User, error) {
	u := &models.User{}
	dest := append([]any{&u.ID, &u.OrganizationID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.Status, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return u, nil
}

func insertUser(ctx context.Context, db DBTX, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Status == "" {
		user.Status = models.UserActive
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	query := `
		INSERT INTO users (id, organization_id, email, password_hash, full_name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return db.QueryRow(ctx, query, user.ID, user.OrganizationID, user.Email, user.PasswordHash, user.FullName, user.Role, user.Status).
		Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return translateErr(insertUser(ctx, r.db, user), "user")
}

func (r *userRepo) GetByID(ctx context.Context, orgID *uuid.UUID, id uuid.UUID) (*models.User, error) {
	args := []any{id}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if orgID != nil {
		query += ` AND organization_id = ` + placeholder(&args, *orgID)
	}
	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateErr(err, "user")
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, translateErr(err, "user")
	}
	return user, nil
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET full_name = $1, role = $2, status = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, user.FullName, user.Role, user.Status, user.ID).Scan(&user.UpdatedAt)
	return translateErr(err, "user")
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	return expectOne(tag, err, "user")
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *userRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE organization_id = $1 AND id = $2`, orgID, id)
	return expectOne(tag, err, "user")
}

func (r *userRepo) List(ctx context.Context, orgID uuid.UUID, filters models.UserFilters) ([]*models.User, int, error) {
	args := []any{orgID}
	query := `SELECT ` + userColumns + `, COUNT(*) OVER() FROM users WHERE organization_id = $1`
	if filters.Role != "" {
		query += ` AND role = ` + placeholder(&args, filters.Role)
	}
	if filters.Status != "" {
		query += ` AND status = ` + placeholder(&args, filters.Status)
	}
	query += ` ORDER BY created_at DESC LIMIT ` + placeholder(&args, filters.Limit) + ` OFFSET ` + placeholder(&args, filters.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []*models.User{}
	total := 0
	for rows.Next() {
		user, err := scanUser(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}
