package repositories

import (
	"context"
	"sort"

	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrganizationRepository interface {
	// CreateWithDefaults inserts the organization, its config rows and an optional first admin in one transaction
	CreateWithDefaults(ctx context.Context, org *models.Organization, configs map[string]string, admin *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, status string, page models.Pagination) ([]*models.Organization, int, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

type organizationRepo struct {
	db DBTX
}

func NewOrganizationRepo(db DBTX) OrganizationRepository {
	return &organizationRepo{db: db}
}

const organizationColumns = `id, name, slug, address, phone, status, created_at, updated_at`

func scanOrganization(row pgx.Row, extra ...any) (*models.Organization, error) {
	org := &models.Organization{}
	dest := append([]any{&org.ID, &org.Name, &org.Slug, &org.Address, &org.Phone, &org.Status, &org.CreatedAt, &org.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return org, nil
}

func (r *organizationRepo) CreateWithDefaults(ctx context.Context, org *models.Organization, configs map[string]string, admin *models.User) error {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	if org.Status == "" {
		org.Status = models.OrganizationActive
	}

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO organizations (id, name, slug, address, phone, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING created_at, updated_at
		`, org.ID, org.Name, org.Slug, org.Address, org.Phone, org.Status).Scan(&org.CreatedAt, &org.UpdatedAt)
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(configs))
		for k := range configs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, err := tx.Exec(ctx, `
				INSERT INTO system_configs (organization_id, key, value, updated_at)
				VALUES ($1, $2, $3, NOW())
			`, org.ID, key, configs[key]); err != nil {
				return err
			}
		}

		if admin != nil {
			admin.OrganizationID = &org.ID
			return insertUser(ctx, tx, admin)
		}
		return nil
	})
	return translateErr(err, "organization")
}

func (r *organizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`
	org, err := scanOrganization(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateErr(err, "organization")
	}
	return org, nil
}

func (r *organizationRepo) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE slug = $1`
	org, err := scanOrganization(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, translateErr(err, "organization")
	}
	return org, nil
}

func (r *organizationRepo) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, address = $2, phone = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, org.Name, org.Address, org.Phone, org.ID).Scan(&org.UpdatedAt)
	return translateErr(err, "organization")
}

func (r *organizationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE organizations SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return expectOne(tag, err, "organization")
}

func (r *organizationRepo) List(ctx context.Context, status string, page models.Pagination) ([]*models.Organization, int, error) {
	args := []any{}
	query := `SELECT ` + organizationColumns + `, COUNT(*) OVER() FROM organizations WHERE 1=1`
	if status != "" {
		query += ` AND status = ` + placeholder(&args, status)
	}
	query += ` ORDER BY name LIMIT ` + placeholder(&args, page.Limit) + ` OFFSET ` + placeholder(&args, page.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orgs := []*models.Organization{}
	total := 0
	for rows.Next() {
		org, err := scanOrganization(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, org)
	}
	return orgs, total, rows.Err()
}

func (r *organizationRepo) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM organizations WHERE status = 'active' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}
