package repositories

import (
	"context"

	"dormdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Document, error)
	ListByOwner(ctx context.Context, orgID uuid.UUID, ownerType string, ownerID *uuid.UUID, page models.Pagination) ([]*models.Document, int, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	// OwnerExists reports whether the owner record lives in the organization
	OwnerExists(ctx context.Context, orgID uuid.UUID, ownerType string, ownerID uuid.UUID) (bool, error)
}

type documentRepo struct {
	db DBTX
}

func NewDocumentRepo(db DBTX) DocumentRepository {
	return &documentRepo{db: db}
}

const documentColumns = `id, organization_id, owner_type, owner_id, file_name, content_type, size_bytes, object_key, uploaded_by, created_at`

func scanDocument(row pgx.Row, extra ...any) (*models.Document, error) {
	d := &models.Document{}
	dest := append([]any{&d.ID, &d.OrganizationID, &d.OwnerType, &d.OwnerID, &d.FileName, &d.ContentType, &d.SizeBytes,
		&d.ObjectKey, &d.UploadedBy, &d.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *documentRepo) Create(ctx context.Context, d *models.Document) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	query := `
		INSERT INTO documents (id, organization_id, owner_type, owner_id, file_name, content_type, size_bytes, object_key, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, d.ID, d.OrganizationID, d.OwnerType, d.OwnerID, d.FileName, d.ContentType, d.SizeBytes,
		d.ObjectKey, d.UploadedBy).Scan(&d.CreatedAt)
	return translateErr(err, "document")
}

func (r *documentRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE organization_id = $1 AND id = $2`
	d, err := scanDocument(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, translateErr(err, "document")
	}
	return d, nil
}

func (r *documentRepo) ListByOwner(ctx context.Context, orgID uuid.UUID, ownerType string, ownerID *uuid.UUID, page models.Pagination) ([]*models.Document, int, error) {
	args := []any{orgID}
	query := `SELECT ` + documentColumns + `, COUNT(*) OVER() FROM documents WHERE organization_id = $1`
	if ownerType != "" {
		query += ` AND owner_type = ` + placeholder(&args, ownerType)
	}
	if ownerID != nil {
		query += ` AND owner_id = ` + placeholder(&args, *ownerID)
	}
	query += ` ORDER BY created_at DESC LIMIT ` + placeholder(&args, page.Limit) + ` OFFSET ` + placeholder(&args, page.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	docs := []*models.Document{}
	total := 0
	for rows.Next() {
		d, err := scanDocument(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, d)
	}
	return docs, total, rows.Err()
}

func (r *documentRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE organization_id = $1 AND id = $2`, orgID, id)
	return expectOne(tag, err, "document")
}

var ownerTables = map[string]string{
	"resident": "residents",
	"room":     "rooms",
	"billing":  "billings",
	"expense":  "expenses",
}

func (r *documentRepo) OwnerExists(ctx context.Context, orgID uuid.UUID, ownerType string, ownerID uuid.UUID) (bool, error) {
	if ownerType == "organization" {
		return ownerID == orgID, nil
	}
	table, ok := ownerTables[ownerType]
	if !ok {
		return false, nil
	}
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE organization_id = $1 AND id = $2)`, orgID, ownerID).Scan(&exists)
	return exists, err
}
