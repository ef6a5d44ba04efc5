package repositories

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SystemConfigRepository interface {
	GetAll(ctx context.Context, orgID uuid.UUID) (map[string]string, error)
	// Upsert writes all values in one transaction
	Upsert(ctx context.Context, orgID uuid.UUID, values map[string]string, updatedBy *uuid.UUID) error
}

type systemConfigRepo struct {
	db DBTX
}

func NewSystemConfigRepo(db DBTX) SystemConfigRepository {
	return &systemConfigRepo{db: db}
}

func (r *systemConfigRepo) GetAll(ctx context.Context, orgID uuid.UUID) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM system_configs WHERE organization_id = $1`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, rows.Err()
}

func (r *systemConfigRepo) Upsert(ctx context.Context, orgID uuid.UUID, values map[string]string, updatedBy *uuid.UUID) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, key := range keys {
			_, err := tx.Exec(ctx, `
				INSERT INTO system_configs (organization_id, key, value, updated_by, updated_at)
				VALUES ($1, $2, $3, $4, NOW())
				ON CONFLICT (organization_id, key) DO UPDATE
				SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = NOW()
			`, orgID, key, values[key], updatedBy)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
