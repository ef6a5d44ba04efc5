package repositories

import (
	"context"
	"time"

	"dormdesk/internal/models"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.UserSession) error
	// GetPrincipal resolves an unrevoked, unexpired session joined with its user
	GetPrincipal(ctx context.Context, sessionID uuid.UUID, tokenHash string) (*models.SessionPrincipal, error)
	Revoke(ctx context.Context, sessionID uuid.UUID) error
	// RevokeAllForUser revokes every open session of the user except keep, and returns the revoked ids
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, keep *uuid.UUID) ([]uuid.UUID, error)
	// OpenIDsForUser and OpenIDsForOrganization list unrevoked, unexpired session ids
	OpenIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	OpenIDsForOrganization(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error)
	DeleteStale(ctx context.Context, olderThan time.Time) (int64, error)
}

type sessionRepo struct {
	db DBTX
}

func NewSessionRepo(db DBTX) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.UserSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	query := `
		INSERT INTO user_sessions (id, user_id, token_hash, user_agent, ip_address, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, s.ID, s.UserID, s.TokenHash, s.UserAgent, s.IPAddress, s.ExpiresAt).Scan(&s.CreatedAt)
	return translateErr(err, "session")
}

func (r *sessionRepo) GetPrincipal(ctx context.Context, sessionID uuid.UUID, tokenHash string) (*models.SessionPrincipal, error) {
	query := `
		SELECT s.id, u.id, u.organization_id, u.role, s.expires_at
		FROM user_sessions s
		JOIN users u ON u.id = s.user_id
		LEFT JOIN organizations o ON o.id = u.organization_id
		WHERE s.id = $1 AND s.token_hash = $2
		  AND s.revoked_at IS NULL AND s.expires_at > NOW()
		  AND u.status = 'active'
		  AND (u.organization_id IS NULL OR o.status = 'active')
	`
	p := &models.SessionPrincipal{}
	err := r.db.QueryRow(ctx, query, sessionID, tokenHash).Scan(&p.SessionID, &p.UserID, &p.OrganizationID, &p.Role, &p.ExpiresAt)
	if err != nil {
		return nil, translateErr(err, "session")
	}
	return p, nil
}

func (r *sessionRepo) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE user_sessions SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`, sessionID)
	return err
}

func (r *sessionRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID, keep *uuid.UUID) ([]uuid.UUID, error) {
	keepID := uuid.Nil
	if keep != nil {
		keepID = *keep
	}
	query := `
		UPDATE user_sessions SET revoked_at = NOW()
		WHERE user_id = $1 AND id <> $2 AND revoked_at IS NULL
		RETURNING id
	`
	return r.queryIDs(ctx, query, userID, keepID)
}

func (r *sessionRepo) OpenIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.queryIDs(ctx, `
		SELECT id FROM user_sessions
		WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`, userID)
}

func (r *sessionRepo) OpenIDsForOrganization(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	return r.queryIDs(ctx, `
		SELECT s.id FROM user_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE u.organization_id = $1 AND s.revoked_at IS NULL AND s.expires_at > NOW()
	`, orgID)
}

func (r *sessionRepo) queryIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *sessionRepo) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM user_sessions
		WHERE expires_at < $1 OR (revoked_at IS NOT NULL AND revoked_at < $1)
	`, olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
