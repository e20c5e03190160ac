package postgres

import (
	"context"
	"database/sql"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// DocumentSharePostgres is a PostgreSQL implementation of
// repository.DocumentShareRepository. A partial unique index on
// (document_id, grantee_email) WHERE revoked_at IS NULL guarantees at most
// one active share per pair; Create reports a race on it as ErrDuplicate.
type DocumentSharePostgres struct {
	q DBTX
}

var _ repository.DocumentShareRepository = (*DocumentSharePostgres)(nil)

const shareColumns = `id, document_id, grantee_email, permission_level, granted_by, created_at, revoked_at`

func scanShare(row interface{ Scan(...any) error }) (*model.DocumentShare, error) {
	var s model.DocumentShare
	var revoked sql.NullTime
	if err := row.Scan(
		&s.ID,
		&s.DocumentID,
		&s.GranteeEmail,
		&s.Permission,
		&s.GrantedBy,
		&s.CreatedAt,
		&revoked,
	); err != nil {
		return nil, err
	}
	if revoked.Valid {
		t := revoked.Time
		s.RevokedAt = &t
	}
	return &s, nil
}

// Create inserts a share grant.
func (r *DocumentSharePostgres) Create(ctx context.Context, share *model.DocumentShare) (*model.DocumentShare, error) {
	const q = `
		INSERT INTO document_shares (id, document_id, grantee_email, permission_level, granted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + shareColumns
	row := r.q.QueryRowContext(ctx, q,
		share.ID,
		share.DocumentID,
		share.GranteeEmail,
		share.Permission,
		share.GrantedBy,
		share.CreatedAt,
	)
	out, err := scanShare(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return out, nil
}

// FindActive returns the active share for the (document, grantee) pair.
func (r *DocumentSharePostgres) FindActive(ctx context.Context, documentID, granteeEmail string) (*model.DocumentShare, error) {
	const q = `
		SELECT ` + shareColumns + `
		FROM document_shares
		WHERE document_id = $1 AND grantee_email = $2 AND revoked_at IS NULL
	`
	return scanShare(r.q.QueryRowContext(ctx, q, documentID, granteeEmail))
}

// ListActive returns the document's active shares, newest first.
func (r *DocumentSharePostgres) ListActive(ctx context.Context, documentID string) ([]model.DocumentShare, error) {
	const q = `
		SELECT ` + shareColumns + `
		FROM document_shares
		WHERE document_id = $1 AND revoked_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shares := make([]model.DocumentShare, 0)
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, *s)
	}
	return shares, rows.Err()
}

// Revoke soft-deletes the active share by stamping revoked_at. The row stays
// for the audit trail; only the active-share index slot frees up.
func (r *DocumentSharePostgres) Revoke(ctx context.Context, documentID, granteeEmail string, at time.Time) error {
	const q = `
		UPDATE document_shares
		SET revoked_at = $3
		WHERE document_id = $1 AND grantee_email = $2 AND revoked_at IS NULL
	`
	res, err := r.q.ExecContext(ctx, q, documentID, granteeEmail, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
