package postgres

import (
	"context"
	"fmt"
	"strings"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// AuditLogPostgres is a PostgreSQL implementation of
// repository.AuditLogRepository. Rows are append-only: there is no update or
// delete path in this repository.
type AuditLogPostgres struct {
	q DBTX
}

var _ repository.AuditLogRepository = (*AuditLogPostgres)(nil)

const auditColumns = `id, actor_email, action, entity_type, entity_id, ip_address, details, document_id, created_at`

func scanAuditLog(row interface{ Scan(...any) error }) (*model.AuditLog, error) {
	var e model.AuditLog
	if err := row.Scan(
		&e.ID,
		&e.ActorEmail,
		&e.Action,
		&e.EntityType,
		&e.EntityID,
		&e.IPAddress,
		&e.Details,
		&e.DocumentID,
		&e.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create appends an audit entry.
func (r *AuditLogPostgres) Create(ctx context.Context, entry *model.AuditLog) error {
	const q = `
		INSERT INTO audit_logs (id, actor_email, action, entity_type, entity_id, ip_address, details, document_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q.ExecContext(ctx, q,
		entry.ID,
		entry.ActorEmail,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.IPAddress,
		entry.Details,
		entry.DocumentID,
		entry.CreatedAt,
	)
	return err
}

// List returns a filtered page of audit entries, newest first, with the
// total count for the same filter.
func (r *AuditLogPostgres) List(ctx context.Context, q repository.AuditQuery) (*repository.PageResult[model.AuditLog], error) {
	var conds []string
	var args []any

	if q.ActorEmail != "" {
		args = append(args, q.ActorEmail)
		conds = append(conds, fmt.Sprintf("actor_email = $%d", len(args)))
	}
	if q.From != nil {
		args = append(args, *q.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if q.To != nil {
		args = append(args, *q.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, q.Limit, q.Offset)
	listQuery := `SELECT ` + auditColumns + ` FROM audit_logs` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditLog, 0)
	for rows.Next() {
		e, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.AuditLog]{Items: items, Total: total}, nil
}

// DocumentTrail returns every entry referencing the document, newest first.
func (r *AuditLogPostgres) DocumentTrail(ctx context.Context, documentID string) ([]model.AuditLog, error) {
	const q = `
		SELECT ` + auditColumns + `
		FROM audit_logs
		WHERE document_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditLog, 0)
	for rows.Next() {
		e, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}
