package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
type DocumentPostgres struct {
	q DBTX
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, title, description, filename, content_type, size, storage_path, owner_email, access_type, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	var desc sql.NullString
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&desc,
		&d.Filename,
		&d.ContentType,
		&d.Size,
		&d.StoragePath,
		&d.OwnerEmail,
		&d.Access,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.Description = desc.String
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, title, description, filename, content_type, size, storage_path, owner_email, access_type, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + documentColumns
	row := r.q.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.Filename,
		doc.ContentType,
		doc.Size,
		doc.StoragePath,
		doc.OwnerEmail,
		doc.Access,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return out, nil
}

// FindByID fetches a single document row by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.q.QueryRowContext(ctx, q, id))
}

// FindByIDWithDetails fetches the document along with its tags and active shares.
func (r *DocumentPostgres) FindByIDWithDetails(ctx context.Context, id string) (*model.Document, error) {
	doc, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := r.documentTags(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Tags = tags

	shares, err := (&DocumentSharePostgres{q: r.q}).ListActive(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Shares = shares

	return doc, nil
}

func (r *DocumentPostgres) documentTags(ctx context.Context, id string) ([]model.Tag, error) {
	const q = `
		SELECT t.id, t.name, t.created_at
		FROM document_tags dt
		JOIN tags t ON t.id = dt.tag_id
		WHERE dt.document_id = $1
		ORDER BY t.name
	`
	rows, err := r.q.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Update persists the mutable fields. Owner, filename, size and storage path
// never change after creation.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) error {
	const q = `
		UPDATE documents
		SET title = $2, description = NULLIF($3, ''), access_type = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := r.q.ExecContext(ctx, q, doc.ID, doc.Title, doc.Description, doc.Access, doc.UpdatedAt)
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

// Delete removes the document row. Tag links and shares cascade via FK;
// audit rows keep a nulled document reference.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, id)
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

// List returns the actor-visible page of documents, newest first, with tags
// loaded, plus the total count for the same scope and filter. The WHERE
// clause mirrors the access.CanRead predicate for non-privileged actors.
func (r *DocumentPostgres) List(ctx context.Context, q repository.DocumentQuery) (*repository.PageResult[model.Document], error) {
	var conds []string
	var args []any

	if !q.Actor.Role.Privileged() {
		args = append(args, q.Actor.Email)
		p := fmt.Sprintf("$%d", len(args))
		conds = append(conds, `(d.access_type = 'Public' OR d.owner_email = `+p+` OR EXISTS (
			SELECT 1 FROM document_shares ds
			WHERE ds.document_id = d.id AND ds.grantee_email = `+p+` AND ds.revoked_at IS NULL))`)
	}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		conds = append(conds, `(d.title ILIKE `+p+` OR d.description ILIKE `+p+` OR d.content_type ILIKE `+p+` OR EXISTS (
			SELECT 1 FROM document_tags dt JOIN tags t ON t.id = dt.tag_id
			WHERE dt.document_id = d.id AND t.name ILIKE `+p+`))`)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents d`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, q.Limit, q.Offset)
	listQuery := `SELECT ` + prefixColumns("d", documentColumns) + ` FROM documents d` + where +
		fmt.Sprintf(` ORDER BY d.created_at DESC, d.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		tags, err := r.documentTags(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Tags = tags
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

func prefixColumns(alias, cols string) string {
	parts := strings.Split(cols, ", ")
	for i, c := range parts {
		parts[i] = alias + "." + c
	}
	return strings.Join(parts, ", ")
}
