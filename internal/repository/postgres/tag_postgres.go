package postgres

import (
	"context"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// TagPostgres is a PostgreSQL implementation of repository.TagRepository.
// Name uniqueness across casings is guarded by a unique index on lower(name);
// Create surfaces a race on it as repository.ErrDuplicate.
type TagPostgres struct {
	q DBTX
}

var _ repository.TagRepository = (*TagPostgres)(nil)

// FindByNameFold looks a tag up by name, ignoring case.
func (r *TagPostgres) FindByNameFold(ctx context.Context, name string) (*model.Tag, error) {
	const q = `SELECT id, name, created_at FROM tags WHERE lower(name) = lower($1)`
	var t model.Tag
	if err := r.q.QueryRowContext(ctx, q, name).Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a tag with the name as given.
func (r *TagPostgres) Create(ctx context.Context, tag *model.Tag) (*model.Tag, error) {
	const q = `
		INSERT INTO tags (id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, name, created_at
	`
	var t model.Tag
	err := r.q.QueryRowContext(ctx, q, tag.ID, tag.Name, tag.CreatedAt).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &t, nil
}

// LinkDocument inserts one link row per tag.
func (r *TagPostgres) LinkDocument(ctx context.Context, documentID string, tagIDs []string) error {
	const q = `INSERT INTO document_tags (document_id, tag_id, created_at) VALUES ($1, $2, now())`
	for _, tagID := range tagIDs {
		if _, err := r.q.ExecContext(ctx, q, documentID, tagID); err != nil {
			return translateErr(err)
		}
	}
	return nil
}

// UnlinkDocument clears every link for the document. Updates replace the
// full tag set, so there is no partial diffing here.
func (r *TagPostgres) UnlinkDocument(ctx context.Context, documentID string) error {
	const q = `DELETE FROM document_tags WHERE document_id = $1`
	_, err := r.q.ExecContext(ctx, q, documentID)
	return err
}
