package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"docvault/internal/model"
	"docvault/internal/repository"
)

func docRows(doc *model.Document) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "filename", "content_type", "size",
		"storage_path", "owner_email", "access_type", "created_at", "updated_at",
	}).AddRow(
		doc.ID, doc.Title, doc.Description, doc.Filename, doc.ContentType, doc.Size,
		doc.StoragePath, doc.OwnerEmail, doc.Access, doc.CreatedAt, doc.UpdatedAt,
	)
}

func sampleDoc() *model.Document {
	now := time.Now().UTC()
	return &model.Document{
		ID:          "doc-1",
		Title:       "Q3 Report",
		Description: "quarterly numbers",
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Size:        123,
		StoragePath: "documents/2026/08/blob.pdf",
		OwnerEmail:  "owner@example.com",
		Access:      model.AccessPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := &DocumentPostgres{q: db}
	ctx := context.Background()
	doc := sampleDoc()

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.Title, doc.Description, doc.Filename, doc.ContentType,
			doc.Size, doc.StoragePath, doc.OwnerEmail, doc.Access, doc.CreatedAt, doc.UpdatedAt).
		WillReturnRows(docRows(doc))

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, doc.Description, result.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByIDWithDetails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := &DocumentPostgres{q: db}
	ctx := context.Background()
	doc := sampleDoc()

	t.Run("found with tags and active shares", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs(doc.ID).
			WillReturnRows(docRows(doc))
		mock.ExpectQuery("SELECT t.id, t.name, t.created_at").
			WithArgs(doc.ID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).
				AddRow("tag-1", "finance", time.Now()))
		mock.ExpectQuery("SELECT (.+) FROM document_shares").
			WithArgs(doc.ID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "document_id", "grantee_email", "permission_level",
				"granted_by", "created_at", "revoked_at",
			}).AddRow("share-1", doc.ID, "grantee@example.com", "Read",
				doc.OwnerEmail, time.Now(), nil))

		got, err := repo.FindByIDWithDetails(ctx, doc.ID)

		assert.NoError(t, err)
		assert.Len(t, got.Tags, 1)
		assert.Len(t, got.Shares, 1)
		assert.Nil(t, got.Shares[0].RevokedAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByIDWithDetails(ctx, "missing")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, got)
	})
}

func TestDocumentPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := &DocumentPostgres{q: db}
	ctx := context.Background()
	doc := sampleDoc()

	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").
			WithArgs(doc.ID, doc.Title, doc.Description, doc.Access, doc.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, doc))
	})

	t.Run("vanished row reports no rows", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").
			WithArgs(doc.ID, doc.Title, doc.Description, doc.Access, doc.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.True(t, errors.Is(repo.Update(ctx, doc), sql.ErrNoRows))
	})
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := &DocumentPostgres{q: db}
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents").
			WithArgs("doc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "doc-1"))
	})

	t.Run("missing row reports no rows", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.True(t, errors.Is(repo.Delete(ctx, "missing"), sql.ErrNoRows))
	})
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := &DocumentPostgres{q: db}
	ctx := context.Background()
	doc := sampleDoc()

	t.Run("non-privileged actor gets a scoped count and page", func(t *testing.T) {
		actor := model.Actor{Email: "viewer@example.com", Role: model.RoleViewer}

		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents d WHERE").
			WithArgs(actor.Email).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("SELECT (.+) FROM documents d WHERE (.+) ORDER BY d.created_at DESC").
			WithArgs(actor.Email, 10, 0).
			WillReturnRows(docRows(doc))
		mock.ExpectQuery("SELECT t.id, t.name, t.created_at").
			WithArgs(doc.ID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

		res, err := repo.List(ctx, repository.DocumentQuery{Actor: actor, Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("privileged actor lists without a visibility clause", func(t *testing.T) {
		actor := model.Actor{Email: "admin@example.com", Role: model.RoleAdmin}

		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents d").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery("SELECT (.+) FROM documents d ORDER BY d.created_at DESC").
			WithArgs(10, 0).
			WillReturnRows(docRows(doc))
		mock.ExpectQuery("SELECT t.id, t.name, t.created_at").
			WithArgs(doc.ID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

		res, err := repo.List(ctx, repository.DocumentQuery{Actor: actor, Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Total)
	})
}
