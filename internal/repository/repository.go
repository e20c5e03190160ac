// Package repository contains the data access layer abstractions.
// Implementations live in subpackages (postgres). No business logic here,
// strictly persistence operations.
package repository

import (
	"context"
	"errors"
	"time"

	"docvault/internal/model"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (tag name, active share per grantee). Callers translate it to a conflict,
// they never see the raw driver error.
var ErrDuplicate = errors.New("duplicate row")

// UnitOfWork groups the repositories over one database handle and provides
// the transaction boundary for multi-entity mutations.
type UnitOfWork interface {
	Documents() DocumentRepository
	Tags() TagRepository
	Shares() DocumentShareRepository
	AuditLogs() AuditLogRepository

	// WithinTx runs fn with a unit of work bound to a single transaction.
	// fn returning nil commits; any error rolls back everything fn did.
	// Calling WithinTx on an already transaction-bound unit reuses that
	// transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx UnitOfWork) error) error
}

// DocumentQuery scopes a paginated document listing to what the actor may
// see, with an optional case-insensitive search term.
type DocumentQuery struct {
	Actor  model.Actor
	Search string
	Limit  int
	Offset int
}

// AuditQuery filters a paginated audit log listing.
type AuditQuery struct {
	ActorEmail string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}

// DocumentRepository defines data access for documents.
type DocumentRepository interface {
	// Create inserts a new document row and returns the stored record.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns the bare document row, sql.ErrNoRows if absent.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindByIDWithDetails returns the document with its tags and active
	// shares loaded, sql.ErrNoRows if absent.
	FindByIDWithDetails(ctx context.Context, id string) (*model.Document, error)

	// Update persists title, description, access type and updated_at.
	// Owner, filename and storage path are immutable after creation.
	Update(ctx context.Context, doc *model.Document) error

	// Delete removes the row; tag links and shares cascade, audit rows keep
	// a nulled back-reference. Returns sql.ErrNoRows if the row was absent.
	Delete(ctx context.Context, id string) error

	// List returns the actor-visible documents newest first, with tags
	// loaded, plus the total count for the same scope and filter.
	List(ctx context.Context, q DocumentQuery) (*PageResult[model.Document], error)
}

// TagRepository defines data access for tags and document-tag links.
type TagRepository interface {
	// FindByNameFold looks a tag up by name case-insensitively.
	FindByNameFold(ctx context.Context, name string) (*model.Tag, error)

	// Create inserts a tag with the name as given. Returns ErrDuplicate if
	// a tag with the same name (any casing) already exists.
	Create(ctx context.Context, tag *model.Tag) (*model.Tag, error)

	// LinkDocument inserts one document_tags row per tag ID.
	LinkDocument(ctx context.Context, documentID string, tagIDs []string) error

	// UnlinkDocument removes every document_tags row for the document.
	UnlinkDocument(ctx context.Context, documentID string) error
}

// DocumentShareRepository defines data access for share grants.
type DocumentShareRepository interface {
	// Create inserts a share. Returns ErrDuplicate if an active share for
	// the same (document, grantee) pair already exists.
	Create(ctx context.Context, share *model.DocumentShare) (*model.DocumentShare, error)

	// FindActive returns the active share for the pair, sql.ErrNoRows if none.
	FindActive(ctx context.Context, documentID, granteeEmail string) (*model.DocumentShare, error)

	// ListActive returns the document's active shares, newest first.
	ListActive(ctx context.Context, documentID string) ([]model.DocumentShare, error)

	// Revoke soft-deletes the active share for the pair by setting
	// revoked_at. Returns sql.ErrNoRows if no active share exists.
	Revoke(ctx context.Context, documentID, granteeEmail string, at time.Time) error
}

// AuditLogRepository defines data access for the append-only audit trail.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, q AuditQuery) (*PageResult[model.AuditLog], error)
	DocumentTrail(ctx context.Context, documentID string) ([]model.AuditLog, error)
}
