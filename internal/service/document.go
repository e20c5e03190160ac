package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docvault/internal/access"
	"docvault/internal/metrics"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

const maxFileSizeBytes = 10 * 1024 * 1024

// allowedContentTypes is re-asserted by the pipeline even though the HTTP
// layer validates uploads first: a second gate in front of storage writes.
var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
}

// UploadInput carries the metadata of a validated upload request.
type UploadInput struct {
	Title       string
	Description string
	Tags        []string
	Access      model.AccessType
	Filename    string
	ContentType string
	Size        int64
}

// UpdateInput carries a patch: nil fields are left untouched. A non-nil Tags
// slice replaces the entire tag set; there is no merge.
type UpdateInput struct {
	Title       *string
	Description *string
	Access      *model.AccessType
	Tags        []string
}

func (in UpdateInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.Access == nil && in.Tags == nil
}

// ListInput holds listing/search parameters.
type ListInput struct {
	Search string
	Limit  int
	Offset int
}

// DocumentPage is the service-level DTO for paginated documents.
type DocumentPage struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling documents. Every
// operation re-evaluates access against current persisted state; nothing is
// cached between calls.
type DocumentService interface {
	// Upload streams the content to object storage, then persists the
	// document row and its tag links in one transaction. A failure after
	// the storage write rolls the database back and best-effort deletes
	// the blob.
	Upload(ctx context.Context, r io.Reader, in UploadInput, actor model.Actor) (*model.Document, error)

	// Get returns the document with tags and active shares. Existence and
	// access are two distinct gates: a missing row is ErrNotFound, a live
	// row the actor may not read is ErrAccessDenied.
	Get(ctx context.Context, id string, actor model.Actor) (*model.Document, error)

	// Download returns the blob stream plus the document metadata, after
	// the same gates as Get.
	Download(ctx context.Context, id string, actor model.Actor) (io.ReadCloser, *model.Document, error)

	// List returns the documents visible to the actor, newest first.
	List(ctx context.Context, in ListInput, actor model.Actor) (*DocumentPage, error)

	// Update applies a partial patch. Requires write access and at least
	// one field. A supplied tag set fully replaces the existing links.
	Update(ctx context.Context, id string, in UpdateInput, actor model.Actor) (*model.Document, error)

	// Delete removes the row (cascading links and shares) and then
	// best-effort deletes the blob. Requires write access. A blob delete
	// failure after commit does not fail the operation.
	Delete(ctx context.Context, id string, actor model.Actor) error
}

type documentService struct {
	uow     repository.UnitOfWork
	store   storage.Storage
	metrics *metrics.Metrics
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(uow repository.UnitOfWork, store storage.Storage, m *metrics.Metrics) DocumentService {
	return &documentService{uow: uow, store: store, metrics: m}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, in UploadInput, actor model.Actor) (*model.Document, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: file content is required", ErrValidation)
	}
	if _, ok := allowedContentTypes[in.ContentType]; !ok {
		return nil, fmt.Errorf("%w: content type %q is not allowed", ErrValidation, in.ContentType)
	}
	if in.Size <= 0 || in.Size > maxFileSizeBytes {
		return nil, fmt.Errorf("%w: file size must be between 1 byte and %dMB", ErrValidation, maxFileSizeBytes/1024/1024)
	}

	now := time.Now().UTC()
	key := buildStoragePath(now, in.Filename)

	// Storage first: a blob write failure aborts before any row exists.
	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata:    map[string]string{"original-filename": in.Filename},
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Filename:    in.Filename,
		ContentType: in.ContentType,
		Size:        in.Size,
		StoragePath: key,
		OwnerEmail:  actor.Email,
		Access:      in.Access,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.UnitOfWork) error {
		if _, err := tx.Documents().Create(ctx, doc); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		if len(in.Tags) > 0 {
			tags, err := ReconcileTags(ctx, tx.Tags(), in.Tags)
			if err != nil {
				return err
			}
			if err := tx.Tags().LinkDocument(ctx, doc.ID, tagIDs(tags)); err != nil {
				return fmt.Errorf("link tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.cleanupBlob(ctx, key, "upload_rollback")
		return nil, err
	}

	return s.uow.Documents().FindByIDWithDetails(ctx, doc.ID)
}

func (s *documentService) Get(ctx context.Context, id string, actor model.Actor) (*model.Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanRead(doc, actor) {
		return nil, fmt.Errorf("%w: you don't have permission to access this document", ErrAccessDenied)
	}
	return doc, nil
}

func (s *documentService) Download(ctx context.Context, id string, actor model.Actor) (io.ReadCloser, *model.Document, error) {
	doc, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return rc, doc, nil
}

func (s *documentService) List(ctx context.Context, in ListInput, actor model.Actor) (*DocumentPage, error) {
	if in.Limit <= 0 {
		in.Limit = 10
	}
	if in.Limit > 100 {
		in.Limit = 100
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	res, err := s.uow.Documents().List(ctx, repository.DocumentQuery{
		Actor:  actor,
		Search: in.Search,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &DocumentPage{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Update(ctx context.Context, id string, in UpdateInput, actor model.Actor) (*model.Document, error) {
	if in.empty() {
		return nil, fmt.Errorf("%w: at least one field must be provided for update", ErrValidation)
	}
	if in.Access != nil && !in.Access.Valid() {
		return nil, fmt.Errorf("%w: invalid access type", ErrValidation)
	}

	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanWrite(doc, actor) {
		return nil, fmt.Errorf("%w: you don't have permission to update this document", ErrAccessDenied)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.UnitOfWork) error {
		if in.Title != nil {
			doc.Title = *in.Title
		}
		if in.Description != nil {
			doc.Description = *in.Description
		}
		if in.Access != nil {
			doc.Access = *in.Access
		}
		doc.UpdatedAt = time.Now().UTC()

		if err := tx.Documents().Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		if in.Tags != nil {
			// Full replacement: clear every link, then relink the new set.
			if err := tx.Tags().UnlinkDocument(ctx, doc.ID); err != nil {
				return fmt.Errorf("clear tags: %w", err)
			}
			tags, err := ReconcileTags(ctx, tx.Tags(), in.Tags)
			if err != nil {
				return err
			}
			if err := tx.Tags().LinkDocument(ctx, doc.ID, tagIDs(tags)); err != nil {
				return fmt.Errorf("link tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, id)
		}
		return nil, err
	}

	return s.uow.Documents().FindByIDWithDetails(ctx, id)
}

func (s *documentService) Delete(ctx context.Context, id string, actor model.Actor) error {
	doc, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	// Delete requires write access.
	if !access.CanWrite(doc, actor) {
		return fmt.Errorf("%w: you don't have permission to delete this document", ErrAccessDenied)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx repository.UnitOfWork) error {
		return tx.Documents().Delete(ctx, doc.ID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: document %s", ErrNotFound, id)
		}
		return err
	}

	// The row is gone and committed; the blob delete is best effort. A
	// failure leaves an orphaned blob for a reconciliation sweep, never a
	// failed delete. Reordering to blob-first would orphan the row instead.
	s.cleanupBlob(ctx, doc.StoragePath, "delete_cleanup")
	return nil
}

func (s *documentService) load(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.uow.Documents().FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, id)
		}
		return nil, err
	}
	return doc, nil
}

// cleanupBlob deletes a blob whose database state is already settled.
// Failures are swallowed but counted and logged.
func (s *documentService) cleanupBlob(ctx context.Context, key, event string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.metrics.IncBlobCleanupFailure()
		logJSON(map[string]any{
			"level":       "error",
			"component":   "document_service",
			"event":       event,
			"storage_key": key,
			"error":       err.Error(),
		})
	}
}

// buildStoragePath partitions blobs by creation year/month with a random
// unique component. Callers never parse these keys.
func buildStoragePath(now time.Time, filename string) string {
	return fmt.Sprintf("documents/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String(), filepath.Ext(filename))
}

func logJSON(fields map[string]any) {
	fields["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	b, err := json.Marshal(fields)
	if err != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
