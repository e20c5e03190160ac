package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault/internal/access"
	"docvault/internal/model"
	"docvault/internal/repository"
)

// ShareInput carries a validated share request.
type ShareInput struct {
	GranteeEmail string
	Permission   model.PermissionLevel
}

// ShareService manages document share grants. Only the owner or a privileged
// role may create, list, or revoke shares.
type ShareService interface {
	// Share grants the permission to the grantee. Sharing with yourself is
	// a validation error; a second active share for the same grantee is a
	// conflict, never an overwrite.
	Share(ctx context.Context, documentID string, in ShareInput, actor model.Actor) (*model.DocumentShare, error)

	// ListActive returns the document's active shares, newest first.
	ListActive(ctx context.Context, documentID string, actor model.Actor) ([]model.DocumentShare, error)

	// Revoke soft-deletes the grantee's active share. Revoking when no
	// active share exists is a not-found error.
	Revoke(ctx context.Context, documentID, granteeEmail string, actor model.Actor) error
}

type shareService struct {
	uow repository.UnitOfWork
}

// NewShareService constructs a new ShareService.
func NewShareService(uow repository.UnitOfWork) ShareService {
	return &shareService{uow: uow}
}

func (s *shareService) Share(ctx context.Context, documentID string, in ShareInput, actor model.Actor) (*model.DocumentShare, error) {
	if !in.Permission.Valid() {
		return nil, fmt.Errorf("%w: invalid permission level", ErrValidation)
	}
	if strings.EqualFold(in.GranteeEmail, actor.Email) {
		return nil, fmt.Errorf("%w: you cannot share a document with yourself", ErrValidation)
	}

	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !access.CanManageShares(doc, actor) {
		return nil, fmt.Errorf("%w: you don't have permission to share this document", ErrAccessDenied)
	}

	if _, err := s.uow.Shares().FindActive(ctx, documentID, in.GranteeEmail); err == nil {
		return nil, fmt.Errorf("%w: document is already shared with %s", ErrConflict, in.GranteeEmail)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	share, err := s.uow.Shares().Create(ctx, &model.DocumentShare{
		ID:           uuid.New().String(),
		DocumentID:   documentID,
		GranteeEmail: in.GranteeEmail,
		Permission:   in.Permission,
		GrantedBy:    actor.Email,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// Two concurrent shares for the same grantee race the partial
		// unique index; the loser reports a conflict, not a crash.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: document is already shared with %s", ErrConflict, in.GranteeEmail)
		}
		return nil, err
	}
	return share, nil
}

func (s *shareService) ListActive(ctx context.Context, documentID string, actor model.Actor) ([]model.DocumentShare, error) {
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !access.CanManageShares(doc, actor) {
		return nil, fmt.Errorf("%w: you don't have permission to view document shares", ErrAccessDenied)
	}
	return s.uow.Shares().ListActive(ctx, documentID)
}

func (s *shareService) Revoke(ctx context.Context, documentID, granteeEmail string, actor model.Actor) error {
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if !access.CanManageShares(doc, actor) {
		return fmt.Errorf("%w: you don't have permission to revoke shares for this document", ErrAccessDenied)
	}

	if err := s.uow.Shares().Revoke(ctx, documentID, granteeEmail, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: no active share found for %s", ErrNotFound, granteeEmail)
		}
		return err
	}
	return nil
}

func (s *shareService) loadDocument(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.uow.Documents().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, id)
		}
		return nil, err
	}
	return doc, nil
}
