package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/repository"
	repoMocks "docvault/internal/repository/mocks"
)

func TestAuditRecorder_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the entry with a document link", func(t *testing.T) {
		uow := new(repoMocks.MockUnitOfWork)
		uow.AuditRepo.On("Create", ctx, mock.MatchedBy(func(e *model.AuditLog) bool {
			return e.ActorEmail == owner.Email &&
				e.Action == ActionDocumentViewed &&
				e.DocumentID != nil && *e.DocumentID == "doc-1"
		})).Return(nil)

		rec := NewAuditRecorder(uow, nil)
		rec.Record(ctx, AuditEntry{
			Actor:      owner,
			Action:     ActionDocumentViewed,
			EntityType: "Document",
			EntityID:   "doc-1",
		})
		uow.AssertExpectations(t)
	})

	t.Run("write failure is swallowed", func(t *testing.T) {
		uow := new(repoMocks.MockUnitOfWork)
		uow.AuditRepo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

		rec := NewAuditRecorder(uow, nil)
		// Must not panic and must not propagate; callers never see audit errors.
		rec.Record(ctx, AuditEntry{Actor: owner, Action: ActionDocumentDeleted, EntityType: "Document"})
		uow.AssertExpectations(t)
	})
}

func TestAuditRecorder_List(t *testing.T) {
	ctx := context.Background()

	t.Run("viewer is denied", func(t *testing.T) {
		rec := NewAuditRecorder(new(repoMocks.MockUnitOfWork), nil)
		_, err := rec.List(ctx, AuditQuery{}, stranger)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("contributor is denied", func(t *testing.T) {
		rec := NewAuditRecorder(new(repoMocks.MockUnitOfWork), nil)
		_, err := rec.List(ctx, AuditQuery{}, owner)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("admin lists with default paging", func(t *testing.T) {
		uow := new(repoMocks.MockUnitOfWork)
		uow.AuditRepo.On("List", ctx, repository.AuditQuery{Limit: 20}).
			Return(&repository.PageResult[model.AuditLog]{
				Items: []model.AuditLog{{ID: "a1"}},
				Total: 1,
			}, nil)

		rec := NewAuditRecorder(uow, nil)
		page, err := rec.List(ctx, AuditQuery{}, adminActor)
		assert.NoError(t, err)
		assert.Equal(t, 1, page.Total)
		uow.AssertExpectations(t)
	})
}

func TestAuditRecorder_DocumentTrail(t *testing.T) {
	ctx := context.Background()
	docID := "11111111-1111-1111-1111-111111111111"

	t.Run("requires read access on the document", func(t *testing.T) {
		uow := new(repoMocks.MockUnitOfWork)
		uow.DocumentsRepo.On("FindByIDWithDetails", ctx, docID).Return(ownedDocument(), nil)

		rec := NewAuditRecorder(uow, nil)
		_, err := rec.DocumentTrail(ctx, docID, stranger)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("owner reads the trail", func(t *testing.T) {
		uow := new(repoMocks.MockUnitOfWork)
		uow.DocumentsRepo.On("FindByIDWithDetails", ctx, docID).Return(ownedDocument(), nil)
		uow.AuditRepo.On("DocumentTrail", ctx, docID).
			Return([]model.AuditLog{{ID: "a2"}, {ID: "a1"}}, nil)

		rec := NewAuditRecorder(uow, nil)
		logs, err := rec.DocumentTrail(ctx, docID, owner)
		assert.NoError(t, err)
		assert.Len(t, logs, 2)
		uow.AssertExpectations(t)
	})
}
