package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/repository"
	repoMocks "docvault/internal/repository/mocks"
)

func TestShareService_Share(t *testing.T) {
	ctx := context.Background()
	docID := "11111111-1111-1111-1111-111111111111"

	tests := []struct {
		name    string
		actor   model.Actor
		input   ShareInput
		setup   func(uow *repoMocks.MockUnitOfWork)
		wantErr error
	}{
		{
			name:  "owner shares with read permission",
			actor: owner,
			input: ShareInput{GranteeEmail: stranger.Email, Permission: model.PermissionRead},
			setup: func(uow *repoMocks.MockUnitOfWork) {
				uow.DocumentsRepo.On("FindByID", ctx, docID).Return(ownedDocument(), nil)
				uow.SharesRepo.On("FindActive", ctx, docID, stranger.Email).
					Return(nil, sql.ErrNoRows)
				uow.SharesRepo.On("Create", ctx, mock.MatchedBy(func(s *model.DocumentShare) bool {
					return s.DocumentID == docID &&
						s.GranteeEmail == stranger.Email &&
						s.Permission == model.PermissionRead &&
						s.GrantedBy == owner.Email
				})).Return(&model.DocumentShare{ID: "share-1"}, nil)
			},
		},
		{
			name:    "invalid permission",
			actor:   owner,
			input:   ShareInput{GranteeEmail: stranger.Email, Permission: "Execute"},
			setup:   func(uow *repoMocks.MockUnitOfWork) {},
			wantErr: ErrValidation,
		},
		{
			name:    "self share is rejected",
			actor:   owner,
			input:   ShareInput{GranteeEmail: "OWNER@example.com", Permission: model.PermissionRead},
			setup:   func(uow *repoMocks.MockUnitOfWork) {},
			wantErr: ErrValidation,
		},
		{
			name:  "write grantee cannot manage shares",
			actor: stranger,
			input: ShareInput{GranteeEmail: "third@example.com", Permission: model.PermissionRead},
			setup: func(uow *repoMocks.MockUnitOfWork) {
				doc := ownedDocument()
				doc.Shares = []model.DocumentShare{{
					GranteeEmail: stranger.Email,
					Permission:   model.PermissionWrite,
				}}
				uow.DocumentsRepo.On("FindByID", ctx, docID).Return(doc, nil)
			},
			wantErr: ErrAccessDenied,
		},
		{
			name:  "duplicate active share conflicts",
			actor: owner,
			input: ShareInput{GranteeEmail: stranger.Email, Permission: model.PermissionWrite},
			setup: func(uow *repoMocks.MockUnitOfWork) {
				uow.DocumentsRepo.On("FindByID", ctx, docID).Return(ownedDocument(), nil)
				uow.SharesRepo.On("FindActive", ctx, docID, stranger.Email).
					Return(&model.DocumentShare{ID: "existing"}, nil)
			},
			wantErr: ErrConflict,
		},
		{
			name:  "losing the insert race is a conflict",
			actor: owner,
			input: ShareInput{GranteeEmail: stranger.Email, Permission: model.PermissionRead},
			setup: func(uow *repoMocks.MockUnitOfWork) {
				uow.DocumentsRepo.On("FindByID", ctx, docID).Return(ownedDocument(), nil)
				uow.SharesRepo.On("FindActive", ctx, docID, stranger.Email).
					Return(nil, sql.ErrNoRows)
				uow.SharesRepo.On("Create", ctx, mock.Anything).
					Return(nil, repository.ErrDuplicate)
			},
			wantErr: ErrConflict,
		},
		{
			name:  "missing document",
			actor: owner,
			input: ShareInput{GranteeEmail: stranger.Email, Permission: model.PermissionRead},
			setup: func(uow *repoMocks.MockUnitOfWork) {
				uow.DocumentsRepo.On("FindByID", ctx, docID).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := new(repoMocks.MockUnitOfWork)
			tt.setup(uow)
			svc := NewShareService(uow)

			share, err := svc.Share(ctx, docID, tt.input, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, share)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, share)
			}
			uow.AssertExpectations(t)
		})
	}
}

func TestShareService_ListActive(t *testing.T) {
	ctx := context.Background()
	docID := "11111111-1111-1111-1111-111111111111"

	t.Run("owner lists shares newest first", func(t *testing.T) {
		uow := new(repoMocks.MockUnitOfWork)
		uow.DocumentsRepo.On("FindByID", ctx, docID).Return(ownedDocument(), nil)
		uow.SharesRepo.On("ListActive", ctx, docID).Return([]model.DocumentShare{
			{ID: "s2"}, {ID: "s1"},
		}, nil)

		svc := NewShareService(uow)
		shares, err := svc.ListActive(ctx, docID, owner)
		assert.NoError(t, err)
		assert.Len(t, shares, 2)
	})

	t.Run("read grantee may not list shares", func(t *testing.T) {
		uow := new(repoMocks.MockUnitOfWork)
		doc := ownedDocument()
		doc.Shares = []model.DocumentShare{{
			GranteeEmail: stranger.Email,
			Permission:   model.PermissionRead,
		}}
		uow.DocumentsRepo.On("FindByID", ctx, docID).Return(doc, nil)

		svc := NewShareService(uow)
		_, err := svc.ListActive(ctx, docID, stranger)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestShareService_Revoke(t *testing.T) {
	ctx := context.Background()
	docID := "11111111-1111-1111-1111-111111111111"

	t.Run("owner revokes an active share", func(t *testing.T) {
		uow := new(repoMocks.MockUnitOfWork)
		uow.DocumentsRepo.On("FindByID", ctx, docID).Return(ownedDocument(), nil)
		uow.SharesRepo.On("Revoke", ctx, docID, stranger.Email, mock.AnythingOfType("time.Time")).
			Return(nil)

		svc := NewShareService(uow)
		assert.NoError(t, svc.Revoke(ctx, docID, stranger.Email, owner))
	})

	t.Run("revoking a missing share is not found", func(t *testing.T) {
		uow := new(repoMocks.MockUnitOfWork)
		uow.DocumentsRepo.On("FindByID", ctx, docID).Return(ownedDocument(), nil)
		uow.SharesRepo.On("Revoke", ctx, docID, stranger.Email, mock.AnythingOfType("time.Time")).
			Return(sql.ErrNoRows)

		svc := NewShareService(uow)
		err := svc.Revoke(ctx, docID, stranger.Email, owner)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("manager revokes without ownership", func(t *testing.T) {
		uow := new(repoMocks.MockUnitOfWork)
		manager := model.Actor{Email: "manager@example.com", Role: model.RoleManager}
		uow.DocumentsRepo.On("FindByID", ctx, docID).Return(ownedDocument(), nil)
		uow.SharesRepo.On("Revoke", ctx, docID, stranger.Email, mock.AnythingOfType("time.Time")).
			Return(nil)

		svc := NewShareService(uow)
		assert.NoError(t, svc.Revoke(ctx, docID, stranger.Email, manager))
	})
}
