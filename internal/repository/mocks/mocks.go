// Package mocks provides hand-written testify mocks for the repository layer.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// MockUnitOfWork bundles the repository mocks. WithinTx simply runs the
// callback against the same mocks, so tests observe transactional calls
// exactly like plain ones while still exercising the rollback paths via
// returned errors.
type MockUnitOfWork struct {
	DocumentsRepo MockDocumentRepository
	TagsRepo      MockTagRepository
	SharesRepo    MockDocumentShareRepository
	AuditRepo     MockAuditLogRepository
}

var _ repository.UnitOfWork = (*MockUnitOfWork)(nil)

func (m *MockUnitOfWork) Documents() repository.DocumentRepository { return &m.DocumentsRepo }
func (m *MockUnitOfWork) Tags() repository.TagRepository           { return &m.TagsRepo }
func (m *MockUnitOfWork) Shares() repository.DocumentShareRepository {
	return &m.SharesRepo
}
func (m *MockUnitOfWork) AuditLogs() repository.AuditLogRepository { return &m.AuditRepo }

func (m *MockUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.UnitOfWork) error) error {
	return fn(ctx, m)
}

func (m *MockUnitOfWork) AssertExpectations(t mock.TestingT) {
	m.DocumentsRepo.AssertExpectations(t)
	m.TagsRepo.AssertExpectations(t)
	m.SharesRepo.AssertExpectations(t)
	m.AuditRepo.AssertExpectations(t)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByIDWithDetails(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) List(ctx context.Context, q repository.DocumentQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) FindByNameFold(ctx context.Context, name string) (*model.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagRepository) Create(ctx context.Context, tag *model.Tag) (*model.Tag, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagRepository) LinkDocument(ctx context.Context, documentID string, tagIDs []string) error {
	args := m.Called(ctx, documentID, tagIDs)
	return args.Error(0)
}

func (m *MockTagRepository) UnlinkDocument(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

type MockDocumentShareRepository struct {
	mock.Mock
}

func (m *MockDocumentShareRepository) Create(ctx context.Context, share *model.DocumentShare) (*model.DocumentShare, error) {
	args := m.Called(ctx, share)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentShare), args.Error(1)
}

func (m *MockDocumentShareRepository) FindActive(ctx context.Context, documentID, granteeEmail string) (*model.DocumentShare, error) {
	args := m.Called(ctx, documentID, granteeEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentShare), args.Error(1)
}

func (m *MockDocumentShareRepository) ListActive(ctx context.Context, documentID string) ([]model.DocumentShare, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentShare), args.Error(1)
}

func (m *MockDocumentShareRepository) Revoke(ctx context.Context, documentID, granteeEmail string, at time.Time) error {
	args := m.Called(ctx, documentID, granteeEmail, at)
	return args.Error(0)
}

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) List(ctx context.Context, q repository.AuditQuery) (*repository.PageResult[model.AuditLog], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AuditLog]), args.Error(1)
}

func (m *MockAuditLogRepository) DocumentTrail(ctx context.Context, documentID string) ([]model.AuditLog, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditLog), args.Error(1)
}
