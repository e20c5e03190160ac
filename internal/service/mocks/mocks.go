// Package mocks provides hand-written testify mocks for the service layer.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

var _ service.DocumentService = (*MockDocumentService)(nil)

func (m *MockDocumentService) Upload(ctx context.Context, r io.Reader, in service.UploadInput, actor model.Actor) (*model.Document, error) {
	args := m.Called(ctx, r, in, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string, actor model.Actor) (*model.Document, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, id string, actor model.Actor) (io.ReadCloser, *model.Document, error) {
	args := m.Called(ctx, id, actor)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var doc *model.Document
	if args.Get(1) != nil {
		doc = args.Get(1).(*model.Document)
	}
	return rc, doc, args.Error(2)
}

func (m *MockDocumentService) List(ctx context.Context, in service.ListInput, actor model.Actor) (*service.DocumentPage, error) {
	args := m.Called(ctx, in, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentPage), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, id string, in service.UpdateInput, actor model.Actor) (*model.Document, error) {
	args := m.Called(ctx, id, in, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id string, actor model.Actor) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

type MockShareService struct {
	mock.Mock
}

var _ service.ShareService = (*MockShareService)(nil)

func (m *MockShareService) Share(ctx context.Context, documentID string, in service.ShareInput, actor model.Actor) (*model.DocumentShare, error) {
	args := m.Called(ctx, documentID, in, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentShare), args.Error(1)
}

func (m *MockShareService) ListActive(ctx context.Context, documentID string, actor model.Actor) ([]model.DocumentShare, error) {
	args := m.Called(ctx, documentID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentShare), args.Error(1)
}

func (m *MockShareService) Revoke(ctx context.Context, documentID, granteeEmail string, actor model.Actor) error {
	args := m.Called(ctx, documentID, granteeEmail, actor)
	return args.Error(0)
}

type MockAuditRecorder struct {
	mock.Mock
}

var _ service.AuditRecorder = (*MockAuditRecorder)(nil)

func (m *MockAuditRecorder) Record(ctx context.Context, e service.AuditEntry) {
	m.Called(ctx, e)
}

func (m *MockAuditRecorder) List(ctx context.Context, q service.AuditQuery, actor model.Actor) (*service.AuditPage, error) {
	args := m.Called(ctx, q, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuditPage), args.Error(1)
}

func (m *MockAuditRecorder) DocumentTrail(ctx context.Context, documentID string, actor model.Actor) ([]model.AuditLog, error) {
	args := m.Called(ctx, documentID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditLog), args.Error(1)
}
