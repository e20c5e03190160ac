package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docvault/internal/access"
	"docvault/internal/metrics"
	"docvault/internal/model"
	"docvault/internal/repository"
)

// Audit action labels recorded by the HTTP layer.
const (
	ActionDocumentUploaded   = "document.uploaded"
	ActionDocumentViewed     = "document.viewed"
	ActionDocumentDownloaded = "document.downloaded"
	ActionDocumentUpdated    = "document.updated"
	ActionDocumentDeleted    = "document.deleted"
	ActionDocumentShared     = "document.shared"
	ActionShareRevoked       = "share.revoked"
)

// AuditEntry is the input to Record.
type AuditEntry struct {
	Actor      model.Actor
	Action     string
	EntityType string
	EntityID   string
	IPAddress  string
	Details    string
}

// AuditQuery filters the paged audit listing.
type AuditQuery struct {
	ActorEmail string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// AuditPage is the service-level DTO for paginated audit logs.
type AuditPage struct {
	Items []model.AuditLog `json:"data"`
	Total int              `json:"total"`
}

// AuditRecorder persists the audit trail. Record is deliberately asymmetric
// to every other mutation: a persistence failure is swallowed, never
// surfaced, never retried. Audit completeness is best effort.
type AuditRecorder interface {
	// Record appends an audit entry. It never fails the caller; a write
	// error only bumps a metric and emits a log line.
	Record(ctx context.Context, e AuditEntry)

	// List returns a filtered page of audit entries, newest first.
	// Restricted to privileged roles.
	List(ctx context.Context, q AuditQuery, actor model.Actor) (*AuditPage, error)

	// DocumentTrail returns every entry for a document, newest first.
	// Requires read access on the document.
	DocumentTrail(ctx context.Context, documentID string, actor model.Actor) ([]model.AuditLog, error)
}

type auditRecorder struct {
	uow     repository.UnitOfWork
	metrics *metrics.Metrics
}

// NewAuditRecorder constructs a new AuditRecorder.
func NewAuditRecorder(uow repository.UnitOfWork, m *metrics.Metrics) AuditRecorder {
	return &auditRecorder{uow: uow, metrics: m}
}

func (a *auditRecorder) Record(ctx context.Context, e AuditEntry) {
	entry := &model.AuditLog{
		ID:         uuid.New().String(),
		ActorEmail: e.Actor.Email,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   nilIfEmpty(e.EntityID),
		IPAddress:  nilIfEmpty(e.IPAddress),
		Details:    nilIfEmpty(e.Details),
		CreatedAt:  time.Now().UTC(),
	}
	if e.EntityType == "Document" {
		entry.DocumentID = nilIfEmpty(e.EntityID)
	}

	if err := a.uow.AuditLogs().Create(ctx, entry); err != nil {
		a.metrics.IncAuditWriteFailure()
		logJSON(map[string]any{
			"level":     "error",
			"component": "audit_recorder",
			"event":     "audit_write_swallowed",
			"action":    e.Action,
			"error":     err.Error(),
		})
	}
}

func (a *auditRecorder) List(ctx context.Context, q AuditQuery, actor model.Actor) (*AuditPage, error) {
	if !actor.Role.Privileged() {
		return nil, fmt.Errorf("%w: you don't have permission to view audit logs", ErrAccessDenied)
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	res, err := a.uow.AuditLogs().List(ctx, repository.AuditQuery{
		ActorEmail: q.ActorEmail,
		From:       q.From,
		To:         q.To,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &AuditPage{Items: res.Items, Total: res.Total}, nil
}

func (a *auditRecorder) DocumentTrail(ctx context.Context, documentID string, actor model.Actor) ([]model.AuditLog, error) {
	doc, err := a.uow.Documents().FindByIDWithDetails(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
		}
		return nil, err
	}
	if !access.CanRead(doc, actor) {
		return nil, fmt.Errorf("%w: you don't have permission to view this document's audit trail", ErrAccessDenied)
	}
	return a.uow.AuditLogs().DocumentTrail(ctx, documentID)
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
