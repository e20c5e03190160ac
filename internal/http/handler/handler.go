package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"docvault/internal/auth"
	"docvault/internal/model"
	"docvault/internal/service"
)

var validate = validator.New()

// Handler bundles the HTTP endpoints and their collaborators. Handlers stay
// thin: they decode, validate, call a service, and encode; every access
// decision lives below them.
type Handler struct {
	docs     service.DocumentService
	shares   service.ShareService
	audit    service.AuditRecorder
	identity auth.IdentityStore
	tokens   *auth.TokenManager
}

// New constructs the handler set.
func New(docs service.DocumentService, shares service.ShareService, audit service.AuditRecorder, identity auth.IdentityStore, tokens *auth.TokenManager) *Handler {
	return &Handler{docs: docs, shares: shares, audit: audit, identity: identity, tokens: tokens}
}

// actor returns the authenticated actor stored by the auth middleware.
// Routes registered behind RequireAuth always have one.
func actor(c *fiber.Ctx) model.Actor {
	a, _ := c.Locals("actor").(model.Actor)
	return a
}

// recordAudit notifies the audit recorder off the request path. The entry is
// captured before the goroutine starts because the Fiber context must not be
// touched after the handler returns.
func (h *Handler) recordAudit(e service.AuditEntry) {
	go h.audit.Record(context.Background(), e)
}
