package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/model"
	"docvault/internal/service"
)

type shareRequest struct {
	GranteeEmail string `json:"grantee_email" validate:"required,email"`
	Permission   string `json:"permission" validate:"required,oneof=Read Write"`
}

// ShareDocument handles POST /api/v1/documents/:id/shares.
func (h *Handler) ShareDocument(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	var req shareRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid share fields")
	}

	a := actor(c)
	share, err := h.shares.Share(c.UserContext(), id, service.ShareInput{
		GranteeEmail: req.GranteeEmail,
		Permission:   model.PermissionLevel(req.Permission),
	}, a)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.recordAudit(service.AuditEntry{
		Actor:      a,
		Action:     service.ActionDocumentShared,
		EntityType: "Document",
		EntityID:   id,
		IPAddress:  c.IP(),
		Details:    "shared with " + req.GranteeEmail,
	})
	return c.Status(fiber.StatusCreated).JSON(share)
}

// ListShares handles GET /api/v1/documents/:id/shares.
func (h *Handler) ListShares(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	shares, err := h.shares.ListActive(c.UserContext(), id, actor(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(fiber.Map{"data": shares})
}

// RevokeShare handles DELETE /api/v1/documents/:id/shares/:email.
func (h *Handler) RevokeShare(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	email := c.Params("email")
	if email == "" {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "grantee email is required")
	}

	a := actor(c)
	if err := h.shares.Revoke(c.UserContext(), id, email, a); err != nil {
		return writeServiceError(c, err)
	}

	h.recordAudit(service.AuditEntry{
		Actor:      a,
		Action:     service.ActionShareRevoked,
		EntityType: "Document",
		EntityID:   id,
		IPAddress:  c.IP(),
		Details:    "revoked share for " + email,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
