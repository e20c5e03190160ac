package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/service"
)

// ListAuditLogs handles GET /api/v1/audit-logs. Registered behind a
// privileged-role guard.
func (h *Handler) ListAuditLogs(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}

	q := service.AuditQuery{
		ActorEmail: c.Query("actor"),
		Limit:      limit,
		Offset:     offset,
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FROM", "from must be RFC3339")
		}
		q.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TO", "to must be RFC3339")
		}
		q.To = &t
	}

	res, err := h.audit.List(c.UserContext(), q, actor(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(res)
}

// DocumentAuditTrail handles GET /api/v1/documents/:id/audit.
func (h *Handler) DocumentAuditTrail(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	logs, err := h.audit.DocumentTrail(c.UserContext(), id, actor(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(fiber.Map{"data": logs})
}
