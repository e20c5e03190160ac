package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/service"
)

type uploadForm struct {
	Title       string   `validate:"required,max=255"`
	Description string   `validate:"max=2000"`
	AccessType  string   `validate:"required,oneof=Private Public Restricted"`
	Tags        []string `validate:"dive,required,max=50"`
}

type updateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	AccessType  *string  `json:"access_type" validate:"omitempty,oneof=Private Public Restricted"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required,max=50"`
}

// UploadDocument handles POST /api/v1/documents (multipart/form-data).
func (h *Handler) UploadDocument(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}

	form := uploadForm{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		AccessType:  c.FormValue("access_type", string(model.AccessPrivate)),
	}
	if mf, err := c.MultipartForm(); err == nil {
		form.Tags = mf.Value["tags"]
	}
	if err := validate.Struct(form); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid document metadata")
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	a := actor(c)
	doc, err := h.docs.Upload(c.UserContext(), f, service.UploadInput{
		Title:       form.Title,
		Description: form.Description,
		Tags:        form.Tags,
		Access:      model.AccessType(form.AccessType),
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
	}, a)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.recordAudit(service.AuditEntry{
		Actor:      a,
		Action:     service.ActionDocumentUploaded,
		EntityType: "Document",
		EntityID:   doc.ID,
		IPAddress:  c.IP(),
	})
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// ListDocuments handles GET /api/v1/documents with limit/offset and an
// optional search term.
func (h *Handler) ListDocuments(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}

	res, err := h.docs.List(c.UserContext(), service.ListInput{
		Search: c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}, actor(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(res)
}

// GetDocument handles GET /api/v1/documents/:id.
func (h *Handler) GetDocument(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	a := actor(c)
	doc, err := h.docs.Get(c.UserContext(), id, a)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.recordAudit(service.AuditEntry{
		Actor:      a,
		Action:     service.ActionDocumentViewed,
		EntityType: "Document",
		EntityID:   doc.ID,
		IPAddress:  c.IP(),
	})
	return c.JSON(doc)
}

// DownloadDocument handles GET /api/v1/documents/:id/download, streaming the
// blob with the original filename and content type.
func (h *Handler) DownloadDocument(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	a := actor(c)
	rc, doc, err := h.docs.Download(c.UserContext(), id, a)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.recordAudit(service.AuditEntry{
		Actor:      a,
		Action:     service.ActionDocumentDownloaded,
		EntityType: "Document",
		EntityID:   doc.ID,
		IPAddress:  c.IP(),
	})

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
	return c.SendStream(rc, int(doc.Size))
}

// UpdateDocument handles PATCH /api/v1/documents/:id with partial semantics.
// A supplied tag list replaces the whole tag set; absent fields are untouched.
func (h *Handler) UpdateDocument(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid update fields")
	}

	in := service.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.AccessType != nil {
		at := model.AccessType(*req.AccessType)
		in.Access = &at
	}

	a := actor(c)
	doc, err := h.docs.Update(c.UserContext(), id, in, a)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.recordAudit(service.AuditEntry{
		Actor:      a,
		Action:     service.ActionDocumentUpdated,
		EntityType: "Document",
		EntityID:   doc.ID,
		IPAddress:  c.IP(),
	})
	return c.JSON(doc)
}

// DeleteDocument handles DELETE /api/v1/documents/:id.
func (h *Handler) DeleteDocument(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	a := actor(c)
	if err := h.docs.Delete(c.UserContext(), id, a); err != nil {
		return writeServiceError(c, err)
	}

	h.recordAudit(service.AuditEntry{
		Actor:      a,
		Action:     service.ActionDocumentDeleted,
		EntityType: "Document",
		EntityID:   id,
		IPAddress:  c.IP(),
	})
	return c.SendStatus(fiber.StatusNoContent)
}

func documentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
