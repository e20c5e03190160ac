package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login handles POST /api/v1/auth/login. Bad email and bad password return
// the same 401 so accounts cannot be enumerated.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "email and password are required")
	}

	id, err := h.identity.Lookup(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		}
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	token, err := h.tokens.Issue(*id)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	return c.JSON(loginResponse{
		Token: token,
		Email: id.Email,
		Name:  id.Name,
		Role:  string(id.Role),
	})
}

// Me handles GET /api/v1/auth/me, echoing the authenticated actor.
func (h *Handler) Me(c *fiber.Ctx) error {
	a := actor(c)
	return c.JSON(fiber.Map{
		"email": a.Email,
		"name":  a.Name,
		"role":  string(a.Role),
	})
}
