package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay free of business logic; every access decision happens in the service
// layer below.
func RegisterRoutes(app *fiber.App, db *sql.DB, h *Handler, verifier middleware.TokenVerifier, gatherer prometheus.Gatherer) {
	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// Prometheus scrape endpoint
	app.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(
			promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		)
		handler(c.Context())
		return nil
	})

	api := app.Group("/api/v1")

	api.Post("/auth/login", h.Login)

	protected := api.Group("", middleware.RequireAuth(verifier))
	protected.Get("/auth/me", h.Me)

	docs := protected.Group("/documents")
	docs.Post("", h.UploadDocument)
	docs.Get("", h.ListDocuments)
	docs.Get("/:id", h.GetDocument)
	docs.Get("/:id/download", h.DownloadDocument)
	docs.Patch("/:id", h.UpdateDocument)
	docs.Delete("/:id", h.DeleteDocument)

	docs.Post("/:id/shares", h.ShareDocument)
	docs.Get("/:id/shares", h.ListShares)
	docs.Delete("/:id/shares/:email", h.RevokeShare)

	docs.Get("/:id/audit", h.DocumentAuditTrail)

	protected.Get("/audit-logs",
		middleware.RequireRole(model.RoleAdmin, model.RoleManager),
		h.ListAuditLogs)
}
