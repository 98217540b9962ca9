package routes

import (
	"github.com/gofiber/fiber/v2"

	"slygems-backend/controllers"
	"slygems-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Open read paths (linked from outbound email; no auth by design)
	api.Get("/invoice/:id", controllers.GetInvoice)
	api.Get("/invoice/:id/pdf", controllers.DownloadInvoicePDF)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then the per-request transaction (commits/rolls back around the handler)
	protected.Use(middlewares.RequestTx())

	// Account
	protected.Put("/onboarding", controllers.Onboard)

	// Invoices
	protected.Post("/invoice", controllers.CreateInvoice)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Put("/invoices/:id", controllers.UpdateInvoice)
	protected.Delete("/invoices/:id", controllers.DeleteInvoice)
	protected.Put("/invoices/:id/paid", controllers.MarkInvoicePaid)
	protected.Post("/invoices/:id/reminder", controllers.SendReminder)
}
