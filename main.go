package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"slygems-backend/controllers"
	"slygems-backend/database"
	"slygems-backend/mailer"
	"slygems-backend/middlewares"
	"slygems-backend/pdf"
	"slygems-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// envStr reads a string env var with a default fallback.
func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// ---- Database
	database.Connect()
	if err := database.Migrate(); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// ---- Outbound email + document composition (explicit config, no ambient
	// environment reads inside the packages themselves)
	controllers.Mail = mailer.New(mailer.Config{
		APIURL:                 envStr("MAILTRAP_API_URL", "https://send.api.mailtrap.io/api/send"),
		Token:                  os.Getenv("MAILTRAP_TOKEN"),
		SenderName:             envStr("MAIL_SENDER_NAME", "Sly Gems"),
		SenderEmail:            envStr("MAIL_SENDER_EMAIL", "hello@demomailtrap.co"),
		BaseURL:                envStr("APP_BASE_URL", "http://localhost:8080"),
		CompanyName:            envStr("COMPANY_NAME", "Sly Gems"),
		CompanyAddress:         envStr("COMPANY_ADDRESS", "Nairobi street 124"),
		CompanyCity:            envStr("COMPANY_CITY", "Nairobi"),
		CompanyZip:             envStr("COMPANY_ZIP", "345345"),
		CompanyCountry:         envStr("COMPANY_COUNTRY", "Kenya"),
		TemplateInvoiceCreated: os.Getenv("MAILTRAP_TEMPLATE_CREATED"),
		TemplateInvoiceUpdated: os.Getenv("MAILTRAP_TEMPLATE_UPDATED"),
		TemplateReminder:       os.Getenv("MAILTRAP_TEMPLATE_REMINDER"),
	})
	controllers.Composer = pdf.NewComposer(pdf.FileLogo{
		Path: envStr("LOGO_PATH", "./assets/logo.png"),
	})

	// ---- Limits (configurable via env)
	// Fiber default BodyLimit is 4 * 1024 * 1024 bytes if unset (per docs).
	// We allow overriding with BODY_LIMIT_BYTES or BODY_LIMIT_MB.
	bodyLimitBytes := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimitBytes <= 0 {
		bodyLimitBytes = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    bodyLimitBytes,
	})

	// ---- CORS
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// ---- Global rate limiter (applies to all routes; tune via env)
	rlMax := envInt("RATE_LIMIT_MAX", 60)                                            // default 60 reqs
	rlWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second // default 60s window
	app.Use(limiter.New(limiter.Config{
		Max:        rlMax,
		Expiration: rlWindow,
		// Default KeyGenerator = client IP; default 429 handler is fine.
	}))

	// ---- Routes
	routes.Register(app)

	// ---- Start
	port := envStr("PORT", "8080")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
