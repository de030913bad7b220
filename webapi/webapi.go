// Package webapi wires the HTTP surface. Each resource lives in its own
// sub-package and registers under /api:
// - auth: signup and login
// - account: accounts and reconciliation
// - category: global and custom categories
// - transaction: postings, transfers and investment trades
// - analytics: net worth, monthly summary, category spending
// - report: PDF statements
package webapi

import (
	"strings"

	"github.com/amirasaad/ledger/pkg/app"
	accountweb "github.com/amirasaad/ledger/webapi/account"
	analyticsweb "github.com/amirasaad/ledger/webapi/analytics"
	authweb "github.com/amirasaad/ledger/webapi/auth"
	categoryweb "github.com/amirasaad/ledger/webapi/category"
	"github.com/amirasaad/ledger/webapi/common"
	reportweb "github.com/amirasaad/ledger/webapi/report"
	transactionweb "github.com/amirasaad/ledger/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(app *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: common.ErrorHandler,
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		WithCredentials:      true,
		PersistAuthorization: true,
	}))

	fiberApp.Use(limiter.New(limiter.Config{
		Max:          app.Config.RateLimit.MaxRequests,
		Expiration:   app.Config.RateLimit.Window,
		KeyGenerator: clientIP,
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorJSON(c, fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded"))
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	api := fiberApp.Group("/api")
	api.Get("/health", Health)

	authweb.Routes(api, app.AuthService)
	accountweb.Routes(api, app.AccountService, app.AuthService, app.Config)
	categoryweb.Routes(api, app.CategoryService, app.AuthService, app.Config)
	transactionweb.Routes(api, app.TransactionService, app.AuthService, app.Config)
	analyticsweb.Routes(api, app.AnalyticsService, app.AuthService, app.Config)
	reportweb.Routes(api, app.ReportService, app.AuthService, app.Config)
	return fiberApp
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
			return strings.TrimSpace(forwardedFor[:commaIndex])
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}

// Health reports that the API is up.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/health [get]
func Health(c *fiber.Ctx) error {
	return common.SuccessResponseJSON(c, fiber.StatusOK, "API is running successfully", nil)
}
