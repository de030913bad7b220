package report

import (
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/middleware"
	authsvc "github.com/amirasaad/ledger/pkg/service/auth"
	reportsvc "github.com/amirasaad/ledger/pkg/service/report"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

func Routes(router fiber.Router, reportSvc *reportsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	g := router.Group("/reports", middleware.JwtProtected(cfg.Auth.Jwt))
	g.Get("/monthly", MonthlyReport(reportSvc, authSvc))
	g.Get("/custom", CustomReport(reportSvc, authSvc))
}

// MonthlyReport renders a PDF statement for a month and returns a download link.
// @Summary Monthly PDF report
// @Tags reports
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} common.Response
// @Router /api/reports/monthly [get]
// @Security BearerAuth
func MonthlyReport(reportSvc *reportsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		year, err := common.RequiredQueryInt(c, "year")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		month, err := common.RequiredQueryInt(c, "month")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		res, err := reportSvc.Monthly(c.Context(), userID, year, month)
		if err != nil {
			log.Errorf("Monthly report failed: %v", err)
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Monthly report generated successfully", res)
	}
}

// CustomReport renders a PDF statement for an arbitrary range.
// @Summary Custom range PDF report
// @Tags reports
// @Produce json
// @Param startDate query string true "RFC 3339 start"
// @Param endDate query string true "RFC 3339 end"
// @Success 200 {object} common.Response
// @Router /api/reports/custom [get]
// @Security BearerAuth
func CustomReport(reportSvc *reportsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		start, err := common.RequiredQueryTime(c, "startDate")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		end, err := common.RequiredQueryTime(c, "endDate")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		res, err := reportSvc.Custom(c.Context(), userID, start, end)
		if err != nil {
			log.Errorf("Custom report failed: %v", err)
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Custom report generated successfully", res)
	}
}
