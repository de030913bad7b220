package analytics

import (
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/middleware"
	analyticssvc "github.com/amirasaad/ledger/pkg/service/analytics"
	authsvc "github.com/amirasaad/ledger/pkg/service/auth"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(router fiber.Router, analyticsSvc *analyticssvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	g := router.Group("/analytics", middleware.JwtProtected(cfg.Auth.Jwt))
	g.Get("/networth", NetWorth(analyticsSvc, authSvc))
	g.Get("/monthly-summary", MonthlySummary(analyticsSvc, authSvc))
	g.Get("/category-spending", CategorySpending(analyticsSvc, authSvc))
}

// NetWorth returns total assets, liabilities and per-account balances.
// @Summary Net worth
// @Tags analytics
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/analytics/networth [get]
// @Security BearerAuth
func NetWorth(analyticsSvc *analyticssvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		nw, err := analyticsSvc.NetWorth(c.Context(), userID)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Net worth calculated successfully", nw)
	}
}

// MonthlySummary totals income and expenses for a calendar month.
// @Summary Monthly summary
// @Tags analytics
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/analytics/monthly-summary [get]
// @Security BearerAuth
func MonthlySummary(analyticsSvc *analyticssvc.Service, authSvc *authsvc.Service) fiber.Handler {
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
		summary, err := analyticsSvc.MonthlySummary(c.Context(), userID, year, month)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Monthly summary calculated successfully", summary)
	}
}

// CategorySpending groups categorized postings in a range by category.
// @Summary Category spending
// @Tags analytics
// @Produce json
// @Param startDate query string true "RFC 3339 start"
// @Param endDate query string true "RFC 3339 end"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/analytics/category-spending [get]
// @Security BearerAuth
func CategorySpending(analyticsSvc *analyticssvc.Service, authSvc *authsvc.Service) fiber.Handler {
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
		spending, err := analyticsSvc.CategorySpending(c.Context(), userID, start, end)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Category spending calculated successfully", spending)
	}
}
