package account

import (
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/middleware"
	accountsvc "github.com/amirasaad/ledger/pkg/service/account"
	authsvc "github.com/amirasaad/ledger/pkg/service/auth"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the account endpoints. All of them require a valid token.
//
//   - GET    /accounts[?type=]
//   - POST   /accounts
//   - GET    /accounts/:id
//   - PUT    /accounts/:id
//   - DELETE /accounts/:id
//   - GET    /accounts/:id/reconcile
func Routes(router fiber.Router, accountSvc *accountsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	g := router.Group("/accounts", middleware.JwtProtected(cfg.Auth.Jwt))
	g.Get("/", ListAccounts(accountSvc, authSvc))
	g.Post("/", CreateAccount(accountSvc, authSvc))
	g.Get("/:id", GetAccount(accountSvc, authSvc))
	g.Put("/:id", UpdateAccount(accountSvc, authSvc))
	g.Delete("/:id", DeleteAccount(accountSvc, authSvc))
	g.Get("/:id/reconcile", Reconcile(accountSvc, authSvc))
}

// ListAccounts returns the caller's accounts, optionally filtered by type.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Param type query string false "Account type"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.Response
// @Router /api/accounts [get]
// @Security BearerAuth
func ListAccounts(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		var t *account.Type
		if raw := c.Query("type"); raw != "" {
			at := account.Type(raw)
			t = &at
		}
		accounts, err := accountSvc.List(c.Context(), userID, t)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts retrieved successfully", accounts)
	}
}

// CreateAccount opens an account for the caller.
// @Summary Create an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 409 {object} common.Response
// @Router /api/accounts [post]
// @Security BearerAuth
func CreateAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		a, err := accountSvc.Create(c.Context(), userID, accountsvc.CreateInput{
			Name:           input.Name,
			Type:           account.Type(input.Type),
			Currency:       account.Currency(input.Currency),
			InitialBalance: input.InitialBalance,
		})
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created successfully", a)
	}
}

// GetAccount returns one of the caller's accounts.
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /api/accounts/{id} [get]
// @Security BearerAuth
func GetAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		a, err := accountSvc.Get(c.Context(), userID, id)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account retrieved successfully", a)
	}
}

// UpdateAccount renames an account or changes its currency.
// @Summary Update an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body UpdateAccountRequest true "New values"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 409 {object} common.Response
// @Router /api/accounts/{id} [put]
// @Security BearerAuth
func UpdateAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[UpdateAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := accountSvc.Update(c.Context(), userID, id, accountsvc.UpdateInput{
			Name:     input.Name,
			Currency: account.Currency(input.Currency),
		})
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account updated successfully", a)
	}
}

// DeleteAccount removes an account that has no transactions.
// @Summary Delete an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 409 {object} common.Response
// @Router /api/accounts/{id} [delete]
// @Security BearerAuth
func DeleteAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		if err := accountSvc.Delete(c.Context(), userID, id); err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account deleted successfully", nil)
	}
}

// Reconcile compares the stored balance with the account's postings.
// @Summary Reconcile an account balance
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Router /api/accounts/{id}/reconcile [get]
// @Security BearerAuth
func Reconcile(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		r, err := accountSvc.Reconcile(c.Context(), userID, id)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account reconciled", fiber.Map{
			"reconciliation": r,
			"balanced":       r.Balanced(),
		})
	}
}
