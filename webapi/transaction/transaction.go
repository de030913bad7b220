package transaction

import (
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/middleware"
	authsvc "github.com/amirasaad/ledger/pkg/service/auth"
	txsvc "github.com/amirasaad/ledger/pkg/service/transaction"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the transaction endpoints.
//
//   - GET    /transactions[?accountId=&categoryId=&type=&startDate=&endDate=]
//   - GET    /transactions/:id
//   - POST   /transactions
//   - POST   /transactions/transfer
//   - POST   /transactions/investment
//   - DELETE /transactions/:id
func Routes(router fiber.Router, txSvc *txsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	g := router.Group("/transactions", middleware.JwtProtected(cfg.Auth.Jwt))
	g.Get("/", ListTransactions(txSvc, authSvc))
	g.Post("/transfer", CreateTransfer(txSvc, authSvc))
	g.Post("/investment", CreateInvestment(txSvc, authSvc))
	g.Post("/", CreateTransaction(txSvc, authSvc))
	g.Get("/:id", GetTransaction(txSvc, authSvc))
	g.Delete("/:id", DeleteTransaction(txSvc, authSvc))
}

func parseFilter(c *fiber.Ctx) (f transaction.Filter, err error) {
	if f.AccountID, err = common.QueryUUID(c, "accountId"); err != nil {
		return
	}
	if f.CategoryID, err = common.QueryUUID(c, "categoryId"); err != nil {
		return
	}
	if raw := c.Query("type"); raw != "" {
		t := transaction.Type(raw)
		f.Type = &t
	}
	if f.Start, err = common.QueryTime(c, "startDate"); err != nil {
		return
	}
	f.End, err = common.QueryTime(c, "endDate")
	return
}

// ListTransactions returns the caller's transactions, newest first. When
// several filters are given only one applies: date range, then category,
// then type, then account.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param accountId query string false "Account ID"
// @Param categoryId query string false "Category ID"
// @Param type query string false "INCOME, EXPENSE or TRANSFER"
// @Param startDate query string false "RFC 3339 start"
// @Param endDate query string false "RFC 3339 end"
// @Success 200 {object} common.Response
// @Router /api/transactions [get]
// @Security BearerAuth
func ListTransactions(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		f, err := parseFilter(c)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		var txs []*transaction.Transaction
		if f.Empty() {
			txs, err = txSvc.List(c.Context(), userID)
		} else {
			txs, err = txSvc.Filter(c.Context(), userID, f)
		}
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions retrieved successfully", txs)
	}
}

// GetTransaction returns one of the caller's transactions.
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /api/transactions/{id} [get]
// @Security BearerAuth
func GetTransaction(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		tx, err := txSvc.Get(c.Context(), userID, id)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction retrieved successfully", tx)
	}
}

// CreateTransaction posts an income or expense.
// @Summary Create a transaction
// @Description INCOME amounts must be positive and EXPENSE amounts negative.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "Transaction"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 403 {object} common.Response
// @Router /api/transactions [post]
// @Security BearerAuth
func CreateTransaction(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if input == nil {
			return err
		}
		tx, err := txSvc.Create(c.Context(), userID, transaction.Draft{
			AccountID:   input.AccountID,
			CategoryID:  input.CategoryID,
			Amount:      input.Amount,
			Type:        transaction.Type(input.Type),
			Description: input.Description,
			Date:        input.TransactionDate,
			PaymentMode: transaction.PaymentMode(input.PaymentMode),
		})
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction created successfully", tx)
	}
}

// CreateTransfer moves money between two of the caller's accounts.
// @Summary Transfer between accounts
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateTransferRequest true "Transfer"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/transactions/transfer [post]
// @Security BearerAuth
func CreateTransfer(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CreateTransferRequest](c)
		if input == nil {
			return err
		}
		res, err := txSvc.Transfer(c.Context(), userID, txsvc.TransferInput{
			FromAccountID: input.FromAccountID,
			ToAccountID:   input.ToAccountID,
			Amount:        input.Amount,
			Date:          input.TransactionDate,
			PaymentMode:   transaction.PaymentMode(input.PaymentMode),
			Description:   input.Description,
		})
		if err != nil {
			log.Errorf("Transfer failed: %v", err)
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer completed successfully", res)
	}
}

// CreateInvestment records an asset purchase from an INVESTMENT account.
// @Summary Record an investment trade
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateInvestmentRequest true "Trade"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/transactions/investment [post]
// @Security BearerAuth
func CreateInvestment(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CreateInvestmentRequest](c)
		if input == nil {
			return err
		}
		tx, err := txSvc.Invest(c.Context(), userID, transaction.Trade{
			AccountID:    input.AccountID,
			AssetSymbol:  input.AssetSymbol,
			AssetType:    transaction.AssetType(input.AssetType),
			Quantity:     input.Quantity,
			PricePerUnit: input.PricePerUnit,
			Description:  input.Description,
			Date:         input.TransactionDate,
			PaymentMode:  transaction.PaymentMode(input.PaymentMode),
		})
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Investment recorded successfully", InvestmentResponse{
			Transaction: tx,
			InvestmentMetadata: InvestmentMetadataResponse{
				InvestmentMetadata: tx.Investment,
				TotalAmount:        tx.Investment.TotalAmount(),
			},
		})
	}
}

// DeleteTransaction reverses a single posting. Transfer legs cannot be deleted.
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 403 {object} common.Response
// @Router /api/transactions/{id} [delete]
// @Security BearerAuth
func DeleteTransaction(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		if err := txSvc.Delete(c.Context(), userID, id); err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction deleted successfully", nil)
	}
}
